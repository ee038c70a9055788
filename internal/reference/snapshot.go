package reference

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/analysis"
)

var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

// Snapshot is the portable form of the reference data, as shipped in YAML or JSON files.
type Snapshot struct {
	Version        string                `yaml:"version" json:"version"`
	Additives      []AdditiveEntry       `yaml:"additives" json:"additives"`
	Overrides      []OverrideEntry       `yaml:"overrides,omitempty" json:"overrides,omitempty"`
	UltraProcessed []UltraProcessedEntry `yaml:"ultra_processed" json:"ultra_processed"`
}

type AdditiveEntry struct {
	ENumber            string   `yaml:"e_number" json:"e_number"`
	Name               string   `yaml:"name" json:"name"`
	Synonyms           []string `yaml:"synonyms,omitempty" json:"synonyms,omitempty"`
	Tier               string   `yaml:"tier" json:"tier"`
	Origin             string   `yaml:"origin,omitempty" json:"origin,omitempty"`
	ChildWarning       bool     `yaml:"child_warning,omitempty" json:"child_warning,omitempty"`
	SulphiteAllergen   bool     `yaml:"sulphite_allergen,omitempty" json:"sulphite_allergen,omitempty"`
	ShortDescription   string   `yaml:"short_description,omitempty" json:"short_description,omitempty"`
	FullDescription    string   `yaml:"full_description,omitempty" json:"full_description,omitempty"`
	Summary            string   `yaml:"summary,omitempty" json:"summary,omitempty"`
	TypicalUses        string   `yaml:"typical_uses,omitempty" json:"typical_uses,omitempty"`
	IsVitaminOrMineral bool     `yaml:"is_vitamin_or_mineral,omitempty" json:"is_vitamin_or_mineral,omitempty"`
}

// OverrideEntry mirrors AdditiveEntry, but every field is optional.
type OverrideEntry struct {
	ENumber            string   `yaml:"e_number,omitempty" json:"e_number,omitempty"`
	Name               string   `yaml:"name,omitempty" json:"name,omitempty"`
	Synonyms           []string `yaml:"synonyms,omitempty" json:"synonyms,omitempty"`
	Tier               string   `yaml:"tier,omitempty" json:"tier,omitempty"`
	Origin             string   `yaml:"origin,omitempty" json:"origin,omitempty"`
	ChildWarning       *bool    `yaml:"child_warning,omitempty" json:"child_warning,omitempty"`
	SulphiteAllergen   *bool    `yaml:"sulphite_allergen,omitempty" json:"sulphite_allergen,omitempty"`
	ShortDescription   string   `yaml:"short_description,omitempty" json:"short_description,omitempty"`
	FullDescription    string   `yaml:"full_description,omitempty" json:"full_description,omitempty"`
	Summary            string   `yaml:"summary,omitempty" json:"summary,omitempty"`
	TypicalUses        string   `yaml:"typical_uses,omitempty" json:"typical_uses,omitempty"`
	IsVitaminOrMineral *bool    `yaml:"is_vitamin_or_mineral,omitempty" json:"is_vitamin_or_mineral,omitempty"`
}

type UltraProcessedEntry struct {
	Name              string   `yaml:"name" json:"name"`
	Category          string   `yaml:"category,omitempty" json:"category,omitempty"`
	NovaGroup         int      `yaml:"nova_group" json:"nova_group"`
	ProcessingPenalty int      `yaml:"processing_penalty" json:"processing_penalty"`
	Concerns          string   `yaml:"concerns,omitempty" json:"concerns,omitempty"`
	WhatItIs          string   `yaml:"what_it_is,omitempty" json:"what_it_is,omitempty"`
	WhyUsed           string   `yaml:"why_used,omitempty" json:"why_used,omitempty"`
	Synonyms          []string `yaml:"synonyms,omitempty" json:"synonyms,omitempty"`
}

// DecodeSnapshot reads a snapshot, choosing the codec from the file extension of name.
func DecodeSnapshot(name string, r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&snap); err != nil {
			return nil, fmt.Errorf("failed to decode yaml snapshot %s: %w", name, err)
		}
	case ".json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&snap); err != nil {
			return nil, fmt.Errorf("failed to decode json snapshot %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	return &snap, nil
}

// EncodeYAML writes the snapshot as YAML.
func (s *Snapshot) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// Validate reports every malformed entry at once.
func (s *Snapshot) Validate() error {
	var errs []error
	for i, a := range s.Additives {
		if strings.TrimSpace(a.Name) == "" && strings.TrimSpace(a.ENumber) == "" {
			errs = append(errs, fmt.Errorf("additives[%d]: name or e_number is required", i))
		}
		if a.ENumber != "" && analysis.NormalizeENumber(a.ENumber) == "" {
			errs = append(errs, fmt.Errorf("additives[%d]: invalid e_number %q", i, a.ENumber))
		}
		if _, err := analysis.ParseRiskTier(a.Tier); err != nil {
			errs = append(errs, fmt.Errorf("additives[%d]: %w", i, err))
		}
	}
	for i, o := range s.Overrides {
		if strings.TrimSpace(o.Name) == "" && strings.TrimSpace(o.ENumber) == "" {
			errs = append(errs, fmt.Errorf("overrides[%d]: name or e_number is required", i))
		}
		if o.Tier != "" {
			if _, err := analysis.ParseRiskTier(o.Tier); err != nil {
				errs = append(errs, fmt.Errorf("overrides[%d]: %w", i, err))
			}
		}
	}
	for i, u := range s.UltraProcessed {
		if strings.TrimSpace(u.Name) == "" {
			errs = append(errs, fmt.Errorf("ultra_processed[%d]: name is required", i))
		}
		if u.NovaGroup < 1 || u.NovaGroup > 4 {
			errs = append(errs, fmt.Errorf("ultra_processed[%d]: nova_group %d out of range 1..4", i, u.NovaGroup))
		}
		if u.ProcessingPenalty < 0 {
			errs = append(errs, fmt.Errorf("ultra_processed[%d]: processing_penalty must not be negative", i))
		}
	}
	return errors.Join(errs...)
}

// ContentVersion derives a stable version string from the snapshot content. It is used when
// the snapshot does not name its own version.
func (s *Snapshot) ContentVersion() string {
	var buf bytes.Buffer
	// Encoding a plain struct to JSON cannot fail.
	_ = json.NewEncoder(&buf).Encode(struct {
		A []AdditiveEntry
		O []OverrideEntry
		U []UltraProcessedEntry
	}{s.Additives, s.Overrides, s.UltraProcessed})
	sum := sha256.Sum256(buf.Bytes())
	return "sha-" + hex.EncodeToString(sum[:6])
}

// EffectiveVersion is the declared version, or the content version when none is declared.
func (s *Snapshot) EffectiveVersion() string {
	if v := strings.TrimSpace(s.Version); v != "" {
		return v
	}
	return s.ContentVersion()
}

// Table builds the immutable table. Malformed tiers fall back to none rather than failing,
// so a partially bad snapshot still loads; run Validate first to reject it instead.
func (s *Snapshot) Table() *Table {
	base := make([]analysis.AdditiveRecord, 0, len(s.Additives))
	for _, a := range s.Additives {
		base = append(base, a.record())
	}
	overrides := make([]Override, 0, len(s.Overrides))
	for _, o := range s.Overrides {
		overrides = append(overrides, o.override())
	}
	ultra := make([]analysis.UltraProcessedIngredient, 0, len(s.UltraProcessed))
	for _, u := range s.UltraProcessed {
		ultra = append(ultra, u.ingredient())
	}
	return NewTable(s.EffectiveVersion(), base, overrides, ultra)
}

func (a AdditiveEntry) record() analysis.AdditiveRecord {
	tier, _ := analysis.ParseRiskTier(a.Tier)
	return analysis.AdditiveRecord{
		Name:               strings.TrimSpace(a.Name),
		ENumber:            strings.TrimSpace(a.ENumber),
		Synonyms:           a.Synonyms,
		Tier:               tier,
		Origin:             analysis.ParseOrigin(a.Origin),
		ChildWarning:       a.ChildWarning,
		SulphiteAllergen:   a.SulphiteAllergen,
		ShortDescription:   a.ShortDescription,
		FullDescription:    a.FullDescription,
		Summary:            a.Summary,
		TypicalUses:        a.TypicalUses,
		IsVitaminOrMineral: a.IsVitaminOrMineral,
		Known:              true,
	}
}

func (o OverrideEntry) override() Override {
	out := Override{
		ENumber:            o.ENumber,
		Name:               o.Name,
		Synonyms:           o.Synonyms,
		Origin:             analysis.ParseOrigin(o.Origin),
		ChildWarning:       o.ChildWarning,
		SulphiteAllergen:   o.SulphiteAllergen,
		ShortDescription:   o.ShortDescription,
		FullDescription:    o.FullDescription,
		Summary:            o.Summary,
		TypicalUses:        o.TypicalUses,
		IsVitaminOrMineral: o.IsVitaminOrMineral,
	}
	if tier, err := analysis.ParseRiskTier(o.Tier); err == nil && o.Tier != "" {
		out.Tier = &tier
	}
	return out
}

func (u UltraProcessedEntry) ingredient() analysis.UltraProcessedIngredient {
	return analysis.UltraProcessedIngredient{
		Name:              strings.TrimSpace(u.Name),
		Category:          u.Category,
		NovaGroup:         u.NovaGroup,
		ProcessingPenalty: u.ProcessingPenalty,
		Concerns:          u.Concerns,
		WhatItIs:          u.WhatItIs,
		WhyUsed:           u.WhyUsed,
		Synonyms:          u.Synonyms,
	}
}
