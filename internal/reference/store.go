package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/analysis"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/models"
)

// ErrNotSeeded is returned by Load when no reference snapshot has been written yet.
var ErrNotSeeded = errors.New("reference data has not been seeded")

// Store persists reference snapshots in the database.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store instance
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CurrentVersion returns the latest recorded version row.
func (s *Store) CurrentVersion(ctx context.Context) (*models.ReferenceVersion, error) {
	var v models.ReferenceVersion
	err := s.db.WithContext(ctx).Order("id DESC").First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotSeeded
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reference version: %w", err)
	}
	return &v, nil
}

// Load reads all reference tables and builds an immutable Table.
func (s *Store) Load(ctx context.Context) (*Table, error) {
	version, err := s.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var additives []models.Additive
	if err := db.Order("position ASC").Find(&additives).Error; err != nil {
		return nil, fmt.Errorf("failed to load additives: %w", err)
	}
	var overrides []models.AdditiveOverride
	if err := db.Order("position ASC").Find(&overrides).Error; err != nil {
		return nil, fmt.Errorf("failed to load additive overrides: %w", err)
	}
	var ultra []models.UltraProcessedIngredient
	if err := db.Order("position ASC").Find(&ultra).Error; err != nil {
		return nil, fmt.Errorf("failed to load ultra-processed ingredients: %w", err)
	}

	base := make([]analysis.AdditiveRecord, 0, len(additives))
	for _, row := range additives {
		base = append(base, additiveFromRow(row))
	}
	ovs := make([]Override, 0, len(overrides))
	for _, row := range overrides {
		ovs = append(ovs, overrideFromRow(row))
	}
	ups := make([]analysis.UltraProcessedIngredient, 0, len(ultra))
	for _, row := range ultra {
		ups = append(ups, analysis.UltraProcessedIngredient{
			Name:              row.Name,
			Category:          row.Category,
			NovaGroup:         row.NovaGroup,
			ProcessingPenalty: row.ProcessingPenalty,
			Concerns:          row.Concerns,
			WhatItIs:          row.WhatItIs,
			WhyUsed:           row.WhyUsed,
			Synonyms:          []string(row.Synonyms),
		})
	}
	return NewTable(version.Version, base, ovs, ups), nil
}

// Replace swaps the stored reference data for snap in one transaction and records a new
// version row. It returns the version that was written.
func (s *Store) Replace(ctx context.Context, snap *Snapshot, source string) (string, error) {
	if err := snap.Validate(); err != nil {
		return "", fmt.Errorf("invalid snapshot: %w", err)
	}
	version := snap.EffectiveVersion()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.Additive{}, &models.AdditiveOverride{}, &models.UltraProcessedIngredient{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear %T: %w", model, err)
			}
		}

		if len(snap.Additives) > 0 {
			rows := make([]models.Additive, 0, len(snap.Additives))
			for i, a := range snap.Additives {
				rows = append(rows, models.Additive{
					ID:                 uuid.New(),
					ENumber:            strings.TrimSpace(a.ENumber),
					Name:               strings.TrimSpace(a.Name),
					Synonyms:           models.StringList(a.Synonyms),
					Tier:               strings.ToLower(strings.TrimSpace(a.Tier)),
					Origin:             a.Origin,
					ChildWarning:       a.ChildWarning,
					SulphiteAllergen:   a.SulphiteAllergen,
					ShortDescription:   a.ShortDescription,
					FullDescription:    a.FullDescription,
					Summary:            a.Summary,
					TypicalUses:        a.TypicalUses,
					IsVitaminOrMineral: a.IsVitaminOrMineral,
					Position:           i,
				})
			}
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("failed to insert additives: %w", err)
			}
		}

		if len(snap.Overrides) > 0 {
			rows := make([]models.AdditiveOverride, 0, len(snap.Overrides))
			for i, o := range snap.Overrides {
				rows = append(rows, models.AdditiveOverride{
					ID:                 uuid.New(),
					ENumber:            strings.TrimSpace(o.ENumber),
					Name:               strings.TrimSpace(o.Name),
					Synonyms:           models.StringList(o.Synonyms),
					Tier:               strings.ToLower(strings.TrimSpace(o.Tier)),
					Origin:             o.Origin,
					ChildWarning:       o.ChildWarning,
					SulphiteAllergen:   o.SulphiteAllergen,
					ShortDescription:   o.ShortDescription,
					FullDescription:    o.FullDescription,
					Summary:            o.Summary,
					TypicalUses:        o.TypicalUses,
					IsVitaminOrMineral: o.IsVitaminOrMineral,
					Position:           i,
				})
			}
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("failed to insert additive overrides: %w", err)
			}
		}

		if len(snap.UltraProcessed) > 0 {
			rows := make([]models.UltraProcessedIngredient, 0, len(snap.UltraProcessed))
			for i, u := range snap.UltraProcessed {
				rows = append(rows, models.UltraProcessedIngredient{
					ID:                uuid.New(),
					Name:              strings.TrimSpace(u.Name),
					Category:          u.Category,
					NovaGroup:         u.NovaGroup,
					ProcessingPenalty: u.ProcessingPenalty,
					Concerns:          u.Concerns,
					WhatItIs:          u.WhatItIs,
					WhyUsed:           u.WhyUsed,
					Synonyms:          models.StringList(u.Synonyms),
					Position:          i,
				})
			}
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("failed to insert ultra-processed ingredients: %w", err)
			}
		}

		return tx.Create(&models.ReferenceVersion{
			Version:       version,
			Source:        source,
			AdditiveCount: len(snap.Additives),
			OverrideCount: len(snap.Overrides),
			UltraCount:    len(snap.UltraProcessed),
		}).Error
	})
	if err != nil {
		return "", err
	}
	return version, nil
}

func additiveFromRow(row models.Additive) analysis.AdditiveRecord {
	tier, _ := analysis.ParseRiskTier(row.Tier)
	return analysis.AdditiveRecord{
		Name:               row.Name,
		ENumber:            row.ENumber,
		Synonyms:           []string(row.Synonyms),
		Tier:               tier,
		Origin:             analysis.ParseOrigin(row.Origin),
		ChildWarning:       row.ChildWarning,
		SulphiteAllergen:   row.SulphiteAllergen,
		ShortDescription:   row.ShortDescription,
		FullDescription:    row.FullDescription,
		Summary:            row.Summary,
		TypicalUses:        row.TypicalUses,
		IsVitaminOrMineral: row.IsVitaminOrMineral,
		Known:              true,
	}
}

func overrideFromRow(row models.AdditiveOverride) Override {
	return OverrideEntry{
		ENumber:            row.ENumber,
		Name:               row.Name,
		Synonyms:           []string(row.Synonyms),
		Tier:               row.Tier,
		Origin:             row.Origin,
		ChildWarning:       row.ChildWarning,
		SulphiteAllergen:   row.SulphiteAllergen,
		ShortDescription:   row.ShortDescription,
		FullDescription:    row.FullDescription,
		Summary:            row.Summary,
		TypicalUses:        row.TypicalUses,
		IsVitaminOrMineral: row.IsVitaminOrMineral,
	}.override()
}
