package reference

import (
	"sort"
	"strings"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/analysis"
)

// Override is a curated correction applied over a base additive. Zero values leave the base
// field untouched.
type Override struct {
	ENumber            string
	Name               string
	Synonyms           []string
	Tier               *analysis.RiskTier
	Origin             analysis.Origin
	ChildWarning       *bool
	SulphiteAllergen   *bool
	ShortDescription   string
	FullDescription    string
	Summary            string
	TypicalUses        string
	IsVitaminOrMineral *bool
}

// Table is an immutable, versioned snapshot of the reference data. It implements
// analysis.Reference and is safe for concurrent reads.
type Table struct {
	version   string
	additives []analysis.AdditiveRecord
	ultra     []analysis.UltraProcessedIngredient
	byCode    map[string]int
	byName    map[string]int
}

var _ analysis.Reference = (*Table)(nil)

// NewTable merges overrides into base records and indexes the result. An override whose key
// matches no base record becomes a curated entry of its own. Records are ordered by E-number,
// then name, so detection order does not depend on how the source was stored.
func NewTable(version string, base []analysis.AdditiveRecord, overrides []Override, ultra []analysis.UltraProcessedIngredient) *Table {
	merged := make([]analysis.AdditiveRecord, 0, len(base)+len(overrides))
	index := make(map[string]int, 2*len(base))
	for _, rec := range base {
		rec.Known = true
		code, name := codeKey(rec.ENumber), nameKey(rec.Name)
		if code == "" && name == "" {
			continue
		}
		if _, dup := index[firstNonEmpty(code, name)]; dup {
			continue
		}
		i := len(merged)
		merged = append(merged, rec)
		for _, k := range []string{code, name} {
			if _, taken := index[k]; k != "" && !taken {
				index[k] = i
			}
		}
	}

	for _, o := range overrides {
		code, name := codeKey(o.ENumber), nameKey(o.Name)
		if code == "" && name == "" {
			continue
		}
		i, ok := index[code]
		if !ok || code == "" {
			// Fall back to a name match when the override carries no code or one the base lacks.
			i, ok = index[name]
			ok = ok && name != ""
		}
		if ok {
			merged[i] = applyOverride(merged[i], o)
			continue
		}
		i = len(merged)
		merged = append(merged, applyOverride(analysis.AdditiveRecord{Known: true}, o))
		for _, k := range []string{code, name} {
			if _, taken := index[k]; k != "" && !taken {
				index[k] = i
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return lessAdditive(merged[i], merged[j])
	})

	ups := append([]analysis.UltraProcessedIngredient(nil), ultra...)
	sort.SliceStable(ups, func(i, j int) bool {
		return strings.ToLower(ups[i].Name) < strings.ToLower(ups[j].Name)
	})

	t := &Table{
		version:   version,
		additives: merged,
		ultra:     ups,
		byCode:    make(map[string]int, len(merged)),
		byName:    make(map[string]int, len(merged)),
	}
	for i, rec := range merged {
		if code := analysis.NormalizeENumber(rec.ENumber); code != "" {
			if _, dup := t.byCode[code]; !dup {
				t.byCode[code] = i
			}
		}
		for _, n := range append([]string{rec.Name}, rec.Synonyms...) {
			n = strings.ToLower(strings.TrimSpace(n))
			if n == "" {
				continue
			}
			if _, dup := t.byName[n]; !dup {
				t.byName[n] = i
			}
		}
	}
	return t
}

// Empty returns a table with no entries, used before the first load succeeds.
func Empty() *Table {
	return NewTable("", nil, nil, nil)
}

func (t *Table) Version() string                                     { return t.version }
func (t *Table) Additives() []analysis.AdditiveRecord                { return t.additives }
func (t *Table) UltraProcessed() []analysis.UltraProcessedIngredient { return t.ultra }

// Len returns the number of additive and ultra-processed entries.
func (t *Table) Len() (additives, ultra int) {
	return len(t.additives), len(t.ultra)
}

// Lookup finds an additive by E-number ("E621", "e 621") or by exact name or synonym,
// case-insensitively.
func (t *Table) Lookup(key string) (analysis.AdditiveRecord, bool) {
	if code := codeKey(key); code != "" {
		if i, ok := t.byCode[code]; ok {
			return t.additives[i], true
		}
	}
	if i, ok := t.byName[nameKey(key)]; ok {
		return t.additives[i], true
	}
	return analysis.AdditiveRecord{}, false
}

func applyOverride(rec analysis.AdditiveRecord, o Override) analysis.AdditiveRecord {
	rec.Curated = true
	if s := strings.TrimSpace(o.ENumber); s != "" && rec.ENumber == "" {
		rec.ENumber = s
	}
	if s := strings.TrimSpace(o.Name); s != "" {
		rec.Name = s
	}
	if len(o.Synonyms) > 0 {
		rec.Synonyms = mergeSynonyms(rec.Synonyms, o.Synonyms)
	}
	if o.Tier != nil {
		rec.Tier = *o.Tier
	}
	if o.Origin != "" && o.Origin != analysis.OriginUnknown {
		rec.Origin = o.Origin
	}
	if o.ChildWarning != nil {
		rec.ChildWarning = *o.ChildWarning
	}
	if o.SulphiteAllergen != nil {
		rec.SulphiteAllergen = *o.SulphiteAllergen
	}
	if o.IsVitaminOrMineral != nil {
		rec.IsVitaminOrMineral = *o.IsVitaminOrMineral
	}
	rec.ShortDescription = firstNonEmpty(o.ShortDescription, rec.ShortDescription)
	rec.FullDescription = firstNonEmpty(o.FullDescription, rec.FullDescription)
	rec.Summary = firstNonEmpty(o.Summary, rec.Summary)
	rec.TypicalUses = firstNonEmpty(o.TypicalUses, rec.TypicalUses)
	return rec
}

func mergeSynonyms(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, s := range append(append([]string(nil), base...), extra...) {
		k := strings.ToLower(strings.TrimSpace(s))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func codeKey(eNumber string) string {
	code := analysis.NormalizeENumber(eNumber)
	if code == "" || compact(eNumber) != code {
		return ""
	}
	return code
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// compact lower-cases s and drops the separators labels put inside E-numbers.
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

func lessAdditive(a, b analysis.AdditiveRecord) bool {
	an, asfx, aok := analysis.ParseENumber(a.ENumber)
	bn, bsfx, bok := analysis.ParseENumber(b.ENumber)
	switch {
	case aok && bok:
		if an != bn {
			return an < bn
		}
		if asfx != bsfx {
			return asfx < bsfx
		}
	case aok != bok:
		// Coded additives sort before name-only ones.
		return aok
	}
	return strings.ToLower(a.Name) < strings.ToLower(b.Name)
}
