package analysis

import (
	"strings"
)

// Reference is the read-only view of the reference tables the engine queries.
// Implementations must return the same slices in the same order for the lifetime of the value.
type Reference interface {
	Additives() []AdditiveRecord
	UltraProcessed() []UltraProcessedIngredient
	Lookup(key string) (AdditiveRecord, bool)
	Version() string
}

// Options tunes detection behaviour.
type Options struct {
	// Dedupe collapses repeated mentions of the same additive or ingredient into one entry.
	// Off by default: every textual match produces an entry and inflates the quantity penalty.
	Dedupe bool
	// MinNameLength ignores reference names shorter than this when substring matching.
	MinNameLength int
}

// DefaultOptions returns the detection settings used in production.
func DefaultOptions() Options {
	return Options{MinNameLength: 3}
}

type additivePattern struct {
	record AdditiveRecord
	names  []string
}

type ultraPattern struct {
	ingredient UltraProcessedIngredient
	names      []string
}

// Detector scans ingredient text for additives and ultra-processed ingredients.
// It is safe for concurrent use.
type Detector struct {
	ref      Reference
	opts     Options
	additive []additivePattern
	ultra    []ultraPattern
}

// NewDetector precomputes lower-cased match patterns for ref.
func NewDetector(ref Reference, opts Options) *Detector {
	d := &Detector{ref: ref, opts: opts}
	if ref == nil {
		return d
	}

	for _, rec := range ref.Additives() {
		d.additive = append(d.additive, additivePattern{
			record: rec,
			names:  d.patternNames(rec.Name, rec.Synonyms),
		})
	}

	for _, u := range ref.UltraProcessed() {
		d.ultra = append(d.ultra, ultraPattern{
			ingredient: u,
			names:      d.patternNames(u.Name, u.Synonyms),
		})
	}
	return d
}

func (d *Detector) patternNames(name string, synonyms []string) []string {
	out := make([]string, 0, 1+len(synonyms))
	for _, n := range append([]string{name}, synonyms...) {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || len(n) < d.opts.MinNameLength {
			continue
		}
		// A bare E-number name is matched through the code index instead.
		if NormalizeENumber(n) == n {
			continue
		}
		out = append(out, n)
	}
	return out
}

// DetectText splits a whole ingredient label and scans it.
func (d *Detector) DetectText(text string) DetectionResult {
	return d.Detect(SplitIngredients(text))
}

// Detect scans each ingredient string in order. A reference entry is reported at most once
// per ingredient string; repeated mentions across strings each produce an entry unless
// Options.Dedupe is set. Nil or empty input yields an empty result.
func (d *Detector) Detect(ingredients []string) DetectionResult {
	var res DetectionResult
	if len(ingredients) == 0 || d.ref == nil {
		return res
	}

	seenAdditive := make(map[string]struct{})
	seenUltra := make(map[string]struct{})

	for _, raw := range ingredients {
		text := strings.ToLower(strings.TrimSpace(raw))
		if text == "" {
			continue
		}

		matched := make(map[string]struct{})
		var found []AdditiveRecord

		for _, code := range findENumbers(text) {
			rec, ok := d.ref.Lookup(code)
			if !ok {
				// An unlisted code still counts, as a low-information item.
				rec = unknownAdditive(code)
			}
			key := additiveKey(rec)
			if _, dup := matched[key]; dup {
				continue
			}
			matched[key] = struct{}{}
			found = append(found, rec)
		}

		for _, p := range d.additive {
			key := additiveKey(p.record)
			if _, dup := matched[key]; dup {
				continue
			}
			if containsAny(text, p.names...) {
				matched[key] = struct{}{}
				found = append(found, p.record)
			}
		}

		for _, rec := range found {
			if d.opts.Dedupe {
				key := additiveKey(rec)
				if _, dup := seenAdditive[key]; dup {
					continue
				}
				seenAdditive[key] = struct{}{}
			}
			res.Additives = append(res.Additives, rec)
		}

		for _, p := range d.ultra {
			if !containsAny(text, p.names...) {
				continue
			}
			if d.opts.Dedupe {
				key := strings.ToLower(p.ingredient.Name)
				if _, dup := seenUltra[key]; dup {
					continue
				}
				seenUltra[key] = struct{}{}
			}
			res.UltraProcessed = append(res.UltraProcessed, p.ingredient)
		}
	}
	return res
}

func additiveKey(rec AdditiveRecord) string {
	if code := NormalizeENumber(rec.ENumber); code != "" {
		return code
	}
	return strings.ToLower(rec.Name)
}

// unknownAdditive stands in for an E-number the reference table does not list.
func unknownAdditive(code string) AdditiveRecord {
	label := strings.ToUpper(code[:1]) + code[1:]
	return AdditiveRecord{
		Name:    label,
		ENumber: label,
		Tier:    TierNone,
		Origin:  OriginUnknown,
		Known:   false,
	}
}

// SplitIngredients splits a label on commas and semicolons that are not inside brackets,
// so "emulsifiers (E471, E472e), salt" yields two ingredients.
func SplitIngredients(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var (
		out   []string
		depth int
		start int
	)
	flush := func(end int) {
		part := strings.TrimSpace(text[start:end])
		part = strings.TrimSuffix(part, ".")
		if part != "" {
			out = append(out, part)
		}
	}
	for i, r := range text {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',', ';':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(text))
	return out
}
