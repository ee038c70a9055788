package analysis

import (
	"sort"
	"strings"
)

// Sensitivity labels reported on matched items.
const (
	SensitivitySulphites = "sulphites"
	SensitivityMSG       = "MSG"
	SensitivityNitrates  = "nitrates"
)

// SensitivitySet is a set of lower-cased sensitivity keywords declared by a user.
type SensitivitySet map[string]struct{}

// NewSensitivitySet builds a set from free-text keywords. Blank entries are dropped.
func NewSensitivitySet(keywords ...string) SensitivitySet {
	set := make(SensitivitySet, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		set[k] = struct{}{}
	}
	return set
}

// HasAny reports whether the set contains at least one of the keywords.
func (s SensitivitySet) HasAny(keywords ...string) bool {
	for _, k := range keywords {
		if _, ok := s[k]; ok {
			return true
		}
	}
	return false
}

// Sorted returns the keywords in lexical order.
func (s SensitivitySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MatchSensitivity cross-references one additive against the user's sensitivities.
// Rules are checked sulphites, MSG, nitrates; the first match wins.
func MatchSensitivity(rec AdditiveRecord, sensitivities SensitivitySet) (bool, string) {
	if len(sensitivities) == 0 {
		return false, ""
	}
	name := strings.ToLower(rec.Name)
	code := NormalizeENumber(rec.ENumber)

	if sensitivities.HasAny("sulphites", "sulfites") {
		if rec.SulphiteAllergen ||
			containsAny(name, "sulphite", "sulfite") ||
			code == "e150b" || code == "e150d" ||
			inNumericRange(code, 220, 228) {
			return true, SensitivitySulphites
		}
	}

	if sensitivities.HasAny("msg", "glutamate") {
		if code == "e621" || containsAny(name, "monosodium glutamate", "msg") {
			return true, SensitivityMSG
		}
	}

	if sensitivities.HasAny("nitrates", "nitrites") {
		if inNumericRange(code, 249, 252) || containsAny(name, "nitrate", "nitrite") {
			return true, SensitivityNitrates
		}
	}

	return false, ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
