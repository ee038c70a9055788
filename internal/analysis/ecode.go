package analysis

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// eNumberPattern matches E-number candidates as they appear on labels: "E621", "e 621", "E-150d",
// "E160a(ii)". RE2 has no lookahead, so scanENumbers checks what follows each candidate.
var eNumberPattern = regexp.MustCompile(`(?i)\be[\s\-]?(\d{3,4})([a-j])?(\((?:i|ii|iii|iv|v|vi)\))?`)

// EU additive codes run from E100 to E1599.
const (
	minENumber = 100
	maxENumber = 1599
)

// Dosage units that turn "e 400" into a vitamin E amount rather than an additive code.
var doseUnits = []string{"iu", "mg", "mcg", "µg", "ug", "g"}

type eToken struct {
	number int
	suffix string
	code   string
}

// scanENumbers returns every E-number token in text, in order of appearance. A token must end
// at a boundary, so "e14000" and "e400iu" are not codes, and "vitamin e 400" is a vitamin amount.
func scanENumbers(text string) []eToken {
	lower := strings.ToLower(text)
	var out []eToken
	for _, loc := range eNumberPattern.FindAllStringSubmatchIndex(lower, -1) {
		if !atBoundary(lower, loc[1]) {
			continue
		}
		if afterVitamin(lower[:loc[0]]) || beforeDoseUnit(lower[loc[1]:]) {
			continue
		}
		digits := lower[loc[2]:loc[3]]
		n, err := strconv.Atoi(digits)
		if err != nil || n < minENumber || n > maxENumber {
			continue
		}
		var suffix string
		if loc[4] >= 0 {
			suffix += lower[loc[4]:loc[5]]
		}
		if loc[6] >= 0 {
			suffix += lower[loc[6]:loc[7]]
		}
		out = append(out, eToken{number: n, suffix: suffix, code: "e" + digits + suffix})
	}
	return out
}

// atBoundary reports whether s has no letter or digit at byte offset i.
func atBoundary(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func afterVitamin(prefix string) bool {
	return strings.HasSuffix(strings.TrimRight(prefix, " -"), "vitamin")
}

func beforeDoseUnit(rest string) bool {
	rest = strings.TrimLeft(rest, " ")
	for _, unit := range doseUnits {
		if strings.HasPrefix(rest, unit) && atBoundary(rest, len(unit)) {
			return true
		}
	}
	return false
}

// NormalizeENumber lower-cases an E-number and strips separators, so "E 150D" becomes "e150d".
// It returns "" when s is not an E-number.
func NormalizeENumber(s string) string {
	tokens := scanENumbers(strings.TrimSpace(s))
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0].code
}

// ParseENumber splits a normalised or raw E-number into its numeric part and letter suffix.
func ParseENumber(code string) (int, string, bool) {
	tokens := scanENumbers(strings.TrimSpace(code))
	if len(tokens) == 0 {
		return 0, "", false
	}
	return tokens[0].number, tokens[0].suffix, true
}

// findENumbers returns every normalised E-number token in text, in order of appearance.
func findENumbers(text string) []string {
	tokens := scanENumbers(text)
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.code)
	}
	return out
}

// inNumericRange reports whether the numeric part of code lies in [lo, hi]. Letter suffixes are
// ignored, so "e228a" is inside 220..228 even though it sorts after "e228" as a string.
func inNumericRange(code string, lo, hi int) bool {
	n, _, ok := ParseENumber(code)
	if !ok {
		return false
	}
	return n >= lo && n <= hi
}

// inLexicalRange compares lower-cased codes as strings. It agrees with inNumericRange only
// while the code and both bounds have the same digit count and the code carries no suffix.
func inLexicalRange(code, lo, hi string) bool {
	c := strings.ToLower(strings.TrimSpace(code))
	if c == "" {
		return false
	}
	return c >= strings.ToLower(lo) && c <= strings.ToLower(hi)
}
