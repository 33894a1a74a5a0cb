package parser

import (
	"regexp"
	"strings"
	"time"
)

var (
	reSpaces    = regexp.MustCompile(`\s+`)
	reAllDigits = regexp.MustCompile(`^[\d\s./-]+$`)
	reOrdinal   = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
	reYear      = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

func collapseSpaces(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

func normalizeName(_ *Parser, raw string) (string, float64, bool) {
	name := collapseSpaces(raw)
	if len([]rune(name)) < 2 || reAllDigits.MatchString(name) {
		return "", 0, false
	}
	return name, 1.0, true
}

// dateLayouts are tried in priority order: numeric day-first, two-digit-year
// variants, textual months, then ISO.
var dateLayouts = []string{
	"02/01/2006", "02-01-2006", "02.01.2006",
	"2/1/2006", "2-1-2006", "2.1.2006",
	"02/01/06", "02-01-06", "02.01.06",
	"2 January 2006", "02 January 2006",
	"2 Jan 2006", "02 Jan 2006",
	"2006-01-02", "2006/01/02",
}

// monthFixups maps non-standard month abbreviations to parseable ones.
var monthFixups = map[string]string{
	"sept": "Sep",
}

// ParseDate parses a raw date string against the prioritized layout list,
// tolerating ordinal suffixes ("20th") and loose month abbreviations
// ("Sept"). Returns the parsed calendar date.
func ParseDate(raw string) (time.Time, bool) {
	s := collapseSpaces(raw)
	s = reOrdinal.ReplaceAllString(s, "$1")
	for from, to := range monthFixups {
		re := regexp.MustCompile(`(?i)\b` + from + `\b`)
		s = re.ReplaceAllString(s, to)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Textual months arrive in arbitrary case ("15 march 1990").
	titled := titleCaseWords(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, titled); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func titleCaseWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 && w[0] >= 'a' && w[0] <= 'z' {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}

// normalizeDate produces ISO YYYY-MM-DD. A date outside the sane applicant
// range (before 1900, or younger than the minimum applicant age) is still
// recorded, flagged by reduced confidence. An unparseable value is kept
// verbatim at low confidence rather than dropped.
func normalizeDate(p *Parser, raw string) (string, float64, bool) {
	s := collapseSpaces(raw)
	if s == "" {
		return "", 0, false
	}
	t, ok := ParseDate(s)
	if !ok {
		return s, unparsedDateFactor, true
	}
	iso := t.Format("2006-01-02")
	maxYear := p.now().Year() - minApplicantAge
	if t.Year() < 1900 || t.Year() > maxYear {
		return iso, dateRangeFactor, true
	}
	return iso, 1.0, true
}

const minApplicantAge = 15

func normalizeQualification(_ *Parser, raw string) (string, float64, bool) {
	q := collapseSpaces(raw)
	if q == "" {
		return "", 0, false
	}
	// Collapse duplicate qualifications listed twice in the same value.
	parts := regexp.MustCompile(`\s*[;,]\s*`).Split(q, -1)
	seen := make(map[string]struct{}, len(parts))
	var uniq []string
	for _, part := range parts {
		key := strings.ToLower(part)
		if part == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		uniq = append(uniq, part)
	}
	return strings.Join(uniq, ", "), 1.0, true
}

// nationalityAdjectives is the known-list used for a confidence boost.
// Values off this list are still accepted verbatim.
var nationalityAdjectives = map[string]struct{}{
	"beninese": {}, "burkinabe": {}, "cape verdean": {}, "ivorian": {},
	"gambian": {}, "ghanaian": {}, "guinean": {}, "bissau-guinean": {},
	"liberian": {}, "malian": {}, "nigerien": {}, "nigerian": {},
	"senegalese": {}, "sierra leonean": {}, "togolese": {},
	"american": {}, "british": {}, "cameroonian": {}, "chadian": {},
	"congolese": {}, "egyptian": {}, "ethiopian": {}, "french": {},
	"kenyan": {}, "moroccan": {}, "south african": {}, "sudanese": {},
	"tanzanian": {}, "ugandan": {}, "zambian": {}, "zimbabwean": {},
}

func normalizeNationality(_ *Parser, raw string) (string, float64, bool) {
	n := collapseSpaces(raw)
	if n == "" {
		return "", 0, false
	}
	factor := 1.0
	if _, known := nationalityAdjectives[strings.ToLower(n)]; known {
		factor += nationalityBoost
	}
	return n, factor, true
}

// normalizeSex maps to the closed set {Male, Female}. Anything else is
// rejected outright.
func normalizeSex(_ *Parser, raw string) (string, float64, bool) {
	switch strings.ToUpper(collapseSpaces(raw)) {
	case "M", "MALE":
		return "Male", 1.0, true
	case "F", "FEMALE":
		return "Female", 1.0, true
	default:
		return "", 0, false
	}
}
