package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ecowas-hr/application-processor/constants"
)

// Derived extras supplement the five core fields: applicant age from the
// parsed date of birth, and years of experience from a labeled start year.
// They never feed the confidence mean.

var expStartPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:experience\s+start|work\s+start|started\s+work)\s*:?\s*((?:19|20)\d{2})`),
	regexp.MustCompile(`(?i)(?:earliest|first)\s+employment\s*:?\s*((?:19|20)\d{2})`),
	regexp.MustCompile(`(?i)(?:experience|employment)\s+history\s+since\s*:?\s*((?:19|20)\d{2})`),
}

func (p *Parser) deriveExtras(text string, res *Result) {
	year := p.now().Year()

	if dob, ok := res.Fields[constants.FieldDateOfBirth]; ok {
		if t, parsed := ParseDate(dob.Value); parsed {
			if age := year - t.Year(); age > 0 {
				res.Age = age
			}
		}
	}

	for _, re := range expStartPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		start, err := strconv.Atoi(m[1])
		if err != nil || start > year {
			continue
		}
		res.ExpStartYear = start
		res.ExperienceYears = year - start
		break
	}
}

// degreeKeywords flag lines that describe a qualification.
var degreeKeywords = []string{
	"PhD", "Doctorate", "Masters", "Master", "MBA", "MSc", "MA",
	"Bachelor", "B.sc", "BSc", "B.A", "BA", "Degree",
	"Diploma", "HND", "OND", "SSCE", "WAEC",
	"School Certificate", "Certificate",
}

var degreeKeywordRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(degreeKeywords))
	for i, kw := range degreeKeywords {
		res[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return res
}()

var reQualSeparators = regexp.MustCompile(`[()\-:,]`)

// extractMultilineQualifications scans for lines pairing a degree keyword
// with a year ("MSc Economics - 2019"), deduplicates them, and returns them
// newest first.
func extractMultilineQualifications(text string) string {
	type qual struct {
		text string
		year int
	}
	var quals []qual
	seen := map[string]struct{}{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		yearMatch := reYear.FindString(line)
		if yearMatch == "" {
			continue
		}
		for _, re := range degreeKeywordRes {
			if !re.MatchString(line) {
				continue
			}
			clean := strings.ReplaceAll(line, yearMatch, "")
			clean = collapseSpaces(reQualSeparators.ReplaceAllString(clean, " "))
			year, _ := strconv.Atoi(yearMatch)
			entry := clean + " - " + yearMatch
			if _, dup := seen[entry]; !dup {
				seen[entry] = struct{}{}
				quals = append(quals, qual{text: entry, year: year})
			}
			break
		}
	}

	sort.SliceStable(quals, func(i, j int) bool { return quals[i].year > quals[j].year })
	parts := make([]string, len(quals))
	for i, q := range quals {
		parts[i] = q.text
	}
	return strings.Join(parts, "; ")
}
