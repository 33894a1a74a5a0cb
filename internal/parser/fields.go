package parser

import (
	"regexp"

	"github.com/ecowas-hr/application-processor/constants"
)

// Confidence constants. These are tunable heuristics, not contracts: a
// canonical label ("Full Name:") is worth more than a loose one (bare "Name"),
// and a value found on the following line is worth a fraction of the same-line
// hit.
const (
	confCanonical      = 0.90
	confLoose          = 0.60
	confSexCanonical   = 0.95
	confQualMultiline  = 0.80
	nextLineFactor     = 0.75
	unparsedDateFactor = 0.55
	dateRangeFactor    = 0.60
	nationalityBoost   = 0.05
)

// labelPattern matches a field label at the start of a line. Group 1 captures
// the rest of the line; when it is empty the value is taken from the next
// non-empty line at a reduced confidence.
type labelPattern struct {
	re   *regexp.Regexp
	base float64
}

// normalizer cleans a raw captured value. It returns the normalized value, a
// confidence factor in (0,1+nationalityBoost], and whether the value is
// acceptable at all. Rejected values leave the field absent.
type normalizer func(p *Parser, raw string) (value string, factor float64, ok bool)

type fieldSpec struct {
	field     constants.Field
	patterns  []labelPattern
	normalize normalizer
}

// fieldTable is the closed set of extracted fields with their ordered label
// patterns. First matching pattern wins; order encodes preference.
var fieldTable = []fieldSpec{
	{
		field: constants.FieldName,
		patterns: []labelPattern{
			{regexp.MustCompile(`(?i)^\s*(?:full|applicant)\s+name\s*:\s*(.*)$`), confCanonical},
			{regexp.MustCompile(`(?i)^\s*name\s*:\s*(.*)$`), confCanonical},
			{regexp.MustCompile(`(?i)^\s*(?:full\s+|applicant\s+)?name\b\s*(.*)$`), confLoose},
		},
		normalize: normalizeName,
	},
	{
		field: constants.FieldDateOfBirth,
		patterns: []labelPattern{
			{regexp.MustCompile(`(?i)^\s*(?:date\s+of\s+birth|birth\s+date)\s*:\s*(.*)$`), confCanonical},
			{regexp.MustCompile(`(?i)^\s*d\.?o\.?b\.?\s*:\s*(.*)$`), confCanonical},
			{regexp.MustCompile(`(?i)^\s*(?:date\s+of\s+birth|birth\s+date|dob)\b\s*(.*)$`), confLoose},
		},
		normalize: normalizeDate,
	},
	{
		field: constants.FieldQualification,
		patterns: []labelPattern{
			{regexp.MustCompile(`(?i)^\s*(?:highest\s+)?qualifications?\s*:\s*(.*)$`), confCanonical},
			{regexp.MustCompile(`(?i)^\s*(?:highest\s+|educational\s+)?qualifications?\b\s*(.*)$`), confLoose},
		},
		normalize: normalizeQualification,
	},
	{
		field: constants.FieldNationality,
		patterns: []labelPattern{
			{regexp.MustCompile(`(?i)^\s*nationality\s*:\s*(.*)$`), confCanonical},
			{regexp.MustCompile(`(?i)^\s*country\s+of\s+citizenship\s*:?\s*(.*)$`), confCanonical},
			{regexp.MustCompile(`(?i)^\s*nationality\b\s*(.*)$`), confLoose},
		},
		normalize: normalizeNationality,
	},
	{
		field: constants.FieldSex,
		patterns: []labelPattern{
			{regexp.MustCompile(`(?i)^\s*(?:sex|gender)\s*:\s*(.*)$`), confSexCanonical},
			{regexp.MustCompile(`(?i)^\s*(?:sex|gender)\b\s*(.*)$`), confLoose},
		},
		normalize: normalizeSex,
	},
}
