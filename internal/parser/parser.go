// Package parser turns raw document text into typed applicant fields with
// per-field confidence scores. Each field has an ordered list of label
// patterns (first match wins); values are read from the label's own line or,
// failing that, from the next non-empty line at reduced confidence.
package parser

import (
	"log/slog"
	"strings"
	"time"

	"github.com/ecowas-hr/application-processor/constants"
	"github.com/ecowas-hr/application-processor/internal/entity"
)

// Result is the parse outcome for one document's text.
type Result struct {
	Fields  map[constants.Field]entity.FieldValue
	Overall float64
	Status  constants.RecordStatus // success, or failed when no field was found

	// Derived extras, zero when unavailable.
	Age             int
	ExpStartYear    int
	ExperienceYears int
}

type Parser struct {
	logger *slog.Logger
	now    func() time.Time
}

func New(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger, now: time.Now}
}

// Parse extracts the five applicant fields from raw text. Overall confidence
// is the mean over fields that were found; fields never found do not count as
// zero. When nothing at all is found the result's status is failed.
func (p *Parser) Parse(text string) Result {
	lines := strings.Split(text, "\n")

	res := Result{Fields: make(map[constants.Field]entity.FieldValue, len(fieldTable))}
	for _, spec := range fieldTable {
		if fv, ok := p.extractField(lines, spec); ok {
			res.Fields[spec.field] = fv
		}
	}

	// Fallback for qualification blocks listed as degree-plus-year lines with
	// no label in front of them.
	if _, ok := res.Fields[constants.FieldQualification]; !ok {
		if quals := extractMultilineQualifications(text); quals != "" {
			res.Fields[constants.FieldQualification] = entity.FieldValue{
				Value:      quals,
				Confidence: confQualMultiline,
			}
		}
	}

	p.deriveExtras(text, &res)

	if len(res.Fields) == 0 {
		res.Status = constants.StatusFailed
		return res
	}
	sum := 0.0
	for _, fv := range res.Fields {
		sum += fv.Confidence
	}
	res.Overall = sum / float64(len(res.Fields))
	res.Status = constants.StatusSuccess
	return res
}

// extractField tries the field's patterns in order against every line. The
// first pattern that yields an acceptable value wins; a value pulled from the
// following non-empty line is scored at nextLineFactor of the pattern base.
func (p *Parser) extractField(lines []string, spec fieldSpec) (entity.FieldValue, bool) {
	for _, pat := range spec.patterns {
		for i, line := range lines {
			m := pat.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			raw := strings.TrimSpace(m[1])
			base := pat.base
			if raw == "" {
				raw = nextNonEmptyLine(lines, i+1)
				base *= nextLineFactor
			}
			if raw == "" {
				continue
			}
			value, factor, ok := spec.normalize(p, raw)
			if !ok {
				continue
			}
			conf := base * factor
			if conf > 1.0 {
				conf = 1.0
			}
			return entity.FieldValue{Value: value, Confidence: conf}, true
		}
	}
	return entity.FieldValue{}, false
}

func nextNonEmptyLine(lines []string, from int) string {
	for _, line := range lines[min(from, len(lines)):] {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}
