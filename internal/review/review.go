// Package review applies manual corrections to extraction records. Edited
// values are authoritative and carry full confidence; derived columns that
// depend on the edited field are recomputed.
package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/ecowas-hr/application-processor/constants"
	"github.com/ecowas-hr/application-processor/internal/common"
	"github.com/ecowas-hr/application-processor/internal/entity"
)

const editedConfidence = 1.0

// ApplyEdit returns a copy of rec with the given field set to value. An empty
// value clears the field. The original record is not modified.
func ApplyEdit(rec *entity.ExtractionRecord, field constants.Field, value string) (*entity.ExtractionRecord, error) {
	if rec == nil {
		return nil, common.NewAppError("INVALID_INPUT", "nil record", common.ErrInvalidInput)
	}
	known := false
	for _, f := range constants.AllFields {
		if f == field {
			known = true
			break
		}
	}
	if !known {
		return nil, common.NewAppError("INVALID_INPUT",
			fmt.Sprintf("unknown field %q (valid: %s)", field, strings.Join(constants.AsStringSlice(), ", ")),
			common.ErrInvalidInput)
	}

	out := *rec
	out.Fields = make(map[constants.Field]entity.FieldValue, len(rec.Fields))
	for k, v := range rec.Fields {
		out.Fields[k] = v
	}

	value = strings.TrimSpace(value)
	if value == "" {
		delete(out.Fields, field)
	} else {
		out.Fields[field] = entity.FieldValue{Value: value, Confidence: editedConfidence}
	}

	recomputeOverall(&out)
	recomputeAge(&out)
	return &out, nil
}

func recomputeOverall(rec *entity.ExtractionRecord) {
	if len(rec.Fields) == 0 {
		rec.Overall = 0
	} else {
		var sum float64
		for _, v := range rec.Fields {
			sum += v.Confidence
		}
		rec.Overall = sum / float64(len(rec.Fields))
	}

	// Only parse outcomes track field presence. no_form, unsupported and
	// error describe what happened to the source file and survive edits.
	switch rec.Status {
	case constants.StatusSuccess, constants.StatusFailed:
		if len(rec.Fields) > 0 {
			rec.Status = constants.StatusSuccess
		} else {
			rec.Status = constants.StatusFailed
		}
	}
}

func recomputeAge(rec *entity.ExtractionRecord) {
	dob, ok := rec.Fields[constants.FieldDateOfBirth]
	if !ok {
		rec.Age = 0
		return
	}
	t, err := time.Parse("2006-01-02", dob.Value)
	if err != nil {
		rec.Age = 0
		return
	}
	age := time.Now().Year() - t.Year()
	if age > 0 && age < 120 {
		rec.Age = age
	} else {
		rec.Age = 0
	}
}
