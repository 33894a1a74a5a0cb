// Package entity holds the domain types shared across the pipeline:
// applicant folders, candidate files, extraction records, and batch runs.
package entity

import (
	"time"

	"github.com/ecowas-hr/application-processor/constants"
	"github.com/ecowas-hr/application-processor/internal/common"
)

// CandidateFile is a supported document found inside an applicant folder.
type CandidateFile struct {
	Path    string             `json:"path"`
	Kind    constants.FileKind `json:"kind"`
	Size    int64              `json:"size"`
	ModTime time.Time          `json:"mod_time"`
}

// ApplicantFolder is one subdirectory of the batch root, paired with the
// single candidate file the scanner selected for it (nil when none matched).
type ApplicantFolder struct {
	Path string
	Name string
	Form *CandidateFile

	// FilesSeen counts regular files in the folder. When Form is nil and
	// FilesSeen > 0, the folder held only unsupported kinds.
	FilesSeen int
}

// FieldValue is one extracted field with its confidence score.
// Absence of a field is modeled by absence from the record's Fields map,
// never by an empty FieldValue.
type FieldValue struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ExtractionRecord is the unit of output: one applicant, one outcome.
type ExtractionRecord struct {
	Applicant   string                         `json:"applicant"`
	FolderPath  string                         `json:"folder_path"`
	SourcePath  string                         `json:"source_path,omitempty"`
	SourceName  string                         `json:"source_name,omitempty"`
	Kind        constants.FileKind             `json:"kind,omitempty"`
	Method      string                         `json:"method,omitempty"`
	Pages       int                            `json:"pages,omitempty"`
	TextLen     int                            `json:"text_len,omitempty"`
	Fields      map[constants.Field]FieldValue `json:"fields"`
	Overall     float64                        `json:"overall_confidence"`
	Status      constants.RecordStatus         `json:"status"`
	ErrorDetail string                         `json:"error_detail,omitempty"`
	Serial      int                            `json:"serial,omitempty"`

	// Derived extras; informational only, never part of the confidence mean.
	Age             int `json:"age,omitempty"`
	ExpStartYear    int `json:"exp_start_year,omitempty"`
	ExperienceYears int `json:"experience_years,omitempty"`

	Duration time.Duration `json:"duration_ns,omitempty"`
	CachedAt time.Time     `json:"cached_at,omitzero"`
}

// FieldValueOrEmpty returns the field's normalized value, or "" when absent.
func (r *ExtractionRecord) FieldValueOrEmpty(f constants.Field) string {
	if fv, ok := r.Fields[f]; ok {
		return fv.Value
	}
	return ""
}

// CacheHit reports whether this record was served from the result cache.
func (r *ExtractionRecord) CacheHit() bool {
	return !r.CachedAt.IsZero()
}

// NewNoFormRecord builds the record for a folder with no candidate file.
// Name falls back to the folder name.
func NewNoFormRecord(folder ApplicantFolder) *ExtractionRecord {
	return &ExtractionRecord{
		Applicant:  folder.Name,
		FolderPath: folder.Path,
		Fields: map[constants.Field]FieldValue{
			constants.FieldName: {Value: folder.Name},
		},
		Status:      constants.StatusNoForm,
		ErrorDetail: common.ErrNoFormFound.Error(),
	}
}

// NewErrorRecord builds the record for a folder whose extraction or parsing
// failed. The batch continues; the detail lands in the run's error list.
func NewErrorRecord(folder ApplicantFolder, status constants.RecordStatus, detail string) *ExtractionRecord {
	rec := &ExtractionRecord{
		Applicant:  folder.Name,
		FolderPath: folder.Path,
		Fields: map[constants.Field]FieldValue{
			constants.FieldName: {Value: folder.Name},
		},
		Status:      status,
		ErrorDetail: detail,
	}
	if folder.Form != nil {
		rec.SourcePath = folder.Form.Path
		rec.Kind = folder.Form.Kind
	}
	return rec
}
