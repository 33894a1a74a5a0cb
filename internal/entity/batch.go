package entity

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ProcessingError pairs an applicant with the detail of a hard failure.
type ProcessingError struct {
	Applicant string `json:"applicant"`
	Detail    string `json:"detail"`
}

// BatchStats summarizes one orchestration run.
type BatchStats struct {
	Total       int           `json:"total"`
	Processed   int           `json:"processed"`
	Succeeded   int           `json:"succeeded"`
	NoForm      int           `json:"no_form"`
	Unsupported int           `json:"unsupported"`
	Failed      int           `json:"failed"`
	Errored     int           `json:"errored"`
	CacheHits   int           `json:"cache_hits"`
	Elapsed     time.Duration `json:"elapsed"`
}

// BatchRun is the ephemeral aggregate handed to the exporter and UI.
// Records are in original folder-scan order with stable serial numbers.
type BatchRun struct {
	ID      uuid.UUID
	Root    string
	Records []*ExtractionRecord
	Errors  []ProcessingError
	Stats   BatchStats
}

// Progress is pushed to the external progress sink after each completed folder.
type Progress struct {
	Completed int
	Total     int
	Applicant string
	Elapsed   time.Duration
	ETA       time.Duration
}

// ProgressFunc receives progress updates. Called from a single goroutine.
type ProgressFunc func(Progress)

// WriteErrorLog writes the run's error list as a flat text report,
// independent of the spreadsheet export.
func (b *BatchRun) WriteErrorLog(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Application Processor - Error Log\n%s\n", headerRule); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Run: %s\nGenerated: %s\n\nTotal Errors: %d\n\n",
		b.ID, time.Now().Format("2006-01-02 15:04:05"), len(b.Errors)); err != nil {
		return err
	}
	for i, e := range b.Errors {
		if _, err := fmt.Fprintf(w, "%d. %s\n   - %s\n\n", i+1, e.Applicant, e.Detail); err != nil {
			return err
		}
	}
	return nil
}

const headerRule = "============================================================"
