package extract

import (
	"context"
	"time"

	"github.com/ecowas-hr/application-processor/constants"
)

// TextExtractor is stage 1: file -> raw text.
type TextExtractor interface {
	Extract(ctx context.Context, path string, kind constants.FileKind) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Pages    int
	Kind     constants.FileKind
	Method   string // "pdf-text" | "pdf-ocr" | "image-ocr" | "docx" | "doc"
	Language string
	Duration time.Duration
	Warnings []string
}
