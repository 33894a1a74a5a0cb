// Package ocr extracts raw text from candidate documents. PDF text comes from
// poppler's pdftotext; scanned PDFs fall back to pdftoppm + tesseract page by
// page; images go straight through tesseract; legacy .doc files are converted
// with antiword or catdoc. All external binaries run through the Runner seam.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ecowas-hr/application-processor/constants"
	"github.com/ecowas-hr/application-processor/internal/docx"
	"github.com/ecowas-hr/application-processor/internal/extract"
)

// MinTextLen is the threshold below which extracted PDF text is treated as an
// image-only scan and OCR fallback kicks in.
const MinTextLen = 10

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // cap on OCR'd pages, default 10; 0 = no limit

	DocConverter string // "antiword" | "catdoc"; default "antiword"

	TessdataDir string
	PSM         int // e.g., 6 is good for uniform block of text
	OEM         int // 1 = LSTM; leave 0 to use default
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DocConverter == "" {
		cfg.DocConverter = "antiword"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MaxPages < 0 {
		cfg.MaxPages = 0
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

var _ extract.TextExtractor = (*Extractor)(nil)

// Extract picks a strategy based on the detected file kind.
func (e *Extractor) Extract(ctx context.Context, path string, kind constants.FileKind) (extract.TextExtractionResult, error) {
	start := time.Now()
	e.logger.Debug("starting extraction", "path", path, "kind", kind)

	var res extract.TextExtractionResult
	var err error
	switch kind {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	case constants.Image:
		res, err = e.extractImage(ctx, path)
	case constants.DOCX:
		res, err = e.extractDOCX(path)
	case constants.DOC:
		res, err = e.extractDOC(ctx, path)
	default:
		return extract.TextExtractionResult{Kind: constants.Unsupported},
			fmt.Errorf("unsupported file kind: %q", kind)
	}
	res.Duration = time.Since(start)
	return res, err
}

func (e *Extractor) extractDOCX(path string) (extract.TextExtractionResult, error) {
	text, err := docx.ExtractFile(path)
	if err != nil {
		return extract.TextExtractionResult{Kind: constants.DOCX}, fmt.Errorf("docx: %w", err)
	}
	return extract.TextExtractionResult{
		Text:   text,
		Pages:  1,
		Kind:   constants.DOCX,
		Method: "docx",
	}, nil
}
