package ocr

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ecowas-hr/application-processor/constants"
	"github.com/ecowas-hr/application-processor/internal/extract"
)

// Tesseract sometimes emits stray box-drawing noise on form borders.
var reBoxNoise = regexp.MustCompile(`(?m)^[\s|_\-=~]{4,}$`)

func (e *Extractor) extractImage(ctx context.Context, path string) (extract.TextExtractionResult, error) {
	txt, warn, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return extract.TextExtractionResult{Kind: constants.Image, Warnings: warn}, err
	}
	return extract.TextExtractionResult{
		Text:     txt,
		Pages:    1,
		Kind:     constants.Image,
		Method:   "image-ocr",
		Language: e.cfg.TesseractLang,
		Warnings: warn,
	}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}

	// minor cleanup of obvious line noise
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return txt, nil, nil
}
