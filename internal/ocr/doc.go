package ocr

import (
	"context"
	"fmt"

	"github.com/ecowas-hr/application-processor/constants"
	"github.com/ecowas-hr/application-processor/internal/extract"
)

// extractDOC converts a legacy Word binary document to plain text. The
// configured converter runs first; if it fails (most often the binary is not
// installed) the other one gets a try before the folder is marked errored.
// antiword and catdoc both write the text to stdout.
func (e *Extractor) extractDOC(ctx context.Context, path string) (extract.TextExtractionResult, error) {
	primary := e.cfg.DocConverter
	alt := altDocConverter(primary)
	if alt == "" {
		return extract.TextExtractionResult{Kind: constants.DOC},
			fmt.Errorf("doc converter not supported: set ocr.Config.DocConverter to one of: antiword | catdoc")
	}

	var warns []string
	var firstErr error
	for _, conv := range []string{primary, alt} {
		out, errb, err := e.runner.Run(ctx, conv, docConverterArgs(conv, path)...)
		if err == nil {
			return extract.TextExtractionResult{
				Text:     string(out),
				Pages:    1,
				Kind:     constants.DOC,
				Method:   "doc",
				Warnings: warns,
			}, nil
		}
		warns = append(warns, string(errb))
		if firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", conv, err)
			e.logger.Warn("doc converter failed, trying fallback",
				"converter", conv, "fallback", alt, "path", path, "error", err)
		}
	}
	return extract.TextExtractionResult{Kind: constants.DOC, Warnings: warns}, firstErr
}

func altDocConverter(primary string) string {
	switch primary {
	case "antiword":
		return "catdoc"
	case "catdoc":
		return "antiword"
	}
	return ""
}

func docConverterArgs(conv, path string) []string {
	if conv == "antiword" {
		return []string{"-w", "0", path}
	}
	return []string{"-w", path}
}
