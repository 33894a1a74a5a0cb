package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ecowas-hr/application-processor/internal/cache"
	"github.com/ecowas-hr/application-processor/internal/entity"
	"github.com/ecowas-hr/application-processor/internal/export"
	"github.com/ecowas-hr/application-processor/internal/ocr"
	"github.com/ecowas-hr/application-processor/internal/processor"
)

var (
	outputPath   string
	errorLogPath string
	noCache      bool
	showProgress bool
)

var processCmd = &cobra.Command{
	Use:   "process <root-dir>",
	Short: "Process every applicant folder under a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&outputPath, "output", "o", "applications.xlsx", "output spreadsheet path")
	processCmd.Flags().StringVar(&errorLogPath, "error-log", "", "write a text error report to this path")
	processCmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore and do not update the result cache")
	processCmd.Flags().BoolVar(&showProgress, "progress", true, "print per-folder progress to stderr")
}

func runProcess(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DocConverter:  cfg.OCR.DocConverter,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)

	var store *cache.Store
	if cfg.Cache.Enabled && !noCache {
		store = cache.Open(cache.FilePath(cfg.Cache.Dir, root), root, logger)
	}

	var progress entity.ProgressFunc
	if showProgress {
		progress = func(p entity.Progress) {
			fmt.Fprintf(os.Stderr, "\r[%d/%d] %-40s eta %s ",
				p.Completed, p.Total, truncateName(p.Applicant, 40), p.ETA.Round(1e9))
			if p.Completed == p.Total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	proc := processor.New(logger, extractor, cfg.Processing.Workers, cfg.Processing.FileTimeout)
	run, err := proc.Run(cmd.Context(), root, store, progress)
	if err != nil {
		return err
	}

	svc := export.NewService(cfg.Export.SheetName, logger)
	summary, err := svc.AppendRecords(run.Records, outputPath)
	if err != nil {
		return err
	}

	if errorLogPath != "" && len(run.Errors) > 0 {
		if err := writeErrorLog(run, errorLogPath); err != nil {
			logger.Warn("error log not written", "path", errorLogPath, "error", err)
		}
	}

	st := run.Stats
	fmt.Fprintf(cmd.OutOrStdout(),
		"Processed %d folders in %s: %d success, %d no form, %d unsupported, %d failed, %d errors (%d cache hits)\n",
		st.Total, st.Elapsed.Round(1e7), st.Succeeded, st.NoForm, st.Unsupported, st.Failed, st.Errored, st.CacheHits)
	fmt.Fprintf(cmd.OutOrStdout(), "Spreadsheet: %s (%d updated, %d appended)\n",
		summary.FilePath, summary.RowsUpdated, summary.RowsAppended)
	return nil
}

func writeErrorLog(run *entity.BatchRun, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return run.WriteErrorLog(f)
}

func truncateName(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
