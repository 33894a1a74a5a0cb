// Package processor coordinates the batch: scan the root once, fan applicant
// folders out over a bounded worker pool, consult the result cache, extract
// and parse on misses, and resequence completions back into scan order.
// Per-folder failures become status-carrying records; only setup errors
// (bad root) reach the caller.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ecowas-hr/application-processor/constants"
	"github.com/ecowas-hr/application-processor/internal/cache"
	"github.com/ecowas-hr/application-processor/internal/common"
	"github.com/ecowas-hr/application-processor/internal/entity"
	"github.com/ecowas-hr/application-processor/internal/extract"
	"github.com/ecowas-hr/application-processor/internal/ocr"
	"github.com/ecowas-hr/application-processor/internal/parser"
	"github.com/ecowas-hr/application-processor/internal/scanner"
	"github.com/ecowas-hr/application-processor/internal/worker"
)

type Processor struct {
	logger      *slog.Logger
	scanner     *scanner.Scanner
	extractor   extract.TextExtractor
	parser      *parser.Parser
	workers     int
	fileTimeout time.Duration
}

// New builds a processor. workers defaults to 4; fileTimeout of 0 disables
// the per-file wall-clock limit.
func New(logger *slog.Logger, extractor extract.TextExtractor, workers int, fileTimeout time.Duration) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	return &Processor{
		logger:      logger,
		scanner:     scanner.New(logger),
		extractor:   extractor,
		parser:      parser.New(logger),
		workers:     workers,
		fileTimeout: fileTimeout,
	}
}

// Run processes every applicant folder under root and returns the complete
// batch, in scan order, regardless of how many individual folders failed.
// store may be nil to disable caching. progress, when non-nil, is invoked
// from a single aggregator goroutine after each completed folder.
func (p *Processor) Run(ctx context.Context, root string, store *cache.Store, progress entity.ProgressFunc) (*entity.BatchRun, error) {
	start := time.Now()
	p.logger.Info("starting batch", "root", root, "workers", p.workers)

	folders, _, err := p.scanner.Scan(root)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	run := &entity.BatchRun{ID: uuid.New(), Root: root}
	total := len(folders)
	run.Stats.Total = total
	if total == 0 {
		run.Stats.Elapsed = time.Since(start)
		return run, nil
	}

	pool := worker.NewPool(ctx, p.workers)
	pool.Start()
	go func() {
		for i, folder := range folders {
			pool.Submit(&folderJob{index: i, folder: folder, proc: p, store: store})
		}
		pool.Finish()
	}()

	// Single aggregator: collects completions, counts progress, publishes to
	// the sink. Workers never touch shared counters.
	records := make([]*entity.ExtractionRecord, total)
	completed := 0
	for res := range pool.Results() {
		fr := res.(*folderResult)
		records[fr.index] = fr.record
		completed++

		if progress != nil {
			elapsed := time.Since(start)
			var eta time.Duration
			if completed > 0 {
				perItem := elapsed / time.Duration(completed)
				eta = perItem * time.Duration(total-completed)
			}
			progress(entity.Progress{
				Completed: completed,
				Total:     total,
				Applicant: fr.record.Applicant,
				Elapsed:   elapsed,
				ETA:       eta,
			})
		}
	}

	// Completion order differs under concurrency; output order must not.
	// records is already indexed by scan position; fill serials and tallies.
	for i, rec := range records {
		if rec == nil {
			// Cancelled mid-batch: mark the remainder as errors so the run
			// is still complete and well-formed.
			rec = entity.NewErrorRecord(folders[i], constants.StatusError, "batch cancelled before folder was processed")
			records[i] = rec
		}
		rec.Serial = i + 1
		p.tally(run, rec)
	}
	run.Records = records
	sort.SliceStable(run.Errors, func(i, j int) bool {
		return strings.ToLower(run.Errors[i].Applicant) < strings.ToLower(run.Errors[j].Applicant)
	})

	run.Stats.Elapsed = time.Since(start)
	p.logger.Info("batch complete",
		"run_id", run.ID,
		"total", run.Stats.Total,
		"succeeded", run.Stats.Succeeded,
		"no_form", run.Stats.NoForm,
		"failed", run.Stats.Failed,
		"errored", run.Stats.Errored,
		"unsupported", run.Stats.Unsupported,
		"cache_hits", run.Stats.CacheHits,
		"elapsed_ms", run.Stats.Elapsed.Milliseconds(),
	)
	return run, nil
}

func (p *Processor) tally(run *entity.BatchRun, rec *entity.ExtractionRecord) {
	run.Stats.Processed++
	if rec.CacheHit() {
		run.Stats.CacheHits++
	}
	switch rec.Status {
	case constants.StatusSuccess:
		run.Stats.Succeeded++
	case constants.StatusNoForm:
		run.Stats.NoForm++
	case constants.StatusUnsupported:
		run.Stats.Unsupported++
	case constants.StatusFailed:
		run.Stats.Failed++
	case constants.StatusError:
		run.Stats.Errored++
	}
	if rec.Status != constants.StatusSuccess && rec.ErrorDetail != "" {
		run.Errors = append(run.Errors, entity.ProcessingError{
			Applicant: rec.Applicant,
			Detail:    rec.ErrorDetail,
		})
	}
}

// folderJob is the unit of work for one applicant folder.
type folderJob struct {
	index  int
	folder entity.ApplicantFolder
	proc   *Processor
	store  *cache.Store
}

// folderResult always carries a record; failures are encoded in its status.
type folderResult struct {
	index  int
	record *entity.ExtractionRecord
}

func (r *folderResult) GetError() error { return nil }

func (j *folderJob) Execute(ctx context.Context) worker.Result {
	return &folderResult{index: j.index, record: j.proc.processFolder(ctx, j.folder, j.store)}
}

// processFolder runs the per-folder pipeline: cache lookup, extract, parse,
// cache store. Every failure path returns a record, never an error.
func (p *Processor) processFolder(ctx context.Context, folder entity.ApplicantFolder, store *cache.Store) *entity.ExtractionRecord {
	if folder.Form == nil {
		if folder.FilesSeen > 0 {
			detail := common.WrapError(common.ErrUnsupportedFormat,
				"no readable candidate in folder (pdf, docx, doc, image)")
			return entity.NewErrorRecord(folder, constants.StatusUnsupported, detail.Error())
		}
		return entity.NewNoFormRecord(folder)
	}

	form := *folder.Form
	fp, err := cache.FingerprintFile(form.Path)
	if err != nil {
		return entity.NewErrorRecord(folder, constants.StatusError, err.Error())
	}

	if store != nil {
		if rec, hit := store.Lookup(form.Path, fp); hit {
			p.logger.Debug("cache hit", "applicant", folder.Name, "path", form.Path)
			return rec
		}
	}

	rec := p.extractAndParse(ctx, folder, form)

	// Deterministic outcomes are worth caching; transient errors are not.
	if store != nil && (rec.Status == constants.StatusSuccess || rec.Status == constants.StatusFailed) {
		if err := store.Store(form.Path, fp, rec); err != nil {
			p.logger.Warn("cache store failed", "path", form.Path, "error", err)
		}
	}
	return rec
}

func (p *Processor) extractAndParse(ctx context.Context, folder entity.ApplicantFolder, form entity.CandidateFile) *entity.ExtractionRecord {
	if p.fileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.fileTimeout)
		defer cancel()
	}

	res, err := p.extractor.Extract(ctx, form.Path, form.Kind)
	if err != nil {
		detail := err.Error()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			detail = fmt.Sprintf("extraction timed out after %s", p.fileTimeout)
		}
		p.logger.Error("extraction failed", "applicant", folder.Name, "path", form.Path, "error", err)
		return entity.NewErrorRecord(folder, constants.StatusError, detail)
	}

	rec := &entity.ExtractionRecord{
		Applicant:  folder.Name,
		FolderPath: folder.Path,
		SourcePath: form.Path,
		SourceName: filepath.Base(form.Path),
		Kind:       form.Kind,
		Method:     res.Method,
		Pages:      res.Pages,
		TextLen:    len(res.Text),
		Duration:   res.Duration,
	}

	if len(strings.TrimSpace(res.Text)) < ocr.MinTextLen {
		rec.Status = constants.StatusFailed
		rec.ErrorDetail = "no text extracted from document"
		rec.Fields = map[constants.Field]entity.FieldValue{}
		return rec
	}

	parsed := p.parser.Parse(res.Text)
	rec.Fields = parsed.Fields
	rec.Overall = parsed.Overall
	rec.Status = parsed.Status
	rec.Age = parsed.Age
	rec.ExpStartYear = parsed.ExpStartYear
	rec.ExperienceYears = parsed.ExperienceYears
	if parsed.Status == constants.StatusFailed {
		rec.ErrorDetail = common.WrapError(common.ErrParseFailure, "extracted text").Error()
	}
	return rec
}
