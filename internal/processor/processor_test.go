package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecowas-hr/application-processor/constants"
	"github.com/ecowas-hr/application-processor/internal/cache"
	"github.com/ecowas-hr/application-processor/internal/common"
	"github.com/ecowas-hr/application-processor/internal/entity"
	"github.com/ecowas-hr/application-processor/internal/extract"
)

// stubExtractor serves file contents as extracted text so the pipeline can be
// exercised without poppler or tesseract installed.
type stubExtractor struct {
	failOn map[string]error
}

func (s stubExtractor) Extract(_ context.Context, path string, kind constants.FileKind) (extract.TextExtractionResult, error) {
	if err, ok := s.failOn[filepath.Base(path)]; ok {
		return extract.TextExtractionResult{Kind: kind}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return extract.TextExtractionResult{Kind: kind}, err
	}
	return extract.TextExtractionResult{Text: string(data), Pages: 1, Kind: kind, Method: "stub"}, nil
}

const formText = "Full Name: %s\nDate of Birth: 15/03/1990\nSex: Male\nNationality: Nigerian\nHighest Qualification: BSc in Computer Science\n"

func addApplicant(t *testing.T, root, name string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.Mkdir(dir, 0o755))
	content := fmt.Sprintf(formText, name)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "application form.pdf"), []byte(content), 0o644))
}

func TestRun_CompleteBatchInScanOrder(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"Charlie Obi", "Ada Eze", "Bola Akin"} {
		addApplicant(t, root, name)
	}

	proc := New(nil, stubExtractor{}, 4, 0)
	run, err := proc.Run(context.Background(), root, nil, nil)
	require.NoError(t, err)

	require.Len(t, run.Records, 3)
	assert.Equal(t, "Ada Eze", run.Records[0].Applicant)
	assert.Equal(t, "Bola Akin", run.Records[1].Applicant)
	assert.Equal(t, "Charlie Obi", run.Records[2].Applicant)
	for i, rec := range run.Records {
		assert.Equal(t, i+1, rec.Serial)
		assert.Equal(t, constants.StatusSuccess, rec.Status)
	}
	assert.Equal(t, 3, run.Stats.Succeeded)
	assert.Zero(t, run.Stats.CacheHits)
}

func TestRun_NoFormAndUnsupportedFolders(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty folder"), 0o755))
	txtOnly := filepath.Join(root, "txt only")
	require.NoError(t, os.Mkdir(txtOnly, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(txtOnly, "cv.txt"), []byte("plain text"), 0o644))

	run, err := New(nil, stubExtractor{}, 2, 0).Run(context.Background(), root, nil, nil)
	require.NoError(t, err)
	require.Len(t, run.Records, 2)

	noForm := run.Records[0]
	assert.Equal(t, constants.StatusNoForm, noForm.Status)
	assert.Equal(t, "empty folder", noForm.FieldValueOrEmpty(constants.FieldName))

	unsupported := run.Records[1]
	assert.Equal(t, constants.StatusUnsupported, unsupported.Status)
	assert.Contains(t, unsupported.ErrorDetail, common.ErrUnsupportedFormat.Error())
	assert.Equal(t, 1, run.Stats.NoForm)
	assert.Equal(t, 1, run.Stats.Unsupported)
}

func TestRun_ExtractionErrorDoesNotAbortBatch(t *testing.T) {
	root := t.TempDir()
	addApplicant(t, root, "Ada Eze")
	broken := filepath.Join(root, "Broken PDF")
	require.NoError(t, os.Mkdir(broken, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(broken, "application.pdf"), []byte("x"), 0o644))

	stub := stubExtractor{failOn: map[string]error{"application.pdf": errors.New("pdf is encrypted")}}
	run, err := New(nil, stub, 2, 0).Run(context.Background(), root, nil, nil)
	require.NoError(t, err)
	require.Len(t, run.Records, 2)

	assert.Equal(t, constants.StatusSuccess, run.Records[0].Status)
	assert.Equal(t, constants.StatusError, run.Records[1].Status)
	assert.Contains(t, run.Records[1].ErrorDetail, "encrypted")
	require.Len(t, run.Errors, 1)
	assert.Equal(t, "Broken PDF", run.Errors[0].Applicant)
}

func TestRun_TooLittleTextYieldsFailed(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Blank Scan")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "application form.pdf"), []byte("  x  "), 0o644))

	run, err := New(nil, stubExtractor{}, 1, 0).Run(context.Background(), root, nil, nil)
	require.NoError(t, err)
	require.Len(t, run.Records, 1)
	assert.Equal(t, constants.StatusFailed, run.Records[0].Status)
	assert.Equal(t, "no text extracted from document", run.Records[0].ErrorDetail)
}

func TestRun_IdempotentWithCache(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 6; i++ {
		addApplicant(t, root, fmt.Sprintf("Applicant %02d", i))
	}
	cachePath := cache.FilePath(t.TempDir(), root)
	proc := New(nil, stubExtractor{}, 4, 0)

	first, err := proc.Run(context.Background(), root, cache.Open(cachePath, root, nil), nil)
	require.NoError(t, err)
	require.Equal(t, 6, first.Stats.Succeeded)
	assert.Zero(t, first.Stats.CacheHits)

	second, err := proc.Run(context.Background(), root, cache.Open(cachePath, root, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, 6, second.Stats.CacheHits)

	require.Len(t, second.Records, len(first.Records))
	for i := range first.Records {
		a, b := first.Records[i], second.Records[i]
		assert.Equal(t, a.Applicant, b.Applicant)
		assert.Equal(t, a.Status, b.Status)
		assert.Equal(t, a.Serial, b.Serial)
		assert.Equal(t, a.Fields, b.Fields)
		assert.InDelta(t, a.Overall, b.Overall, 1e-9)
	}
}

func TestRun_WorkerCountDoesNotChangeOutput(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		addApplicant(t, root, fmt.Sprintf("Applicant %02d", i))
	}

	serial, err := New(nil, stubExtractor{}, 1, 0).Run(context.Background(), root, nil, nil)
	require.NoError(t, err)
	parallel, err := New(nil, stubExtractor{}, 4, 0).Run(context.Background(), root, nil, nil)
	require.NoError(t, err)

	require.Len(t, parallel.Records, len(serial.Records))
	for i := range serial.Records {
		assert.Equal(t, serial.Records[i].Applicant, parallel.Records[i].Applicant)
		assert.Equal(t, serial.Records[i].Serial, parallel.Records[i].Serial)
		assert.Equal(t, serial.Records[i].Status, parallel.Records[i].Status)
		assert.Equal(t, serial.Records[i].Fields, parallel.Records[i].Fields)
	}
}

func TestRun_ProgressReachesTotal(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 5; i++ {
		addApplicant(t, root, fmt.Sprintf("Applicant %d", i))
	}

	var updates []entity.Progress
	_, err := New(nil, stubExtractor{}, 3, 0).Run(context.Background(), root, nil, func(p entity.Progress) {
		updates = append(updates, p)
	})
	require.NoError(t, err)

	require.Len(t, updates, 5)
	for i, u := range updates {
		assert.Equal(t, i+1, u.Completed)
		assert.Equal(t, 5, u.Total)
	}
}

func TestRun_MissingRootIsFatal(t *testing.T) {
	_, err := New(nil, stubExtractor{}, 1, 0).Run(context.Background(), filepath.Join(t.TempDir(), "nope"), nil, nil)
	assert.Error(t, err)
}

func TestRun_EmptyRootReturnsEmptyRun(t *testing.T) {
	run, err := New(nil, stubExtractor{}, 1, 0).Run(context.Background(), t.TempDir(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, run.Records)
	assert.Zero(t, run.Stats.Total)
}
