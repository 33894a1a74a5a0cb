// Package scanner discovers applicant folders under a batch root and selects
// the single best candidate application form per folder.
package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ecowas-hr/application-processor/constants"
	"github.com/ecowas-hr/application-processor/internal/entity"
)

// formKeywords rank candidate file names. Matching a full term scores 3;
// matching with spaces collapsed (e.g. "applicationform") scores 1.
var formKeywords = []string{
	"application form",
	"applicant form",
	"application",
	"form",
}

// ScanStats summarizes one folder scan.
type ScanStats struct {
	Folders      int
	WithForms    int
	WithoutForms int
	ByKind       map[constants.FileKind]int
}

type Scanner struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// Scan lists the applicant subfolders of root in name order, each paired with
// its selected candidate file (or none). A missing or non-directory root is a
// setup error and aborts the batch.
func (s *Scanner) Scan(root string) ([]entity.ApplicantFolder, ScanStats, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, ScanStats{}, fmt.Errorf("stat root folder: %w", err)
	}
	if !info.IsDir() {
		return nil, ScanStats{}, fmt.Errorf("root path is not a directory: %s", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, ScanStats{}, fmt.Errorf("read root folder: %w", err)
	}

	stats := ScanStats{ByKind: map[constants.FileKind]int{}}
	var folders []entity.ApplicantFolder
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := entity.ApplicantFolder{
			Path: filepath.Join(root, entry.Name()),
			Name: entry.Name(),
		}
		folder.Form, folder.FilesSeen = s.selectForm(folder.Path)

		stats.Folders++
		if folder.Form != nil {
			stats.WithForms++
			stats.ByKind[folder.Form.Kind]++
		} else {
			stats.WithoutForms++
		}
		folders = append(folders, folder)
	}

	s.logger.Info("scan complete",
		"root", root,
		"folders", stats.Folders,
		"with_forms", stats.WithForms,
		"without_forms", stats.WithoutForms,
	)
	return folders, stats, nil
}

type candidate struct {
	file  entity.CandidateFile
	score int
}

// selectForm picks the best candidate in the folder. Immediate children are
// considered first; only when none of them is of a supported kind does a
// shallow recursive search run. Returns the pick (nil when the folder has no
// supported file) and the number of regular files seen at the top level.
func (s *Scanner) selectForm(folderPath string) (*entity.CandidateFile, int) {
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		s.logger.Warn("cannot read applicant folder", "path", folderPath, "error", err)
		return nil, 0
	}

	filesSeen := 0
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filesSeen++
		if c, ok := s.newCandidate(filepath.Join(folderPath, entry.Name())); ok {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		candidates = s.searchNested(folderPath)
	}
	if len(candidates) == 0 {
		return nil, filesSeen
	}

	// Order: keyword score desc, then size desc, then mtime desc. Explicit
	// keywords win; among ties the largest file is likely the full form scan;
	// among those, the newest.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].file.Size != candidates[j].file.Size {
			return candidates[i].file.Size > candidates[j].file.Size
		}
		return candidates[i].file.ModTime.After(candidates[j].file.ModTime)
	})
	best := candidates[0].file
	return &best, filesSeen
}

// nestedSearchDepth caps the fallback walk: applicants tend to put the form
// at most one zip-extraction level down, deeper trees are almost never theirs.
const nestedSearchDepth = 2

// searchNested is the fallback when the immediate folder has no supported
// file: a shallow walk over subfolders looking for candidates.
func (s *Scanner) searchNested(folderPath string) []candidate {
	var candidates []candidate
	_ = filepath.WalkDir(folderPath, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		rel, err := filepath.Rel(folderPath, path)
		if err != nil {
			return nil
		}
		depth := strings.Count(rel, string(filepath.Separator))
		if d.IsDir() {
			if depth >= nestedSearchDepth {
				return fs.SkipDir
			}
			return nil
		}
		if c, ok := s.newCandidate(path); ok {
			candidates = append(candidates, c)
		}
		return nil
	})
	return candidates
}

func (s *Scanner) newCandidate(path string) (candidate, bool) {
	kind := constants.MapExtToKind(filepath.Ext(path))
	if kind == constants.Unsupported {
		return candidate{}, false
	}
	info, err := os.Stat(path)
	if err != nil {
		s.logger.Warn("cannot stat candidate", "path", path, "error", err)
		return candidate{}, false
	}
	return candidate{
		file: entity.CandidateFile{
			Path:    path,
			Kind:    kind,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		},
		score: keywordScore(path),
	}, true
}

func keywordScore(path string) int {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.ToLower(stem)
	collapsed := strings.ReplaceAll(stem, " ", "")

	score := 0
	for _, kw := range formKeywords {
		switch {
		case strings.Contains(stem, kw):
			score += 3
		case strings.Contains(collapsed, strings.ReplaceAll(kw, " ", "")):
			score += 1
		}
	}
	return score
}
