// Package export writes batch results to an XLSX workbook. Existing rows are
// updated in place (keyed by applicant name) and new rows are appended, so
// repeated runs against the same spreadsheet never clobber manual columns.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ecowas-hr/application-processor/constants"
	"github.com/ecowas-hr/application-processor/internal/common"
	"github.com/ecowas-hr/application-processor/internal/entity"
)

var headerRow = []string{
	"S/N", "NAME", "DATE OF BIRTH", "QUALIFICATION", "NATIONALITY", "SEX",
	"AGE", "EXP START (YEAR)", "EXPERIENCE (YEARS)", "CONFIDENCE", "STATUS",
}

// Fill colors by outcome. Error rows must be visually distinguishable from
// success; low-confidence successes get the warning tint.
const (
	colorHeader  = "4472C4"
	colorSuccess = "C6EFCE"
	colorWarning = "FFEB9C"
	colorError   = "FFC7CE"

	lowConfidence = 0.6
)

type Summary struct {
	RowsUpdated  int
	RowsAppended int
	FilePath     string
}

type Service struct {
	sheetName string
	logger    *slog.Logger
}

func NewService(sheetName string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if sheetName == "" {
		sheetName = "Applications"
	}
	return &Service{sheetName: sheetName, logger: logger}
}

// AppendRecords writes one row per record, in input order, updating rows
// whose NAME already exists in the sheet. The computed batch is never
// invalidated by a failed save; callers may retry with another path.
func (s *Service) AppendRecords(records []*entity.ExtractionRecord, path string) (Summary, error) {
	start := time.Now()

	f, sheet, err := s.openOrCreate(path)
	if err != nil {
		return Summary{}, err
	}
	defer func() { _ = f.Close() }()

	// Map existing names to their rows, and find the true last data row.
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Summary{}, common.WrapError(err, "read sheet")
	}
	nameRows := map[string]int{}
	lastRow := 1
	for i, row := range rows {
		if i == 0 || len(row) < 2 || strings.TrimSpace(row[1]) == "" {
			continue
		}
		nameRows[strings.ToUpper(strings.TrimSpace(row[1]))] = i + 1
		if i+1 > lastRow {
			lastRow = i + 1
		}
	}

	summary := Summary{FilePath: path}
	for _, rec := range records {
		name := displayName(rec)
		if name == "" {
			continue
		}
		key := strings.ToUpper(name)
		rowNum, exists := nameRows[key]
		if exists {
			summary.RowsUpdated++
		} else {
			lastRow++
			rowNum = lastRow
			nameRows[key] = rowNum
			summary.RowsAppended++
		}
		if err := s.writeRow(f, sheet, rowNum, name, rec); err != nil {
			return summary, err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return summary, common.NewAppError("EXPORT_ERROR", fmt.Sprintf("save workbook %s", path), common.ErrExport)
	}
	s.logger.Info("export complete",
		"path", path,
		"updated", summary.RowsUpdated,
		"appended", summary.RowsAppended,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return summary, nil
}

// WriteTemplate creates an empty styled workbook with just the header row.
func (s *Service) WriteTemplate(path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := s.initSheet(f); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return common.NewAppError("EXPORT_ERROR", fmt.Sprintf("save template %s", path), common.ErrExport)
	}
	return nil
}

func (s *Service) openOrCreate(path string) (*excelize.File, string, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, "", common.NewAppError("EXPORT_ERROR", fmt.Sprintf("open workbook %s", path), common.ErrExport)
		}
		sheet := s.sheetName
		if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
			sheet = f.GetSheetName(f.GetActiveSheetIndex())
		}
		return f, sheet, nil
	}
	f := excelize.NewFile()
	if err := s.initSheet(f); err != nil {
		return nil, "", err
	}
	return f, s.sheetName, nil
}

func (s *Service) initSheet(f *excelize.File) error {
	if _, err := f.NewSheet(s.sheetName); err != nil {
		return common.WrapError(err, "create sheet")
	}
	idx, _ := f.GetSheetIndex(s.sheetName)
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorHeader}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return common.WrapError(err, "header style")
	}
	for i, h := range headerRow {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(s.sheetName, cell, h)
		_ = f.SetCellStyle(s.sheetName, cell, cell, headerStyle)
	}

	widths := []struct {
		col   string
		width float64
	}{
		{"A", 8}, {"B", 28}, {"C", 15}, {"D", 50}, {"E", 15},
		{"F", 10}, {"G", 8}, {"H", 18}, {"I", 18}, {"J", 12}, {"K", 14},
	}
	for _, w := range widths {
		_ = f.SetColWidth(s.sheetName, w.col, w.col, w.width)
	}
	return nil
}

func (s *Service) writeRow(f *excelize.File, sheet string, rowNum int, name string, rec *entity.ExtractionRecord) error {
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, rowNum)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(1, rowNum-1)
	write(2, name)
	write(3, rec.FieldValueOrEmpty(constants.FieldDateOfBirth))
	write(4, rec.FieldValueOrEmpty(constants.FieldQualification))
	write(5, rec.FieldValueOrEmpty(constants.FieldNationality))
	write(6, rec.FieldValueOrEmpty(constants.FieldSex))
	if rec.Age > 0 {
		write(7, rec.Age)
	} else {
		write(7, "")
	}
	if rec.ExpStartYear > 0 {
		write(8, rec.ExpStartYear)
		write(9, rec.ExperienceYears)
	} else {
		write(8, "")
		write(9, "")
	}
	if rec.Status == constants.StatusSuccess {
		write(10, fmt.Sprintf("%.2f", rec.Overall))
	} else {
		write(10, "")
	}
	write(11, string(rec.Status))

	if color := rowColor(rec); color != "" {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return common.WrapError(err, "row style")
		}
		first, _ := excelize.CoordinatesToCellName(1, rowNum)
		last, _ := excelize.CoordinatesToCellName(len(headerRow), rowNum)
		_ = f.SetCellStyle(sheet, first, last, style)
	}
	return nil
}

func rowColor(rec *entity.ExtractionRecord) string {
	switch rec.Status {
	case constants.StatusSuccess:
		if rec.Overall < lowConfidence {
			return colorWarning
		}
		return colorSuccess
	case constants.StatusError:
		return colorError
	default:
		return colorWarning
	}
}

// displayName prefers the parsed name and falls back to the folder name.
func displayName(rec *entity.ExtractionRecord) string {
	if name := rec.FieldValueOrEmpty(constants.FieldName); name != "" {
		return name
	}
	return rec.Applicant
}
