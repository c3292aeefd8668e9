package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"izboricli/pkg/contracts/domain"
)

// ExcelExporter writes a variability report as an Excel workbook with a
// summary sheet, a per-settlement sheet and one ranking sheet.
type ExcelExporter struct {
	reportsDir string
	logger     *slog.Logger
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(reportsDir string, logger *slog.Logger) *ExcelExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExporter{
		reportsDir: reportsDir,
		logger:     logger.With(slog.String("component", "excel_exporter")),
	}
}

// Export writes the workbook and returns its path
func (e *ExcelExporter) Export(report *domain.VariabilityReport, fileName string) (string, error) {
	if err := os.MkdirAll(e.reportsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeSummarySheet(f, report); err != nil {
		return "", err
	}
	if err := e.writeSettlementsSheet(f, report); err != nil {
		return "", err
	}
	if err := e.writeRankingsSheet(f, report); err != nil {
		return "", err
	}

	// Drop the default sheet created by NewFile
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex("Summary"); err == nil {
		f.SetActiveSheet(idx)
	}

	fullPath := filepath.Join(e.reportsDir, fileName)
	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("wrote Excel report",
		slog.String("path", fullPath),
		slog.Int("settlements", len(report.Settlements)))

	return fullPath, nil
}

func (e *ExcelExporter) writeSummarySheet(f *excelize.File, report *domain.VariabilityReport) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Analysis ID", report.Meta.AnalysisID},
		{"Elections analyzed", len(report.Meta.Elections)},
		{"Threshold", report.Meta.Threshold},
		{"Settlements with defined CV", len(report.Settlements)},
		{"National turnout CV", report.Meta.NationalCV.TotalCV},
	}
	for _, party := range report.Meta.TopParties {
		rows = append(rows, []interface{}{
			fmt.Sprintf("National CV: %s", party),
			report.Meta.NationalCV.PartyCV[party],
		})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}

	return nil
}

func (e *ExcelExporter) writeSettlementsSheet(f *excelize.File, report *domain.VariabilityReport) error {
	const sheet = "Settlements"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create settlements sheet: %w", err)
	}

	header := []interface{}{"EKATTE", "Total CV", "Elections"}
	for _, party := range report.Meta.TopParties {
		header = append(header, party)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write settlements header: %w", err)
	}

	ids := make([]string, 0, len(report.Settlements))
	for id := range report.Settlements {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for i, id := range ids {
		s := report.Settlements[id]
		row := []interface{}{id, s.TotalCV, s.ElectionsCount}
		for _, party := range report.Meta.TopParties {
			if cv, ok := s.PartyCV[party]; ok {
				row = append(row, cv)
			} else {
				row = append(row, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write settlement %s: %w", id, err)
		}
	}

	return nil
}

func (e *ExcelExporter) writeRankingsSheet(f *excelize.File, report *domain.VariabilityReport) error {
	const sheet = "Rankings"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create rankings sheet: %w", err)
	}

	// One column block per ranking: overall turnout first, then each party
	// in the analysis order.
	col := 1
	if err := e.writeRankingColumn(f, sheet, col, "By turnout CV", report.Rankings.ByTotal); err != nil {
		return err
	}
	col += 2
	for _, party := range report.Meta.TopParties {
		ids, ok := report.Rankings.ByParty[party]
		if !ok {
			continue
		}
		if err := e.writeRankingColumn(f, sheet, col, party, ids); err != nil {
			return err
		}
		col += 2
	}

	return nil
}

func (e *ExcelExporter) writeRankingColumn(f *excelize.File, sheet string, col int, title string, ids []string) error {
	cell, err := excelize.CoordinatesToCellName(col, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, title); err != nil {
		return fmt.Errorf("failed to write ranking title %q: %w", title, err)
	}

	for i, id := range ids {
		cell, err := excelize.CoordinatesToCellName(col, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, id); err != nil {
			return fmt.Errorf("failed to write ranking entry %s: %w", id, err)
		}
	}

	return nil
}
