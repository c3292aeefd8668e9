package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"izboricli/pkg/contracts/domain"
)

// ReportWriter persists variability reports to the reports directory
type ReportWriter struct {
	reportsDir string
	csvWriter  *CSVWriter
	logger     *slog.Logger
}

// NewReportWriter creates a new report writer
func NewReportWriter(reportsDir string, logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{
		reportsDir: reportsDir,
		csvWriter:  NewCSVWriter(reportsDir),
		logger:     logger.With(slog.String("component", "report_writer")),
	}
}

// WriteJSON writes the full report as indented JSON
func (w *ReportWriter) WriteJSON(report *domain.VariabilityReport, fileName string) error {
	fullPath := filepath.Join(w.reportsDir, fileName)

	if err := os.MkdirAll(w.reportsDir, 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	w.logger.Info("wrote variability report",
		slog.String("path", fullPath),
		slog.Int("settlements", len(report.Settlements)))

	return nil
}

// WriteRankingsCSV writes one CSV per ranking: the overall turnout ranking
// plus a file per analyzed party.
func (w *ReportWriter) WriteRankingsCSV(report *domain.VariabilityReport) error {
	headers := []string{"rank", "ekatte", "total_cv", "elections_count"}

	records := make([][]string, 0, len(report.Rankings.ByTotal))
	for i, id := range report.Rankings.ByTotal {
		s := report.Settlements[id]
		records = append(records, []string{
			strconv.Itoa(i + 1),
			id,
			formatCV(s.TotalCV),
			strconv.Itoa(s.ElectionsCount),
		})
	}
	if err := w.csvWriter.WriteSimpleCSV("ranking_total.csv", headers, records); err != nil {
		return fmt.Errorf("failed to write total ranking: %w", err)
	}

	partyHeaders := []string{"rank", "ekatte", "party_cv", "elections_count"}
	for party, ids := range report.Rankings.ByParty {
		records := make([][]string, 0, len(ids))
		for i, id := range ids {
			s := report.Settlements[id]
			records = append(records, []string{
				strconv.Itoa(i + 1),
				id,
				formatCV(s.PartyCV[party]),
				strconv.Itoa(s.ElectionsCount),
			})
		}
		name := fmt.Sprintf("ranking_party_%s.csv", sanitizeFileName(party))
		if err := w.csvWriter.WriteSimpleCSV(name, partyHeaders, records); err != nil {
			return fmt.Errorf("failed to write ranking for %s: %w", party, err)
		}
	}

	return nil
}

func formatCV(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// sanitizeFileName replaces characters that cannot appear in file names.
// Party names contain spaces, quotes and Cyrillic; Cyrillic is fine.
func sanitizeFileName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case ' ', '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
