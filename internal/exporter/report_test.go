package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"izboricli/pkg/contracts/domain"
)

func sampleReport() *domain.VariabilityReport {
	return &domain.VariabilityReport{
		Meta: domain.ReportMeta{
			AnalysisID: "test-analysis",
			Elections:  []string{"2021-04-04", "2021-07-11"},
			TopParties: []string{"Алфа", "Бета"},
			Threshold:  30.0,
			NationalCV: domain.NationalBaseline{
				TotalCV: 10.5,
				PartyCV: map[string]float64{"Алфа": 8.2, "Бета": 12.1},
			},
		},
		Settlements: map[string]domain.SettlementVariability{
			"00001": {
				TotalCV:        45.3,
				PartyCV:        map[string]float64{"Алфа": 52.0, "Бета": 31.7},
				ElectionsCount: 2,
			},
			"00002": {
				TotalCV:        38.9,
				PartyCV:        map[string]float64{"Алфа": 40.1},
				ElectionsCount: 2,
			},
		},
		Rankings: domain.ReportRankings{
			ByTotal: []string{"00001", "00002"},
			ByParty: map[string][]string{
				"Алфа": {"00001", "00002"},
				"Бета": {"00001"},
			},
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReportWriter_WriteJSON(t *testing.T) {
	dir := t.TempDir()
	w := NewReportWriter(dir, testLogger())

	report := sampleReport()
	require.NoError(t, w.WriteJSON(report, "fraud_analysis.json"))

	data, err := os.ReadFile(filepath.Join(dir, "fraud_analysis.json"))
	require.NoError(t, err)

	// Indented output
	assert.True(t, bytes.HasPrefix(data, []byte("{\n  ")))

	var decoded domain.VariabilityReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "test-analysis", decoded.Meta.AnalysisID)
	assert.Equal(t, report.Settlements, decoded.Settlements)
	assert.Equal(t, report.Rankings, decoded.Rankings)
}

func TestReportWriter_WriteJSONCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	w := NewReportWriter(dir, testLogger())

	require.NoError(t, w.WriteJSON(sampleReport(), "out.json"))

	_, err := os.Stat(filepath.Join(dir, "out.json"))
	assert.NoError(t, err)
}

func TestReportWriter_WriteRankingsCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewReportWriter(dir, testLogger())

	require.NoError(t, w.WriteRankingsCSV(sampleReport()))

	data, err := os.ReadFile(filepath.Join(dir, "ranking_total.csv"))
	require.NoError(t, err)

	// BOM keeps Excel happy with Cyrillic content
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"rank", "ekatte", "total_cv", "elections_count"}, records[0])
	assert.Equal(t, []string{"1", "00001", "45.3", "2"}, records[1])
	assert.Equal(t, []string{"2", "00002", "38.9", "2"}, records[2])

	// One file per ranked party
	partyData, err := os.ReadFile(filepath.Join(dir, "ranking_party_Алфа.csv"))
	require.NoError(t, err)
	partyRecords, err := csv.NewReader(bytes.NewReader(partyData[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, partyRecords, 3)
	assert.Equal(t, []string{"rank", "ekatte", "party_cv", "elections_count"}, partyRecords[0])
	assert.Equal(t, []string{"1", "00001", "52.0", "2"}, partyRecords[1])

	_, err = os.Stat(filepath.Join(dir, "ranking_party_Бета.csv"))
	assert.NoError(t, err)
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ГЕРБ-СДС", "ГЕРБ-СДС"},
		{"Има Такъв Народ", "Има_Такъв_Народ"},
		{`ПП "Величие"`, "ПП__Величие_"},
		{"a/b\\c:d", "a_b_c_d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFileName(tt.in))
	}
}

func TestCSVWriter_NoBOM(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteCSV("plain.csv", WriteOptions{
		Headers: []string{"a", "b"},
		Records: [][]string{{"1", "2"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "plain.csv"))
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	assert.Equal(t, "a,b\n1,2\n", string(data))
}
