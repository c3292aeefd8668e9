package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "izboricli/internal/errors"
	"izboricli/internal/services"
	"izboricli/pkg/contracts/domain"
)

// stubElectionService implements ElectionServiceInterface for handler tests
type stubElectionService struct {
	elections []services.ElectionInfo
	parties   map[string]domain.Party
	records   map[string]domain.RegionRecord
	national  domain.NationalAggregate
	top       []string
	history   []domain.HistoryEntry
	report    *domain.VariabilityReport
	err       error
}

func (s *stubElectionService) ListElections(ctx context.Context) []services.ElectionInfo {
	return s.elections
}

func (s *stubElectionService) GetParties(ctx context.Context) (map[string]domain.Party, error) {
	return s.parties, s.err
}

func (s *stubElectionService) GetRegionResults(ctx context.Context, electionID, regionType, regionID string, parties []string) (map[string]domain.RegionRecord, error) {
	return s.records, s.err
}

func (s *stubElectionService) GetNationalAggregate(ctx context.Context, electionID string) (domain.NationalAggregate, error) {
	return s.national, s.err
}

func (s *stubElectionService) GetTopParties(ctx context.Context, n, limit int) ([]string, error) {
	return s.top, s.err
}

func (s *stubElectionService) GetRegionHistory(ctx context.Context, regionType, regionID string) ([]domain.HistoryEntry, error) {
	return s.history, s.err
}

func (s *stubElectionService) GetVariabilityReport(ctx context.Context) (*domain.VariabilityReport, error) {
	return s.report, s.err
}

func newTestRouter(service ElectionServiceInterface) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := apierrors.NewErrorHandler(logger, false)

	r := chi.NewRouter()
	r.Mount("/api", NewElectionHandler(service, logger, errorHandler).Routes())
	r.Mount("/api/variability", NewVariabilityHandler(service, logger, errorHandler).Routes())
	return r
}

func doRequest(t *testing.T, router chi.Router, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestListElectionsEndpoint(t *testing.T) {
	service := &stubElectionService{
		elections: []services.ElectionInfo{
			{
				Election:      domain.Election{ID: "2024-10-27-ns", Date: "2024-10-27", Type: domain.TypeGeneral},
				FormattedDate: "27 Октомври 2024",
			},
		},
	}
	router := newTestRouter(service)

	rec, body := doRequest(t, router, http.MethodGet, "/api/elections")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(1), body["count"])

	data := body["data"].([]interface{})
	first := data[0].(map[string]interface{})
	assert.Equal(t, "2024-10-27-ns", first["id"])
	assert.Equal(t, "27 Октомври 2024", first["formattedDate"])
}

func TestGetResultsEndpoint(t *testing.T) {
	service := &stubElectionService{
		records: map[string]domain.RegionRecord{
			"00151": {
				ID:         "00151",
				TotalVotes: 100,
				Turnout:    0.5,
				PartyVotes: map[string]int64{"Alpha": 60},
			},
		},
	}
	router := newTestRouter(service)

	rec, body := doRequest(t, router, http.MethodGet, "/api/results/2024-10-27-ns?region_type=settlement")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	record := data["00151"].(map[string]interface{})
	assert.Equal(t, float64(100), record["total"])
	assert.Equal(t, 0.5, record["activity"])
}

func TestGetResultsEndpoint_InvalidRegionType(t *testing.T) {
	router := newTestRouter(&stubElectionService{})

	rec, body := doRequest(t, router, http.MethodGet, "/api/results/2024-10-27-ns?region_type=district")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "/errors/validation", body["type"])
	assert.Equal(t, float64(http.StatusBadRequest), body["status"])
}

func TestGetResultsEndpoint_UnknownElection(t *testing.T) {
	service := &stubElectionService{
		err: fmt.Errorf("%w: 1990-06-10-ns", services.ErrUnknownElection),
	}
	router := newTestRouter(service)

	rec, body := doRequest(t, router, http.MethodGet, "/api/results/1990-06-10-ns")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "/errors/not-found", body["type"])
	assert.Equal(t, "ELECTION_NOT_FOUND", body["error_code"])
}

func TestGetNationalStatsEndpoint(t *testing.T) {
	service := &stubElectionService{
		national: domain.NationalAggregate{
			TotalVotes: 400,
			Turnout:    0.5,
			TopParties: []domain.PartyResult{
				{Party: "Alpha", Votes: 160, Percentage: 40},
			},
		},
	}
	router := newTestRouter(service)

	rec, body := doRequest(t, router, http.MethodGet, "/api/stats/national/2024-10-27-ns")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(400), data["totalVotes"])

	top := data["topParties"].([]interface{})
	require.Len(t, top, 1)
	assert.Equal(t, "Alpha", top[0].(map[string]interface{})["party"])
}

func TestGetTopPartiesEndpoint(t *testing.T) {
	service := &stubElectionService{top: []string{"Alpha", "Beta"}}
	router := newTestRouter(service)

	rec, body := doRequest(t, router, http.MethodGet, "/api/stats/top-parties?n=2")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["count"])

	rec, _ = doRequest(t, router, http.MethodGet, "/api/stats/top-parties?n=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doRequest(t, router, http.MethodGet, "/api/stats/top-parties?n=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHistoryEndpoint(t *testing.T) {
	service := &stubElectionService{
		history: []domain.HistoryEntry{
			{ElectionID: "2024-10-27-ns", TotalVotes: 100, PartyVotes: map[string]int64{}},
		},
	}
	router := newTestRouter(service)

	rec, body := doRequest(t, router, http.MethodGet, "/api/history/settlement/00151")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
}

func TestGetHistoryEndpoint_InvalidRegionType(t *testing.T) {
	service := &stubElectionService{
		err: fmt.Errorf("%w: %q", services.ErrInvalidRegionType, "district"),
	}
	router := newTestRouter(service)

	rec, body := doRequest(t, router, http.MethodGet, "/api/history/district/00151")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "/errors/validation", body["type"])
}

func TestVariabilityEndpoint(t *testing.T) {
	service := &stubElectionService{
		report: &domain.VariabilityReport{
			Meta: domain.ReportMeta{
				AnalysisID: "test-run",
				Threshold:  30.0,
				NationalCV: domain.NationalBaseline{TotalCV: 12.3, PartyCV: map[string]float64{}},
			},
			Settlements: map[string]domain.SettlementVariability{
				"00151": {TotalCV: 45.5, PartyCV: map[string]float64{}, ElectionsCount: 9},
			},
			Rankings: domain.ReportRankings{
				ByTotal: []string{"00151"},
				ByParty: map[string][]string{},
			},
		},
	}
	router := newTestRouter(service)

	rec, body := doRequest(t, router, http.MethodGet, "/api/variability")

	assert.Equal(t, http.StatusOK, rec.Code)

	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, "test-run", meta["analysis_id"])

	settlements := body["settlements"].(map[string]interface{})
	entry := settlements["00151"].(map[string]interface{})
	assert.Equal(t, 45.5, entry["total_cv"])
	assert.Equal(t, float64(9), entry["elections_count"])

	rankings := body["rankings"].(map[string]interface{})
	assert.Equal(t, []interface{}{"00151"}, rankings["by_total_cv"])
}

func TestVariabilityEndpoint_Failure(t *testing.T) {
	service := &stubElectionService{err: fmt.Errorf("no general elections to analyze")}
	router := newTestRouter(service)

	rec, body := doRequest(t, router, http.MethodGet, "/api/variability")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "ANALYSIS_FAILED", body["error_code"])
}
