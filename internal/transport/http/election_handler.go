package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "izboricli/internal/errors"
	"izboricli/internal/middleware"
	"izboricli/internal/services"
)

// ElectionHandler handles election data HTTP requests with RFC 7807
// compliance
type ElectionHandler struct {
	service      ElectionServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewElectionHandler creates a new election handler
func NewElectionHandler(service ElectionServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ElectionHandler {
	return &ElectionHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "election_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the election routes with proper Chi patterns
func (h *ElectionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/elections", h.ListElections)
	r.Get("/parties", h.GetParties)
	r.Get("/results/{electionID}", h.GetResults)
	r.Get("/stats/national/{electionID}", h.GetNationalStats)
	r.Get("/stats/top-parties", h.GetTopParties)
	r.Get("/history/{regionType}/{regionID}", h.GetHistory)

	return r
}

// resultsQuery binds and validates GET /results query parameters
type resultsQuery struct {
	RegionType string `validate:"omitempty,oneof=settlement municipality"`
	RegionID   string `validate:"omitempty,max=128"`
	Parties    string `validate:"omitempty,max=4096"`
}

// ListElections handles GET /api/elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	elections := h.service.ListElections(r.Context())

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   elections,
		"count":  len(elections),
	})
}

// GetParties handles GET /api/parties
func (h *ElectionHandler) GetParties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.service.GetParties(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   parties,
		"count":  len(parties),
	})
}

// GetResults handles GET /api/results/{electionID}
func (h *ElectionHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	electionID := chi.URLParam(r, "electionID")

	q := resultsQuery{
		RegionType: r.URL.Query().Get("region_type"),
		RegionID:   r.URL.Query().Get("region_id"),
		Parties:    r.URL.Query().Get("parties"),
	}
	if err := h.validate.Struct(q); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("region_type", "region_type must be 'settlement' or 'municipality'"))
		return
	}

	var parties []string
	if q.Parties != "" {
		parties = strings.Split(q.Parties, ",")
	}

	h.logger.InfoContext(r.Context(), "fetching region results",
		slog.String("request_id", reqID),
		slog.String("election_id", electionID),
		slog.String("region_type", q.RegionType),
		slog.String("region_id", q.RegionID),
	)

	records, err := h.service.GetRegionResults(r.Context(), electionID, q.RegionType, q.RegionID, parties)
	if err != nil {
		h.handleServiceError(w, r, err, electionID)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   records,
		"count":  len(records),
	})
}

// GetNationalStats handles GET /api/stats/national/{electionID}
func (h *ElectionHandler) GetNationalStats(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	electionID := chi.URLParam(r, "electionID")

	h.logger.InfoContext(r.Context(), "fetching national stats",
		slog.String("request_id", reqID),
		slog.String("election_id", electionID),
	)

	aggregate, err := h.service.GetNationalAggregate(r.Context(), electionID)
	if err != nil {
		h.handleServiceError(w, r, err, electionID)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   aggregate,
	})
}

// GetTopParties handles GET /api/stats/top-parties
func (h *ElectionHandler) GetTopParties(w http.ResponseWriter, r *http.Request) {
	nStr := r.URL.Query().Get("n")
	if nStr == "" {
		nStr = "3"
	}
	n, err := strconv.Atoi(nStr)
	if err != nil || n < 1 || n > 50 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("n", "n must be a number between 1 and 50"))
		return
	}

	parties, err := h.service.GetTopParties(r.Context(), n, 5)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   parties,
		"count":  len(parties),
	})
}

// GetHistory handles GET /api/history/{regionType}/{regionID}
func (h *ElectionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	regionType := chi.URLParam(r, "regionType")
	regionID := chi.URLParam(r, "regionID")

	h.logger.InfoContext(r.Context(), "fetching region history",
		slog.String("request_id", reqID),
		slog.String("region_type", regionType),
		slog.String("region_id", regionID),
	)

	history, err := h.service.GetRegionHistory(r.Context(), regionType, regionID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRegionType) || errors.Is(err, services.ErrMissingRegionID) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("region", err.Error()))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   history,
		"count":  len(history),
	})
}

// handleServiceError maps service errors to API errors
func (h *ElectionHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, electionID string) {
	switch {
	case errors.Is(err, services.ErrUnknownElection):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			"ELECTION_NOT_FOUND",
			fmt.Sprintf("Election '%s' not found", electionID),
			map[string]interface{}{"election_id": electionID},
		))
	case errors.Is(err, services.ErrInvalidRegionType):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("region_type", err.Error()))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
