package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "izboricli/internal/errors"
	"izboricli/internal/middleware"
)

// VariabilityHandler serves the anomaly report
type VariabilityHandler struct {
	service      ElectionServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewVariabilityHandler creates a new variability handler
func NewVariabilityHandler(service ElectionServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *VariabilityHandler {
	return &VariabilityHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "variability_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the variability routes
func (h *VariabilityHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetReport)
	return r
}

// GetReport handles GET /api/variability. The first call computes the full
// report; later calls serve the memoized result.
func (h *VariabilityHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fetching variability report",
		slog.String("request_id", reqID),
	)

	report, err := h.service.GetVariabilityReport(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "variability analysis failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusInternalServerError,
			"ANALYSIS_FAILED",
			"Variability analysis failed",
			err.Error(),
		))
		return
	}

	render.JSON(w, r, report)
}
