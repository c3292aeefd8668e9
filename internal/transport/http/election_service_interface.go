package http

import (
	"context"

	"izboricli/internal/services"
	"izboricli/pkg/contracts/domain"
)

// ElectionServiceInterface defines the service operations the handlers
// depend on. Kept as an interface so handler tests can substitute stubs.
type ElectionServiceInterface interface {
	ListElections(ctx context.Context) []services.ElectionInfo
	GetParties(ctx context.Context) (map[string]domain.Party, error)
	GetRegionResults(ctx context.Context, electionID, regionType, regionID string, parties []string) (map[string]domain.RegionRecord, error)
	GetNationalAggregate(ctx context.Context, electionID string) (domain.NationalAggregate, error)
	GetTopParties(ctx context.Context, n, limit int) ([]string, error)
	GetRegionHistory(ctx context.Context, regionType, regionID string) ([]domain.HistoryEntry, error)
	GetVariabilityReport(ctx context.Context) (*domain.VariabilityReport, error)
}
