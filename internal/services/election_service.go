package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"izboricli/internal/dataset"
	"izboricli/internal/results"
	"izboricli/internal/variability"
	"izboricli/pkg/contracts/domain"
)

// ElectionInfo is one listing entry with a display-ready date
type ElectionInfo struct {
	domain.Election
	FormattedDate string `json:"formattedDate"`
}

// ElectionService exposes the normalization, aggregation, history, and
// variability operations to the transport layer.
type ElectionService struct {
	normalizer *results.Normalizer
	aggregator *results.Aggregator
	history    *results.HistoryAssembler
	analyzer   *variability.Analyzer
	dataDir    string
	logger     *slog.Logger

	// The variability report is a full batch over the complete dataset and
	// the source data is immutable per run, so one computation serves the
	// process lifetime.
	reportMu sync.Mutex
	report   *domain.VariabilityReport
}

// NewElectionService wires the pipeline over the given loader
func NewElectionService(loader *dataset.Loader, dataDir string, cfg variability.Config, logger *slog.Logger) *ElectionService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "election_service"))

	normalizer := results.NewNormalizer(loader, logger)
	aggregator := results.NewAggregator(normalizer)

	return &ElectionService{
		normalizer: normalizer,
		aggregator: aggregator,
		history:    results.NewHistoryAssembler(normalizer),
		analyzer:   variability.NewAnalyzer(normalizer, aggregator, cfg, logger),
		dataDir:    dataDir,
		logger:     logger,
	}
}

// ListElections returns the full election list with formatted dates,
// ordered by date ascending.
func (s *ElectionService) ListElections(ctx context.Context) []ElectionInfo {
	elections := dataset.Elections()
	out := make([]ElectionInfo, 0, len(elections))
	for _, e := range elections {
		out = append(out, ElectionInfo{
			Election:      e,
			FormattedDate: dataset.FormatElectionDate(e.ID),
		})
	}
	return out
}

// GetParties returns party display metadata keyed by party name
func (s *ElectionService) GetParties(ctx context.Context) (map[string]domain.Party, error) {
	parties, err := dataset.LoadParties(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("load parties: %w", err)
	}
	return parties, nil
}

// GetRegionResults returns normalized records for one election, optionally
// filtered to a single region and a party allow-list.
func (s *ElectionService) GetRegionResults(ctx context.Context, electionID string, regionType string, regionID string, parties []string) (map[string]domain.RegionRecord, error) {
	election, rt, err := s.resolve(electionID, regionType)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "fetching region results",
		slog.String("election_id", electionID),
		slog.String("region_type", regionType),
		slog.String("region_id", regionID))

	return s.normalizer.Normalize(election, rt, results.Options{
		RegionID: regionID,
		Parties:  parties,
	})
}

// GetNationalAggregate returns nationwide totals and the ranked party list
// for one election.
func (s *ElectionService) GetNationalAggregate(ctx context.Context, electionID string) (domain.NationalAggregate, error) {
	election, ok := dataset.Find(electionID)
	if !ok {
		return domain.NationalAggregate{}, fmt.Errorf("%w: %s", ErrUnknownElection, electionID)
	}
	return s.aggregator.National(election)
}

// GetTopParties returns the top limit party names by raw votes summed over
// the most recent n general elections. Fewer than n qualifying elections is
// not an error.
func (s *ElectionService) GetTopParties(ctx context.Context, n, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.aggregator.TopPartiesAcross(dataset.RecentGeneral(n), limit)
}

// GetRegionHistory returns one entry per known election in ascending date
// order, zero-filled where the region has no data.
func (s *ElectionService) GetRegionHistory(ctx context.Context, regionType string, regionID string) ([]domain.HistoryEntry, error) {
	rt := domain.RegionType(regionType)
	if !rt.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRegionType, regionType)
	}
	if regionID == "" {
		return nil, ErrMissingRegionID
	}
	return s.history.Series(dataset.Elections(), rt, regionID)
}

// GetVariabilityReport returns the anomaly report, computing it on first
// use and reusing the result afterwards.
func (s *ElectionService) GetVariabilityReport(ctx context.Context) (*domain.VariabilityReport, error) {
	s.reportMu.Lock()
	defer s.reportMu.Unlock()

	if s.report != nil {
		return s.report, nil
	}

	report, err := s.analyzer.Run(ctx, dataset.Elections())
	if err != nil {
		return nil, fmt.Errorf("variability analysis: %w", err)
	}
	s.report = report
	return report, nil
}

// resolve validates caller input: the election must exist and the region
// type must be a known level.
func (s *ElectionService) resolve(electionID string, regionType string) (domain.Election, domain.RegionType, error) {
	election, ok := dataset.Find(electionID)
	if !ok {
		return domain.Election{}, "", fmt.Errorf("%w: %s", ErrUnknownElection, electionID)
	}
	rt := domain.RegionType(regionType)
	if regionType == "" {
		rt = domain.RegionSettlement
	}
	if !rt.IsValid() {
		return domain.Election{}, "", fmt.Errorf("%w: %q", ErrInvalidRegionType, regionType)
	}
	return election, rt, nil
}
