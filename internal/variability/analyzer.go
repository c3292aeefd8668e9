package variability

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"izboricli/internal/results"
	"izboricli/pkg/contracts/domain"
)

// Config holds the tunable parameters of a variability run
type Config struct {
	// TopParties is how many parties (by national votes across the
	// analyzed elections) get per-party CV series.
	TopParties int
	// Threshold is the minimum normalized CV for a region to appear in
	// the rankings. A configured constant, not derived from the data.
	Threshold float64
	// RankLimit caps each ranking list.
	RankLimit int
}

// DefaultConfig returns the standard analysis parameters
func DefaultConfig() Config {
	return Config{
		TopParties: 10,
		Threshold:  30.0,
		RankLimit:  100,
	}
}

// Analyzer computes per-settlement vote-share variability normalized
// against the national baseline. It answers: does this region's voting
// pattern fluctuate across elections more than nationwide swings explain?
type Analyzer struct {
	normalizer *results.Normalizer
	aggregator *results.Aggregator
	logger     *slog.Logger
	cfg        Config
}

// NewAnalyzer creates an analyzer over the normalization pipeline
func NewAnalyzer(normalizer *results.Normalizer, aggregator *results.Aggregator, cfg Config, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TopParties <= 0 {
		cfg.TopParties = DefaultConfig().TopParties
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultConfig().Threshold
	}
	if cfg.RankLimit <= 0 {
		cfg.RankLimit = DefaultConfig().RankLimit
	}
	return &Analyzer{
		normalizer: normalizer,
		aggregator: aggregator,
		logger:     logger.With(slog.String("component", "variability_analyzer")),
		cfg:        cfg,
	}
}

// snapshot is one election's settlement-level metrics
type snapshot struct {
	election domain.Election
	total    map[string]int64              // regionID → total votes
	shares   map[string]map[string]float64 // regionID → party → % of regional total
}

// Run executes a full analysis over the general elections in the given
// list. European Parliament elections are excluded from this analysis.
func (a *Analyzer) Run(ctx context.Context, elections []domain.Election) (*domain.VariabilityReport, error) {
	start := time.Now()

	var general []domain.Election
	for _, e := range elections {
		if e.Type == domain.TypeGeneral {
			general = append(general, e)
		}
	}
	if len(general) == 0 {
		return nil, fmt.Errorf("no general elections to analyze")
	}

	a.logger.InfoContext(ctx, "starting variability analysis",
		slog.Int("elections", len(general)),
		slog.Int("top_parties", a.cfg.TopParties),
		slog.Float64("threshold", a.cfg.Threshold))

	topParties, err := a.aggregator.TopPartiesAcross(general, a.cfg.TopParties)
	if err != nil {
		return nil, fmt.Errorf("select top parties: %w", err)
	}

	snapshots, err := a.loadSnapshots(general, topParties)
	if err != nil {
		return nil, err
	}

	baseline := a.nationalBaseline(snapshots, topParties)
	settlements := a.analyzeSettlements(snapshots, topParties, baseline)
	rankings := a.buildRankings(settlements, topParties)

	dates := make([]string, 0, len(general))
	for _, e := range general {
		dates = append(dates, e.Date)
	}

	report := &domain.VariabilityReport{
		Meta: domain.ReportMeta{
			AnalysisID: uuid.New().String(),
			Elections:  dates,
			TopParties: topParties,
			Threshold:  a.cfg.Threshold,
			NationalCV: domain.NationalBaseline{
				TotalCV: Round1(baseline.TotalCV),
				PartyCV: roundAll(baseline.PartyCV),
			},
		},
		Settlements: settlements,
		Rankings:    rankings,
	}

	a.logger.InfoContext(ctx, "variability analysis completed",
		slog.Duration("duration", time.Since(start)),
		slog.Int("settlements", len(settlements)),
		slog.Float64("national_total_cv", report.Meta.NationalCV.TotalCV))

	return report, nil
}

// loadSnapshots extracts per-election totals and party shares for every
// settlement. A region absent from an election simply has no entry in
// that election's snapshot.
func (a *Analyzer) loadSnapshots(elections []domain.Election, topParties []string) ([]snapshot, error) {
	snapshots := make([]snapshot, 0, len(elections))

	for _, election := range elections {
		records, err := a.normalizer.Normalize(election, domain.RegionSettlement, results.Options{})
		if err != nil {
			return nil, fmt.Errorf("normalize %s: %w", election.ID, err)
		}

		snap := snapshot{
			election: election,
			total:    make(map[string]int64, len(records)),
			shares:   make(map[string]map[string]float64, len(records)),
		}

		for id, rec := range records {
			snap.total[id] = rec.TotalVotes

			shares := make(map[string]float64, len(topParties))
			for _, party := range topParties {
				if rec.TotalVotes > 0 {
					shares[party] = float64(rec.PartyVotes[party]) / float64(rec.TotalVotes) * 100
				} else {
					shares[party] = 0
				}
			}
			snap.shares[id] = shares
		}

		snapshots = append(snapshots, snap)
	}

	return snapshots, nil
}

// nationalBaseline computes the CV of nationwide aggregates: one total per
// election, and each top party's national vote share per election. The
// national share is reconstructed from regional shares weighted by
// regional totals, which matches the share of the national total.
func (a *Analyzer) nationalBaseline(snapshots []snapshot, topParties []string) domain.NationalBaseline {
	nationalTotals := make([]float64, 0, len(snapshots))
	partyShares := make(map[string][]float64, len(topParties))

	for _, snap := range snapshots {
		var electionTotal int64
		for _, t := range snap.total {
			electionTotal += t
		}
		nationalTotals = append(nationalTotals, float64(electionTotal))

		for _, party := range topParties {
			votes := 0.0
			for id, shares := range snap.shares {
				votes += shares[party] * float64(snap.total[id]) / 100
			}
			share := 0.0
			if electionTotal > 0 {
				share = votes / float64(electionTotal) * 100
			}
			partyShares[party] = append(partyShares[party], share)
		}
	}

	baseline := domain.NationalBaseline{PartyCV: make(map[string]float64)}
	if cv, ok := CV(nationalTotals); ok {
		baseline.TotalCV = cv
	}
	for _, party := range topParties {
		if cv, ok := CV(partyShares[party]); ok {
			baseline.PartyCV[party] = cv
		}
	}

	return baseline
}

// analyzeSettlements computes normalized CVs per settlement. Regions whose
// raw total CV is undefined (fewer than two active elections) are excluded
// from the output entirely rather than zero-filled.
func (a *Analyzer) analyzeSettlements(snapshots []snapshot, topParties []string, baseline domain.NationalBaseline) map[string]domain.SettlementVariability {
	regionIDs := make(map[string]bool)
	for _, snap := range snapshots {
		for id := range snap.total {
			regionIDs[id] = true
		}
	}

	settlements := make(map[string]domain.SettlementVariability)

	for id := range regionIDs {
		totals := make([]float64, 0, len(snapshots))
		partySeries := make(map[string][]float64, len(topParties))

		for _, snap := range snapshots {
			if t, ok := snap.total[id]; ok {
				totals = append(totals, float64(t))
				for _, party := range topParties {
					partySeries[party] = append(partySeries[party], snap.shares[id][party])
				}
			} else {
				totals = append(totals, 0)
				for _, party := range topParties {
					partySeries[party] = append(partySeries[party], 0)
				}
			}
		}

		rawTotal, ok := CV(totals)
		if !ok {
			continue
		}
		normalizedTotal := rawTotal - baseline.TotalCV
		if normalizedTotal < 0 {
			normalizedTotal = 0
		}

		partyCV := make(map[string]float64)
		for _, party := range topParties {
			cv, ok := CV(partySeries[party])
			if !ok {
				continue
			}
			normalized := cv - baseline.PartyCV[party]
			if normalized < 0 {
				normalized = 0
			}
			partyCV[party] = Round1(normalized)
		}

		active := 0
		for _, t := range totals {
			if t > 0 {
				active++
			}
		}

		settlements[id] = domain.SettlementVariability{
			TotalCV:        Round1(normalizedTotal),
			PartyCV:        partyCV,
			ElectionsCount: active,
		}
	}

	return settlements
}

// buildRankings produces the total and per-party rankings. Parties without
// any qualifying region are omitted.
func (a *Analyzer) buildRankings(settlements map[string]domain.SettlementVariability, topParties []string) domain.ReportRankings {
	rankings := domain.ReportRankings{
		ByTotal: TopByVariability(settlements, "", a.cfg.Threshold, a.cfg.RankLimit),
		ByParty: make(map[string][]string),
	}
	for _, party := range topParties {
		if ranked := TopByVariability(settlements, party, a.cfg.Threshold, a.cfg.RankLimit); len(ranked) > 0 {
			rankings.ByParty[party] = ranked
		}
	}
	return rankings
}

// TopByVariability ranks region IDs by normalized CV descending, keeping
// only values at or above threshold and truncating to limit. An empty
// party selects the total-votes CV. Ties order by region ID so rankings
// are stable across runs.
func TopByVariability(settlements map[string]domain.SettlementVariability, party string, threshold float64, limit int) []string {
	type ranked struct {
		id string
		cv float64
	}

	items := make([]ranked, 0, len(settlements))
	for id, sv := range settlements {
		cv := sv.TotalCV
		if party != "" {
			cv = sv.PartyCV[party]
		}
		if cv >= threshold {
			items = append(items, ranked{id: id, cv: cv})
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].cv != items[j].cv {
			return items[i].cv > items[j].cv
		}
		return items[i].id < items[j].id
	})
	if limit < len(items) {
		items = items[:limit]
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.id)
	}
	return ids
}

func roundAll(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = Round1(v)
	}
	return out
}
