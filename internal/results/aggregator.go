package results

import (
	"fmt"
	"sort"

	"izboricli/pkg/contracts/domain"
)

// Aggregator folds region records into national totals and party rankings
type Aggregator struct {
	normalizer *Normalizer
}

// NewAggregator creates an aggregator over the given normalizer
func NewAggregator(normalizer *Normalizer) *Aggregator {
	return &Aggregator{normalizer: normalizer}
}

// AggregateNational sums region records into a national aggregate with
// parties ranked by votes descending. Ties keep first-seen order; region
// and party keys are visited in sorted order so the ranking is
// deterministic across runs.
func (a *Aggregator) AggregateNational(records map[string]domain.RegionRecord) domain.NationalAggregate {
	var totalVotes, eligible int64
	partyTotals := make(map[string]int64)
	var partyOrder []string

	for _, id := range sortedKeys(records) {
		rec := records[id]
		totalVotes += rec.TotalVotes
		eligible += rec.EligibleVoters

		for _, party := range sortedKeys(rec.PartyVotes) {
			if _, seen := partyTotals[party]; !seen {
				partyOrder = append(partyOrder, party)
			}
			partyTotals[party] += rec.PartyVotes[party]
		}
	}

	ranked := make([]domain.PartyResult, 0, len(partyOrder))
	for _, party := range partyOrder {
		votes := partyTotals[party]
		pct := 0.0
		if totalVotes > 0 {
			pct = float64(votes) / float64(totalVotes) * 100
		}
		ranked = append(ranked, domain.PartyResult{Party: party, Votes: votes, Percentage: pct})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})

	turnout := 0.0
	if eligible > 0 {
		turnout = float64(totalVotes) / float64(eligible)
	}

	return domain.NationalAggregate{
		TotalVotes:     totalVotes,
		Turnout:        turnout,
		EligibleVoters: eligible,
		TopParties:     ranked,
	}
}

// National normalizes settlement-level data for one election and
// aggregates it nationally.
func (a *Aggregator) National(election domain.Election) (domain.NationalAggregate, error) {
	records, err := a.normalizer.Normalize(election, domain.RegionSettlement, Options{})
	if err != nil {
		return domain.NationalAggregate{}, fmt.Errorf("normalize %s: %w", election.ID, err)
	}
	return a.AggregateNational(records), nil
}

// TopPartiesAcross sums raw national vote counts over the given elections
// and returns the top limit party names by total votes descending.
func (a *Aggregator) TopPartiesAcross(elections []domain.Election, limit int) ([]string, error) {
	partyTotals := make(map[string]int64)
	var partyOrder []string

	for _, election := range elections {
		records, err := a.normalizer.Normalize(election, domain.RegionSettlement, Options{})
		if err != nil {
			return nil, fmt.Errorf("normalize %s: %w", election.ID, err)
		}
		for _, id := range sortedKeys(records) {
			rec := records[id]
			for _, party := range sortedKeys(rec.PartyVotes) {
				if _, seen := partyTotals[party]; !seen {
					partyOrder = append(partyOrder, party)
				}
				partyTotals[party] += rec.PartyVotes[party]
			}
		}
	}

	sort.SliceStable(partyOrder, func(i, j int) bool {
		return partyTotals[partyOrder[i]] > partyTotals[partyOrder[j]]
	})
	if limit < len(partyOrder) {
		partyOrder = partyOrder[:limit]
	}

	return partyOrder, nil
}

// sortedKeys returns map keys in ascending order for deterministic iteration
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
