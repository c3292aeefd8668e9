package results

import (
	"fmt"

	"izboricli/internal/dataset"
	"izboricli/pkg/contracts/domain"
)

// HistoryAssembler composes per-region records across the election list
// into a time series.
type HistoryAssembler struct {
	normalizer *Normalizer
}

// NewHistoryAssembler creates a history assembler over the given normalizer
func NewHistoryAssembler(normalizer *Normalizer) *HistoryAssembler {
	return &HistoryAssembler{normalizer: normalizer}
}

// Series returns exactly one entry per election, in the order given.
// Elections where the region has no record contribute a zero-valued entry
// so series from different regions stay positionally aligned.
func (h *HistoryAssembler) Series(elections []domain.Election, rt domain.RegionType, regionID string) ([]domain.HistoryEntry, error) {
	series := make([]domain.HistoryEntry, 0, len(elections))

	for _, election := range elections {
		records, err := h.normalizer.Normalize(election, rt, Options{RegionID: regionID})
		if err != nil {
			return nil, fmt.Errorf("normalize %s: %w", election.ID, err)
		}

		entry := domain.HistoryEntry{
			ElectionID:    election.ID,
			Date:          election.Date,
			Type:          election.Type,
			FormattedDate: dataset.FormatElectionDate(election.ID),
			PartyVotes:    map[string]int64{},
		}

		// At most one record survives the region filter
		for _, rec := range records {
			entry.TotalVotes = rec.TotalVotes
			entry.Turnout = rec.Turnout
			entry.PartyVotes = rec.PartyVotes
		}

		series = append(series, entry)
	}

	return series, nil
}
