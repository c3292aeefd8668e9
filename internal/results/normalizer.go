package results

import (
	"fmt"
	"log/slog"
	"strconv"

	"izboricli/pkg/contracts/domain"
)

// RowSource supplies raw rows for one election at one region level.
// Implementations return empty rows, not an error, when no data exists.
type RowSource interface {
	Rows(election domain.Election, rt domain.RegionType) ([]domain.RawRow, error)
}

// metaColumns is the closed set of reserved column names excluded from
// party results. Every other numeric column is treated as a party.
var metaColumns = map[string]bool{
	"id":                   true,
	"municipality_name":    true,
	"region":               true,
	"region_name":          true,
	"nuts4":                true,
	"n_stations":           true,
	"total":                true,
	"total_valid":          true,
	"activity":             true,
	"eligible_voters":      true,
	"невалидни":            true, // invalid ballots
	"не подкрепям никого":  true, // none of the above
}

// Options narrows normalization output
type Options struct {
	// RegionID restricts output to a single region. Settlements match by
	// EKATTE code; municipalities match by NUTS4 code or display name.
	RegionID string
	// Parties restricts party columns to an allow-list. Empty means all.
	Parties []string
}

// Normalizer turns one election's raw rows into canonical region records
type Normalizer struct {
	source RowSource
	logger *slog.Logger
}

// NewNormalizer creates a normalizer over the given row source
func NewNormalizer(source RowSource, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		source: source,
		logger: logger.With(slog.String("component", "normalizer")),
	}
}

// Normalize produces regionID → RegionRecord for one election. Rows without
// a usable identifier are dropped silently; a missing data file yields an
// empty map.
func (n *Normalizer) Normalize(election domain.Election, rt domain.RegionType, opts Options) (map[string]domain.RegionRecord, error) {
	rows, err := n.source.Rows(election, rt)
	if err != nil {
		return nil, fmt.Errorf("rows for %s/%s: %w", election.ID, rt, err)
	}

	allowed := map[string]bool{}
	for _, p := range opts.Parties {
		allowed[p] = true
	}

	records := make(map[string]domain.RegionRecord, len(rows))
	dropped := 0

	for _, row := range rows {
		key := regionKey(row, rt)
		if key == "" {
			dropped++
			continue
		}
		if opts.RegionID != "" && !regionMatches(row, rt, key, opts.RegionID) {
			continue
		}

		partyVotes := make(map[string]int64)
		for col, v := range row {
			if metaColumns[col] || !v.IsNumeric() {
				continue
			}
			if len(allowed) > 0 && !allowed[col] {
				continue
			}
			partyVotes[col] = v.IntOr(0)
		}

		total := row["total"].IntOr(row["total_valid"].IntOr(0))
		eligible := row["eligible_voters"].IntOr(0)

		turnout, ok := row["activity"].Number()
		if !ok {
			if eligible > 0 {
				turnout = float64(total) / float64(eligible)
			} else {
				turnout = 0
			}
		}

		records[key] = domain.RegionRecord{
			ID:             key,
			TotalVotes:     total,
			EligibleVoters: eligible,
			Turnout:        turnout,
			PartyVotes:     partyVotes,
		}
	}

	if dropped > 0 {
		n.logger.Debug("dropped rows without region identifier",
			slog.String("election_id", election.ID),
			slog.String("region_type", string(rt)),
			slog.Int("dropped", dropped))
	}

	return records, nil
}

// regionKey derives the stable region identifier for a raw row.
// Settlements use the numeric id column rendered as a zero-padded
// 5-character EKATTE code; municipalities prefer the display name and
// fall back to the NUTS4 code.
func regionKey(row domain.RawRow, rt domain.RegionType) string {
	if rt == domain.RegionMunicipality {
		if name := textOf(row["municipality_name"]); name != "" {
			return name
		}
		return textOf(row["nuts4"])
	}

	id := row["id"]
	if !id.IsNumeric() {
		return ""
	}
	return fmt.Sprintf("%05d", id.IntOr(0))
}

// regionMatches reports whether a row belongs to the requested region.
// Municipality lookups accept either the NUTS4 code or the display name
// as equivalent keys. Settlement lookups compare EKATTE codes numerically,
// so "5" and "00005" address the same settlement.
func regionMatches(row domain.RawRow, rt domain.RegionType, key, regionID string) bool {
	if rt == domain.RegionMunicipality {
		return textOf(row["nuts4"]) == regionID || textOf(row["municipality_name"]) == regionID
	}

	want, err := strconv.ParseInt(regionID, 10, 64)
	if err != nil {
		return false
	}
	id := row["id"]
	return id.IsNumeric() && id.IntOr(0) == want
}

// textOf returns the cell's text, rendering numeric cells as empty
func textOf(v domain.Value) string {
	if v.Kind == domain.KindText {
		return v.Text
	}
	return ""
}
