package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"izboricli/pkg/contracts/domain"
)

// stubSource serves canned rows keyed by election ID and region type
type stubSource struct {
	rows map[string][]domain.RawRow
	err  error
}

func (s *stubSource) Rows(election domain.Election, rt domain.RegionType) ([]domain.RawRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[election.ID+"/"+string(rt)], nil
}

var testElection = domain.Election{ID: "2024-10-27-ns", Date: "2024-10-27", Type: domain.TypeGeneral}

func settlementRow(id int64, total int64, parties map[string]int64) domain.RawRow {
	row := domain.RawRow{
		"id":    domain.IntValue(id),
		"total": domain.IntValue(total),
	}
	for party, votes := range parties {
		row[party] = domain.IntValue(votes)
	}
	return row
}

func TestNormalize_SettlementKeysZeroPadded(t *testing.T) {
	source := &stubSource{rows: map[string][]domain.RawRow{
		"2024-10-27-ns/settlement": {
			settlementRow(151, 100, map[string]int64{"Alpha": 60}),
			settlementRow(68134, 200, map[string]int64{"Alpha": 90}),
		},
	}}
	n := NewNormalizer(source, nil)

	records, err := n.Normalize(testElection, domain.RegionSettlement, Options{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Contains(t, records, "00151")
	assert.Contains(t, records, "68134")
	assert.Equal(t, "00151", records["00151"].ID)
}

func TestNormalize_MetaColumnsExcludedFromParties(t *testing.T) {
	row := domain.RawRow{
		"id":                  domain.IntValue(101),
		"total":               domain.IntValue(500),
		"total_valid":         domain.IntValue(480),
		"eligible_voters":     domain.IntValue(900),
		"activity":            domain.FloatValue(0.55),
		"n_stations":          domain.IntValue(3),
		"region":              domain.IntValue(16),
		"region_name":         domain.TextValue("Пловдив"),
		"невалидни":           domain.IntValue(20),
		"не подкрепям никого": domain.IntValue(12),
		"Alpha":               domain.IntValue(300),
		"Beta":                domain.IntValue(180),
	}
	source := &stubSource{rows: map[string][]domain.RawRow{
		"2024-10-27-ns/settlement": {row},
	}}
	n := NewNormalizer(source, nil)

	records, err := n.Normalize(testElection, domain.RegionSettlement, Options{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records["00101"]
	assert.Equal(t, map[string]int64{"Alpha": 300, "Beta": 180}, rec.PartyVotes)
	assert.Equal(t, int64(500), rec.TotalVotes)
	assert.Equal(t, int64(900), rec.EligibleVoters)
	assert.InDelta(t, 0.55, rec.Turnout, 1e-9)
}

func TestNormalize_TotalFallsBackToTotalValid(t *testing.T) {
	row := domain.RawRow{
		"id":          domain.IntValue(101),
		"total_valid": domain.IntValue(480),
	}
	source := &stubSource{rows: map[string][]domain.RawRow{
		"2024-10-27-ns/settlement": {row},
	}}
	n := NewNormalizer(source, nil)

	records, err := n.Normalize(testElection, domain.RegionSettlement, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(480), records["00101"].TotalVotes)
}

func TestNormalize_TurnoutDerivedFromEligible(t *testing.T) {
	tests := []struct {
		name string
		row  domain.RawRow
		want float64
	}{
		{
			name: "derived from total over eligible",
			row: domain.RawRow{
				"id":              domain.IntValue(1),
				"total":           domain.IntValue(300),
				"eligible_voters": domain.IntValue(600),
			},
			want: 0.5,
		},
		{
			name: "zero when nothing usable",
			row: domain.RawRow{
				"id":    domain.IntValue(1),
				"total": domain.IntValue(300),
			},
			want: 0,
		},
		{
			name: "explicit activity wins",
			row: domain.RawRow{
				"id":              domain.IntValue(1),
				"total":           domain.IntValue(300),
				"eligible_voters": domain.IntValue(600),
				"activity":        domain.FloatValue(0.42),
			},
			want: 0.42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &stubSource{rows: map[string][]domain.RawRow{
				"2024-10-27-ns/settlement": {tt.row},
			}}
			n := NewNormalizer(source, nil)

			records, err := n.Normalize(testElection, domain.RegionSettlement, Options{})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, records["00001"].Turnout, 1e-9)
		})
	}
}

func TestNormalize_RowsWithoutIdentifierDropped(t *testing.T) {
	source := &stubSource{rows: map[string][]domain.RawRow{
		"2024-10-27-ns/settlement": {
			{"total": domain.IntValue(100)},
			{"id": domain.TextValue("n/a"), "total": domain.IntValue(50)},
			settlementRow(7, 30, nil),
		},
	}}
	n := NewNormalizer(source, nil)

	records, err := n.Normalize(testElection, domain.RegionSettlement, Options{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records, "00007")
}

func TestNormalize_RegionFilterSettlement(t *testing.T) {
	source := &stubSource{rows: map[string][]domain.RawRow{
		"2024-10-27-ns/settlement": {
			settlementRow(5, 100, nil),
			settlementRow(68134, 200, nil),
		},
	}}
	n := NewNormalizer(source, nil)

	// Unpadded region IDs address the same settlement as padded ones
	for _, regionID := range []string{"5", "00005"} {
		records, err := n.Normalize(testElection, domain.RegionSettlement, Options{RegionID: regionID})
		require.NoError(t, err)
		require.Len(t, records, 1, "region_id %q", regionID)
		assert.Contains(t, records, "00005")
	}
}

func TestNormalize_RegionFilterMunicipality(t *testing.T) {
	row := domain.RawRow{
		"nuts4":             domain.TextValue("BGS01"),
		"municipality_name": domain.TextValue("Бургас"),
		"total":             domain.IntValue(1000),
	}
	source := &stubSource{rows: map[string][]domain.RawRow{
		"2024-10-27-ns/municipality": {row},
	}}
	n := NewNormalizer(source, nil)

	// Both the NUTS4 code and the display name resolve the municipality
	for _, regionID := range []string{"BGS01", "Бургас"} {
		records, err := n.Normalize(testElection, domain.RegionMunicipality, Options{RegionID: regionID})
		require.NoError(t, err)
		require.Len(t, records, 1, "region_id %q", regionID)
		assert.Contains(t, records, "Бургас")
	}

	records, err := n.Normalize(testElection, domain.RegionMunicipality, Options{RegionID: "Варна"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNormalize_MunicipalityKeyFallsBackToNUTS4(t *testing.T) {
	row := domain.RawRow{
		"nuts4": domain.TextValue("VAR06"),
		"total": domain.IntValue(700),
	}
	source := &stubSource{rows: map[string][]domain.RawRow{
		"2024-10-27-ns/municipality": {row},
	}}
	n := NewNormalizer(source, nil)

	records, err := n.Normalize(testElection, domain.RegionMunicipality, Options{})
	require.NoError(t, err)
	assert.Contains(t, records, "VAR06")
}

func TestNormalize_PartyAllowList(t *testing.T) {
	source := &stubSource{rows: map[string][]domain.RawRow{
		"2024-10-27-ns/settlement": {
			settlementRow(1, 100, map[string]int64{"Alpha": 60, "Beta": 30, "Gamma": 10}),
		},
	}}
	n := NewNormalizer(source, nil)

	records, err := n.Normalize(testElection, domain.RegionSettlement, Options{
		Parties: []string{"Alpha", "Gamma"},
	})
	require.NoError(t, err)

	rec := records["00001"]
	assert.Equal(t, map[string]int64{"Alpha": 60, "Gamma": 10}, rec.PartyVotes)
	// Totals stay whole-region even under an allow-list
	assert.Equal(t, int64(100), rec.TotalVotes)
}

func TestNormalize_EmptySourceYieldsEmptyMap(t *testing.T) {
	n := NewNormalizer(&stubSource{}, nil)

	records, err := n.Normalize(testElection, domain.RegionSettlement, Options{})
	require.NoError(t, err)
	assert.Empty(t, records)
}
