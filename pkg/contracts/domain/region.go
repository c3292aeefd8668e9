package domain

// RegionType selects the administrative level of region records
type RegionType string

const (
	// RegionSettlement keys records by 5-digit EKATTE settlement codes
	RegionSettlement RegionType = "settlement"
	// RegionMunicipality keys records by municipality name or NUTS4 code
	RegionMunicipality RegionType = "municipality"
)

// IsValid checks if the region type is one of the known levels
func (rt RegionType) IsValid() bool {
	return rt == RegionSettlement || rt == RegionMunicipality
}

// RegionRecord is the canonical normalized result for one region in one
// election.
type RegionRecord struct {
	ID             string            `json:"id"`
	TotalVotes     int64             `json:"total"`
	EligibleVoters int64             `json:"eligible"`
	Turnout        float64           `json:"activity"` // fraction in [0,1]
	PartyVotes     map[string]int64  `json:"results"`
}

// PartyResult is one ranked entry of a national aggregate
type PartyResult struct {
	Party      string  `json:"party"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// NationalAggregate holds nationwide totals for one election with parties
// ranked by votes descending (stable on ties).
type NationalAggregate struct {
	TotalVotes     int64         `json:"totalVotes"`
	Turnout        float64       `json:"activity"`
	EligibleVoters int64         `json:"eligibleVoters"`
	TopParties     []PartyResult `json:"topParties"`
}

// HistoryEntry is one election's result for a region inside a time series.
// Elections where the region has no record carry zero totals and an empty
// party map so the series stays aligned to the global election list.
type HistoryEntry struct {
	ElectionID    string           `json:"electionId"`
	Date          string           `json:"date"`
	Type          ElectionType     `json:"type"`
	FormattedDate string           `json:"formattedDate"`
	TotalVotes    int64            `json:"total"`
	Turnout       float64          `json:"activity"`
	PartyVotes    map[string]int64 `json:"results"`
}

// Party holds display metadata for one party
type Party struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Color string `json:"color"`
}
