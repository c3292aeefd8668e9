package domain

// NationalBaseline captures the variability inherent to nationwide swings,
// computed once per analysis run. Every region inherits this variability
// regardless of local anomalies, so it is subtracted before ranking.
type NationalBaseline struct {
	TotalCV float64            `json:"total_cv"`
	PartyCV map[string]float64 `json:"party_cv"`
}

// SettlementVariability is the per-region anomaly indicator: coefficients of
// variation normalized against the national baseline, floored at zero.
type SettlementVariability struct {
	TotalCV        float64            `json:"total_cv"`
	PartyCV        map[string]float64 `json:"party_cv"`
	ElectionsCount int                `json:"elections_count"`
}

// ReportMeta describes the inputs of a variability run
type ReportMeta struct {
	AnalysisID string           `json:"analysis_id"`
	Elections  []string         `json:"elections"`
	TopParties []string         `json:"top_parties"`
	Threshold  float64          `json:"threshold"`
	NationalCV NationalBaseline `json:"national_cv"`
}

// ReportRankings lists region IDs ordered by normalized CV descending,
// filtered to the threshold and truncated to the ranking limit.
type ReportRankings struct {
	ByTotal []string            `json:"by_total_cv"`
	ByParty map[string][]string `json:"by_party_cv"`
}

// VariabilityReport is the full output of one anomaly analysis run
type VariabilityReport struct {
	Meta        ReportMeta                       `json:"meta"`
	Settlements map[string]SettlementVariability `json:"settlements"`
	Rankings    ReportRankings                   `json:"rankings"`
}
