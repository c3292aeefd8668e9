package dataset

import (
	"sort"
	"strings"

	"izboricli/pkg/contracts/domain"
)

// available is the immutable election reference list, ordered by date.
// IDs follow the source data convention: "<date>-ns" for National Assembly
// and "<date>-ep" for European Parliament elections.
var available = []domain.Election{
	{ID: "2013-05-12-ns", Date: "2013-05-12", Type: domain.TypeGeneral},
	{ID: "2014-10-05-ns", Date: "2014-10-05", Type: domain.TypeGeneral},
	{ID: "2017-03-26-ns", Date: "2017-03-26", Type: domain.TypeGeneral},
	{ID: "2021-04-04-ns", Date: "2021-04-04", Type: domain.TypeGeneral},
	{ID: "2021-07-11-ns", Date: "2021-07-11", Type: domain.TypeGeneral},
	{ID: "2021-11-14-ns", Date: "2021-11-14", Type: domain.TypeGeneral},
	{ID: "2022-10-02-ns", Date: "2022-10-02", Type: domain.TypeGeneral},
	{ID: "2023-04-02-ns", Date: "2023-04-02", Type: domain.TypeGeneral},
	{ID: "2024-06-09-ns", Date: "2024-06-09", Type: domain.TypeGeneral},
	{ID: "2024-06-09-ep", Date: "2024-06-09", Type: domain.TypeEuropean},
	{ID: "2024-10-27-ns", Date: "2024-10-27", Type: domain.TypeGeneral},
}

// Elections returns the full election list ordered by date ascending
func Elections() []domain.Election {
	out := make([]domain.Election, len(available))
	copy(out, available)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

// Find looks up an election by ID
func Find(electionID string) (domain.Election, bool) {
	for _, e := range available {
		if e.ID == electionID {
			return e, true
		}
	}
	return domain.Election{}, false
}

// GeneralElections returns National Assembly elections ordered by date
// ascending. European Parliament elections are excluded.
func GeneralElections() []domain.Election {
	var out []domain.Election
	for _, e := range Elections() {
		if e.Type == domain.TypeGeneral {
			out = append(out, e)
		}
	}
	return out
}

// RecentGeneral returns up to n general elections, most recent first.
// Fewer than n qualifying elections is not an error.
func RecentGeneral(n int) []domain.Election {
	general := GeneralElections()
	sort.SliceStable(general, func(i, j int) bool {
		return general[i].Date > general[j].Date
	})
	if n < len(general) {
		general = general[:n]
	}
	return general
}

// bulgarianMonths maps zero-padded month numbers to Bulgarian month names
var bulgarianMonths = map[string]string{
	"01": "Януари", "02": "Февруари", "03": "Март", "04": "Април",
	"05": "Май", "06": "Юни", "07": "Юли", "08": "Август",
	"09": "Септември", "10": "Октомври", "11": "Ноември", "12": "Декември",
}

// fileSuffix is the dataset file naming token for an election type
func fileSuffix(t domain.ElectionType) string {
	if t == domain.TypeEuropean {
		return "ep"
	}
	return "ns"
}

// splitID separates an election ID into its date and file suffix parts
func splitID(electionID string) (date, suffix string) {
	date, suffix = electionID, "ns"
	if i := strings.LastIndex(electionID, "-"); i >= 0 {
		if tail := electionID[i+1:]; tail == "ns" || tail == "ep" {
			date, suffix = electionID[:i], tail
		}
	}
	return date, suffix
}

// FormatElectionDate renders an election ID as a Bulgarian date string,
// e.g. "27 Октомври 2024". The two 2024-06-09 elections carry a
// disambiguating suffix.
func FormatElectionDate(electionID string) string {
	date, suffix := splitID(electionID)

	parts := strings.SplitN(date, "-", 3)
	if len(parts) != 3 {
		return electionID
	}
	year, month, day := parts[0], parts[1], parts[2]

	monthName, ok := bulgarianMonths[month]
	if !ok {
		monthName = month
	}

	tail := ""
	if suffix == "ep" {
		tail = " (ЕП)"
	} else if date == "2024-06-09" {
		tail = " (НС)"
	}

	return day + " " + monthName + " " + year + tail
}
