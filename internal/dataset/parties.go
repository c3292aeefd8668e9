package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"izboricli/pkg/contracts/domain"
)

// PartyColor derives a deterministic HSL color from a party name. The hash
// mirrors the JavaScript djb2 variant used by the frontend so both sides
// render the same hue for the same party.
func PartyColor(name string) string {
	var hash int32
	for _, r := range name {
		hash = int32(r) + (hash << 5) - hash
	}
	hue := hash % 360
	if hue < 0 {
		hue = -hue
	}
	return fmt.Sprintf("hsl(%d, 70%%, 45%%)", hue)
}

// ParseParties reads the semicolon-delimited parties metadata stream into
// a map keyed by party name. Rows without a party name are skipped.
func ParseParties(r io.Reader) (map[string]domain.Party, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return map[string]domain.Party{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	nameIdx, labelIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "party":
			nameIdx = i
		case "party label":
			labelIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("parties metadata missing %q column", "party")
	}

	parties := make(map[string]domain.Party)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if nameIdx >= len(record) {
			continue
		}

		name := strings.TrimSpace(record[nameIdx])
		if name == "" {
			continue
		}

		label := name
		if labelIdx >= 0 && labelIdx < len(record) {
			if l := strings.TrimSpace(record[labelIdx]); l != "" {
				label = l
			}
		}

		parties[name] = domain.Party{
			Name:  name,
			Label: label,
			Color: PartyColor(name),
		}
	}

	return parties, nil
}

// LoadParties reads parties.csv from the data directory. A missing file
// yields an empty map, matching the missing-data policy of the loader.
func LoadParties(dataDir string) (map[string]domain.Party, error) {
	f, err := os.Open(filepath.Join(dataDir, "parties.csv"))
	if os.IsNotExist(err) {
		return map[string]domain.Party{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open parties metadata: %w", err)
	}
	defer f.Close()

	return ParseParties(f)
}
