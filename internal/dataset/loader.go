package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"izboricli/pkg/contracts/domain"
)

// Loader reads election CSV files from the data directory through a
// read-through cache keyed by (electionID, regionType). Source data is
// immutable per run, so the cache never invalidates.
type Loader struct {
	dataDir string
	logger  *slog.Logger

	mu    sync.RWMutex
	cache map[cacheKey][]domain.RawRow
	group singleflight.Group
}

type cacheKey struct {
	electionID string
	regionType domain.RegionType
}

// NewLoader creates a loader rooted at the election data directory
func NewLoader(dataDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		dataDir: dataDir,
		logger:  logger.With(slog.String("component", "dataset_loader")),
		cache:   make(map[cacheKey][]domain.RawRow),
	}
}

// FileName resolves the dataset file for an election and region type,
// e.g. "2024-10-27ns.csv" for settlements, "2024-10-27ns_mun.csv" for
// municipalities.
func FileName(election domain.Election, rt domain.RegionType) string {
	date, _ := splitID(election.ID)
	name := date + fileSuffix(election.Type)
	if rt == domain.RegionMunicipality {
		name += "_mun"
	}
	return name + ".csv"
}

// Rows returns the raw rows for one election at the given region level.
// A missing data file is a valid empty result, not an error; downstream
// consumers treat it as a zero-weighted state.
func (l *Loader) Rows(election domain.Election, rt domain.RegionType) ([]domain.RawRow, error) {
	key := cacheKey{electionID: election.ID, regionType: rt}

	l.mu.RLock()
	rows, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		return rows, nil
	}

	// Fill on miss. singleflight keeps concurrent misses from parsing the
	// same file more than once; a duplicate fill would be harmless anyway
	// since entries are write-once.
	v, err, _ := l.group.Do(election.ID+"/"+string(rt), func() (interface{}, error) {
		return l.load(election, rt)
	})
	if err != nil {
		return nil, err
	}

	rows = v.([]domain.RawRow)
	l.mu.Lock()
	l.cache[key] = rows
	l.mu.Unlock()

	return rows, nil
}

func (l *Loader) load(election domain.Election, rt domain.RegionType) ([]domain.RawRow, error) {
	path := filepath.Join(l.dataDir, FileName(election, rt))

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		l.logger.Warn("election data file missing, treating as empty",
			slog.String("election_id", election.ID),
			slog.String("region_type", string(rt)),
			slog.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open election data: %w", err)
	}
	defer f.Close()

	rows, err := ParseRows(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	l.logger.Debug("loaded election data",
		slog.String("election_id", election.ID),
		slog.String("region_type", string(rt)),
		slog.Int("rows", len(rows)))

	return rows, nil
}
