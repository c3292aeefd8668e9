package services

import "errors"

// Election service errors. These mark caller mistakes, distinct from the
// valid-empty results that missing data produces.
var (
	// ErrUnknownElection indicates the election ID is not in the
	// reference list
	ErrUnknownElection = errors.New("unknown election id")

	// ErrInvalidRegionType indicates the region type is neither
	// settlement nor municipality
	ErrInvalidRegionType = errors.New("invalid region type")

	// ErrMissingRegionID indicates a region lookup without a region ID
	ErrMissingRegionID = errors.New("region id is required")
)
