package domain

import "time"

// ElectionType distinguishes the kinds of elections the dataset carries
type ElectionType string

const (
	// TypeGeneral is a National Assembly election
	TypeGeneral ElectionType = "general"
	// TypeEuropean is a European Parliament election
	TypeEuropean ElectionType = "european"
)

// IsValid checks if the election type is one of the known kinds
func (t ElectionType) IsValid() bool {
	return t == TypeGeneral || t == TypeEuropean
}

// Election is one entry of the immutable election reference list
type Election struct {
	ID   string       `json:"id"`
	Date string       `json:"date"` // ISO date, e.g. "2024-10-27"
	Type ElectionType `json:"type"`
}

// Time parses the election date. Returns the zero time for malformed dates.
func (e Election) Time() time.Time {
	t, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ValueKind tags the type a raw cell was coerced to at parse time
type ValueKind int

const (
	// KindAbsent marks a blank cell
	KindAbsent ValueKind = iota
	// KindInt marks an integer cell
	KindInt
	// KindFloat marks a floating-point cell
	KindFloat
	// KindText marks a cell that did not parse as a number
	KindText
)

// Value is a single raw cell: integer, float, text, or absent.
// The kind is decided once by the CSV parsing layer; consumers never
// re-parse strings.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Text  string
}

// IntValue wraps an integer cell
func IntValue(v int64) Value { return Value{Kind: KindInt, Int: v} }

// FloatValue wraps a floating-point cell
func FloatValue(v float64) Value { return Value{Kind: KindFloat, Float: v} }

// TextValue wraps a text cell
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// AbsentValue marks a blank cell
func AbsentValue() Value { return Value{Kind: KindAbsent} }

// IsNumeric reports whether the cell holds an integer or float
func (v Value) IsNumeric() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

// Number returns the cell as a float64 and whether it was numeric
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	default:
		return 0, false
	}
}

// IntOr returns the cell as an integer, or def when not numeric.
// Float cells are truncated.
func (v Value) IntOr(def int64) int64 {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindFloat:
		return int64(v.Float)
	default:
		return def
	}
}

// RawRow is one region's raw tally for one election, keyed by column name.
// Party columns vary by election; there is no fixed schema.
type RawRow map[string]Value
