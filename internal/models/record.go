package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether a record moves money into or out of the account.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// ParseDirection accepts "in" or "out".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionIn, DirectionOut:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown direction %q: must be %q or %q", s, DirectionIn, DirectionOut)
}

// Record represents a single money flow on the account.
type Record struct {
	// ID is the unique identifier for the record (UUID format).
	ID string `json:"id"`

	// Name is the human-readable label (e.g., "Salary", "BTC purchase").
	Name string `json:"name"`

	// Direction is "in" for inflows. Anything else is treated as an outflow.
	Direction Direction `json:"direction"`

	// Amount is the value moved, in the account currency's major unit.
	// The sign is kept as supplied.
	Amount decimal.Decimal `json:"amount"`

	// Category is a free-form grouping (e.g., "food", "crypto").
	Category string `json:"category"`

	// OccurredAt is when the money moved.
	OccurredAt time.Time `json:"occurred_at"`
}

// IsInflow reports whether the record counts towards incoming totals.
func (r Record) IsInflow() bool {
	return r.Direction == DirectionIn
}
