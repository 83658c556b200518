package expense

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrStorage marks failures of the underlying store (I/O, unavailable database).
var ErrStorage = errors.New("storage failure")

// ErrInvalidCost is returned when cost text typed by the user is not a number.
var ErrInvalidCost = errors.New("cost is not a number")

type Expense struct {
	// ID is the store's row identity, 0 until the expense has been persisted.
	ID   int64
	Name string
	Cost float64
}

// ParseCost parses the cost text field. Surrounding whitespace is ignored and
// any sign or magnitude is accepted, as long as the value is finite.
func ParseCost(text string) (float64, error) {
	cost, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCost, text)
	}
	return cost, nil
}

// costForColumn validates typed cost text and returns its value together with
// the text written to the cost column: as entered, minus surrounding whitespace.
func costForColumn(text string) (float64, string, error) {
	cost, err := ParseCost(text)
	if err != nil {
		return 0, "", err
	}
	return cost, strings.TrimSpace(text), nil
}

// costFromColumn reads a stored cost back. Text that is not a number (written
// by some other tool) reads as 0.
func costFromColumn(text string) (float64, bool) {
	cost, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	return cost, true
}
