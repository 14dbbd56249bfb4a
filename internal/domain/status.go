package domain

import "strings"

// StockStatus is the coverage band of a component: how its weeks of cover
// compare to its supplier lead time.
type StockStatus string

const (
	StatusCritical StockStatus = "critical"
	StatusWarning  StockStatus = "warning"
	StatusOK       StockStatus = "ok"
)

var statusPriorities = map[StockStatus]int{
	StatusCritical: 1,
	StatusWarning:  2,
	StatusOK:       3,
}

// Priority returns the reorder urgency rank for a status, lower is more
// urgent. Unknown statuses sort last.
func (s StockStatus) Priority() int {
	if p, ok := statusPriorities[s]; ok {
		return p
	}

	return len(statusPriorities) + 1
}

// Valid reports whether s is one of the recognized coverage bands.
func (s StockStatus) Valid() bool {
	_, ok := statusPriorities[s]

	return ok
}

// ParseStockStatus returns the status for a given label (case-insensitive).
func ParseStockStatus(label string) (StockStatus, bool) {
	s := StockStatus(strings.ToLower(strings.TrimSpace(label)))
	if s.Valid() {
		return s, true
	}

	return "", false
}
