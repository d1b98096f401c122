package domain

import "time"

// TxStatus is the document status of a transaction. The literals are stored
// verbatim and surfaced to clients unchanged.
type TxStatus string

const (
	StatusNoDoc   TxStatus = "No Doc"
	StatusPending TxStatus = "Pending"
	StatusDone    TxStatus = "Done"
)

// IsValid reports whether the status is one of the known literals.
func (s TxStatus) IsValid() bool {
	switch s {
	case StatusNoDoc, StatusPending, StatusDone:
		return true
	}
	return false
}

// Transaction is one timed unit of work performed by an agent.
//
// AgentName and DocType are denormalized labels, not foreign keys: renaming
// or deleting the roster entry leaves historical records untouched, and
// aggregation matches by the stored string. Times are local "HH:MM" strings;
// Date is ISO "YYYY-MM-DD" and Month is derived from it at start.
type Transaction struct {
	ID             string
	WorkspaceEmail string
	AgentName      string
	Month          string
	Date           string
	TxID           string
	DocType        string
	StartTime      string
	EndTime        *string
	TATMinutes     int
	TATDecimal     float64
	TATFormatted   string
	Status         TxStatus
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOpen reports whether the transaction has not been ended yet.
func (t *Transaction) IsOpen() bool {
	return t.EndTime == nil
}
