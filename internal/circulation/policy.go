package circulation

import "time"

const (
	// LoanPeriod is added to the issue time to get the due date
	LoanPeriod = 3 * 24 * time.Hour
	// FineRatePerDay is charged for every full day past the due date
	FineRatePerDay = 1

	day = 24 * time.Hour
)

// DueDate returns the due date for a book issued at issuedAt
func DueDate(issuedAt time.Time) time.Time {
	return issuedAt.Add(LoanPeriod)
}

// DaysOverdue counts full days between dueAt and now, truncated toward zero.
// It is 0 when now is not after dueAt.
func DaysOverdue(dueAt, now time.Time) int {
	if !now.After(dueAt) {
		return 0
	}
	return int(now.Sub(dueAt) / day)
}

// FineFor is the fine owed for a book due at dueAt when returned at now
func FineFor(dueAt, now time.Time) int {
	return DaysOverdue(dueAt, now) * FineRatePerDay
}
