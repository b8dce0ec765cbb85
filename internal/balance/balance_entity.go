package balance

import "time"

// LeaveBalance is one employee's allocation for one year. used/remaining only
// move through ApplyDeduction (one guarded update per approved request) and
// the HR grant upsert.
type LeaveBalance struct {
	ID            string
	EmployeeID    string
	Year          int
	TotalDays     int
	UsedDays      int
	RemainingDays int
	AdjustedBy    *string
	AdjustedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
