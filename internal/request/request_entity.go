package request

import (
	"time"

	"github.com/Amserna/admin/internal/approval"
)

// Status is the closed set of workflow states a leave request moves through.
type Status string

const (
	StatusCreated            Status = "CREATED"
	StatusPendingServiceHead Status = "PENDING_SERVICE_HEAD"
	StatusPendingHierarchy   Status = "PENDING_HIERARCHY"
	StatusPendingDGAOpinion  Status = "PENDING_DGA_OPINION"
	StatusPendingDGOpinion   Status = "PENDING_DG_OPINION"
	StatusPendingHRDecision  Status = "PENDING_HR_DECISION"
	StatusApproved           Status = "APPROVED"
	StatusRejected           Status = "REJECTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusPendingServiceHead, StatusPendingHierarchy,
		StatusPendingDGAOpinion, StatusPendingDGOpinion, StatusPendingHRDecision,
		StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further decision may touch the request.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsPending reports whether the request sits at an approval level.
func (s Status) IsPending() bool {
	return s.Valid() && s != StatusCreated && !s.IsTerminal()
}

// LevelRole returns the role that owns the pending status.
func (s Status) LevelRole() (approval.LevelRole, bool) {
	switch s {
	case StatusPendingServiceHead:
		return approval.RoleServiceHead, true
	case StatusPendingHierarchy:
		return approval.RoleHierarchy, true
	case StatusPendingDGAOpinion:
		return approval.RoleDGA, true
	case StatusPendingDGOpinion:
		return approval.RoleDG, true
	case StatusPendingHRDecision:
		return approval.RoleHR, true
	}
	return "", false
}

// StatusForLevel is the inverse of LevelRole.
func StatusForLevel(role approval.LevelRole) (Status, bool) {
	switch role {
	case approval.RoleServiceHead:
		return StatusPendingServiceHead, true
	case approval.RoleHierarchy:
		return StatusPendingHierarchy, true
	case approval.RoleDGA:
		return StatusPendingDGAOpinion, true
	case approval.RoleDG:
		return StatusPendingDGOpinion, true
	case approval.RoleHR:
		return StatusPendingHRDecision, true
	}
	return "", false
}

type LeaveRequest struct {
	ID            string
	RequestNumber string
	EmployeeID    string
	LeaveType     string
	StartDate     time.Time
	EndDate       time.Time
	DaysRequested int
	Reason        string

	Status       Status
	CurrentLevel int // rank of the pending level, 0 while CREATED
	Version      int

	FinalDecidedBy *string
	FinalDecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
