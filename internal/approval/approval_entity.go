package approval

import "time"

// DecisionKind is the closed set of decisions an approver can record.
type DecisionKind string

const (
	DecisionApproved        DecisionKind = "APPROVED"
	DecisionRejected        DecisionKind = "REJECTED"
	DecisionOpinionPositive DecisionKind = "OPINION_POSITIVE"
	DecisionOpinionNegative DecisionKind = "OPINION_NEGATIVE"
)

func (d DecisionKind) Valid() bool {
	switch d {
	case DecisionApproved, DecisionRejected, DecisionOpinionPositive, DecisionOpinionNegative:
		return true
	}
	return false
}

// IsOpinion reports whether the decision is consultative (recorded, never
// blocking).
func (d DecisionKind) IsOpinion() bool {
	return d == DecisionOpinionPositive || d == DecisionOpinionNegative
}

// LevelRole is the closed set of roles that own an approval level.
type LevelRole string

const (
	RoleServiceHead LevelRole = "SERVICE_HEAD"
	RoleHierarchy   LevelRole = "HIERARCHY"
	RoleDGA         LevelRole = "DGA"
	RoleDG          LevelRole = "DG"
	RoleHR          LevelRole = "HR"
)

// Level is one step of the approval chain. The chain is static reference
// data; the role code doubles as the level identity.
type Level struct {
	Role         LevelRole
	Rank         int
	Consultative bool
}

// Levels is the full chain in traversal order.
var Levels = []Level{
	{Role: RoleServiceHead, Rank: 1, Consultative: false},
	{Role: RoleHierarchy, Rank: 2, Consultative: false},
	{Role: RoleDGA, Rank: 3, Consultative: true},
	{Role: RoleDG, Rank: 4, Consultative: true},
	{Role: RoleHR, Rank: 5, Consultative: false},
}

func LevelByRole(role LevelRole) (Level, bool) {
	for _, l := range Levels {
		if l.Role == role {
			return l, true
		}
	}
	return Level{}, false
}

func LevelByRank(rank int) (Level, bool) {
	for _, l := range Levels {
		if l.Rank == rank {
			return l, true
		}
	}
	return Level{}, false
}

// Approval is one recorded vote. Rows are append-only; there is no update or
// delete path anywhere in this package.
type Approval struct {
	ID         string
	RequestID  string
	LevelCode  LevelRole
	LevelRank  int
	ApproverID string
	Decision   DecisionKind
	Comment    string
	DecidedAt  time.Time
}
