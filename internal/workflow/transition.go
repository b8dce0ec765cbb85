package workflow

import (
	"fmt"

	"github.com/Amserna/admin/internal/approval"
	"github.com/Amserna/admin/internal/request"
	workflowerrors "github.com/Amserna/admin/internal/workflow/errors"
)

// Next computes the status a request moves to when a decision of the given
// kind is recorded at the given level. Pure; no side effects.
//
// The role must own the current status: a decision routed to the wrong level
// is an invalid transition, not an authorization failure (authorization is a
// property of the actor, the transition table only knows the chain).
//
// The shape of the chain comes from approval.Levels: consultative levels
// accept either opinion and always advance, blocking levels accept
// APPROVED/REJECTED where REJECTED closes the request. APPROVED past the
// last level is the terminal approval.
func Next(current request.Status, kind approval.DecisionKind, role approval.LevelRole) (request.Status, error) {
	owner, ok := current.LevelRole()
	if !ok || owner != role {
		return "", invalidTransition(current, kind, role)
	}
	level, _ := approval.LevelByRole(role)

	if level.Consultative {
		if !kind.IsOpinion() {
			return "", invalidTransition(current, kind, role)
		}
		return statusAfter(level), nil
	}

	switch kind {
	case approval.DecisionApproved:
		return statusAfter(level), nil
	case approval.DecisionRejected:
		return request.StatusRejected, nil
	}
	return "", invalidTransition(current, kind, role)
}

// statusAfter is the pending status of the next level in rank order, or the
// terminal approval when the chain is exhausted.
func statusAfter(level approval.Level) request.Status {
	next, ok := approval.LevelByRank(level.Rank + 1)
	if !ok {
		return request.StatusApproved
	}
	status, _ := request.StatusForLevel(next.Role)
	return status
}

func invalidTransition(current request.Status, kind approval.DecisionKind, role approval.LevelRole) error {
	return fmt.Errorf("no transition from %s for %s at %s: %w",
		current, kind, role, workflowerrors.ErrInvalidTransition)
}
