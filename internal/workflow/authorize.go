package workflow

import (
	"fmt"

	"github.com/Amserna/admin/internal/approval"
	"github.com/Amserna/admin/internal/directory"
	workflowerrors "github.com/Amserna/admin/internal/workflow/errors"
)

// authorizeDecision is the pure part of the authorization check: the actor
// must exist, be active and hold the role owning the current level. The
// HIERARCHY management-chain membership needs a directory query and is
// enforced by the service around this predicate.
func authorizeDecision(actor *directory.Actor, level approval.Level) error {
	if actor == nil {
		return fmt.Errorf("actor not found in directory: %w", workflowerrors.ErrUnauthorizedActor)
	}
	if !actor.Active {
		return fmt.Errorf("actor %s is inactive: %w", actor.ID, workflowerrors.ErrUnauthorizedActor)
	}
	if actor.RoleCode != string(level.Role) {
		return fmt.Errorf("actor %s holds %s, level requires %s: %w",
			actor.ID, actor.RoleCode, level.Role, workflowerrors.ErrUnauthorizedActor)
	}
	return nil
}
