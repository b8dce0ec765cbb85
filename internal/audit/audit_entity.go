package audit

import "time"

// Actions recorded by the workflow engine.
const (
	ActionRequestEnqueued  = "LEAVE_REQUEST_ENQUEUED"
	ActionDecisionRecorded = "LEAVE_DECISION_RECORDED"
)

// Entry is one append-only audit record. Old/new values are JSON snapshots
// taken inside the same transaction as the mutation they describe.
type Entry struct {
	ID         string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	OldValue   []byte
	NewValue   []byte
	RequestID  string // correlation id from the incoming request context
	CreatedAt  time.Time
}
