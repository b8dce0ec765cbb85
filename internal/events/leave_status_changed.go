package events

import "time"

const LeaveWorkflowStatusTopic = "leave.workflow.status.v1"

const (
	EventTypeRequestEnqueued = "leave_request.enqueued"
	EventTypeStatusChanged   = "leave_request.status_changed"
)

// LeaveStatusChangedEvent is published through the transactional outbox for
// every status transition. EventID is the outbox row id so consumers can
// deduplicate under at-least-once delivery.
type LeaveStatusChangedEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id"` // correlation id
	LeaveRequestID string    `json:"leave_request_id"`
	EmployeeID     string    `json:"employee_id"`
	OldStatus      string    `json:"old_status"`
	NewStatus      string    `json:"new_status"`
	DecidedBy      string    `json:"decided_by,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
