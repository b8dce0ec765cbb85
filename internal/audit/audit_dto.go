package audit

import (
	"encoding/json"
	"time"
)

type EntryResponse struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actor_id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	OldValue   json.RawMessage `json:"old_value"`
	NewValue   json.RawMessage `json:"new_value"`
	RequestID  string          `json:"request_id,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

func ToResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		ActorID:    e.ActorID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		OldValue:   json.RawMessage(e.OldValue),
		NewValue:   json.RawMessage(e.NewValue),
		RequestID:  e.RequestID,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}

func ToListResponse(entries []Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToResponse(e))
	}
	return out
}
