package notification

import "time"

type Response struct {
	ID             string  `json:"id"`
	LeaveRequestID string  `json:"leave_request_id"`
	Title          string  `json:"title"`
	Body           string  `json:"body"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
	ReadAt         *string `json:"read_at,omitempty"`
}

func ToResponse(n Notification) Response {
	resp := Response{
		ID:             n.ID,
		LeaveRequestID: n.LeaveRequestID,
		Title:          n.Title,
		Body:           n.Body,
		Status:         n.Status,
		CreatedAt:      n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		v := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &v
	}
	return resp
}

func ToListResponse(notifications []Notification) []Response {
	out := make([]Response, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, ToResponse(n))
	}
	return out
}
