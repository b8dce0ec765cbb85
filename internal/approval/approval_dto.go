package approval

import "time"

type Response struct {
	ID         string `json:"id"`
	RequestID  string `json:"request_id"`
	LevelCode  string `json:"level_code"`
	LevelRank  int    `json:"level_rank"`
	ApproverID string `json:"approver_id"`
	Decision   string `json:"decision"`
	Comment    string `json:"comment,omitempty"`
	DecidedAt  string `json:"decided_at"`
}

func ToResponse(a Approval) Response {
	return Response{
		ID:         a.ID,
		RequestID:  a.RequestID,
		LevelCode:  string(a.LevelCode),
		LevelRank:  a.LevelRank,
		ApproverID: a.ApproverID,
		Decision:   string(a.Decision),
		Comment:    a.Comment,
		DecidedAt:  a.DecidedAt.Format(time.RFC3339),
	}
}

func ToResponses(history []Approval) []Response {
	out := make([]Response, 0, len(history))
	for _, a := range history {
		out = append(out, ToResponse(a))
	}
	return out
}
