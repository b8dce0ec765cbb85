package balance

import "time"

type GrantRequest struct {
	Year      int `json:"year" binding:"required,min=2000,max=2100"`
	TotalDays int `json:"total_days" binding:"required,min=0,max=366"`
}

type Response struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	Year          int     `json:"year"`
	TotalDays     int     `json:"total_days"`
	UsedDays      int     `json:"used_days"`
	RemainingDays int     `json:"remaining_days"`
	AdjustedBy    *string `json:"adjusted_by,omitempty"`
	AdjustedAt    *string `json:"adjusted_at,omitempty"`
}

func ToResponse(b LeaveBalance) Response {
	resp := Response{
		ID:            b.ID,
		EmployeeID:    b.EmployeeID,
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays,
		AdjustedBy:    b.AdjustedBy,
	}
	if b.AdjustedAt != nil {
		v := b.AdjustedAt.Format(time.RFC3339)
		resp.AdjustedAt = &v
	}
	return resp
}
