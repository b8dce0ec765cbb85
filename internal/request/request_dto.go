package request

import (
	"time"

	"github.com/Amserna/admin/internal/approval"
)

type CreateRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=ANNUAL SICK UNPAID"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"max=500"`
}

type Response struct {
	ID             string  `json:"id"`
	RequestNumber  string  `json:"request_number"`
	EmployeeID     string  `json:"employee_id"`
	LeaveType      string  `json:"leave_type"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	DaysRequested  int     `json:"days_requested"`
	Reason         string  `json:"reason,omitempty"`
	Status         string  `json:"status"`
	CurrentLevel   int     `json:"current_level"`
	Version        int     `json:"version"`
	FinalDecidedBy *string `json:"final_decided_by,omitempty"`
	FinalDecidedAt *string `json:"final_decided_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// DetailResponse is the single-request view: the request plus its full
// approval history.
type DetailResponse struct {
	Request Response            `json:"request"`
	History []approval.Response `json:"history"`
}

func ToResponse(lr LeaveRequest) Response {
	resp := Response{
		ID:            lr.ID,
		RequestNumber: lr.RequestNumber,
		EmployeeID:    lr.EmployeeID,
		LeaveType:     lr.LeaveType,
		StartDate:     lr.StartDate.Format("2006-01-02"),
		EndDate:       lr.EndDate.Format("2006-01-02"),
		DaysRequested: lr.DaysRequested,
		Reason:        lr.Reason,
		Status:        string(lr.Status),
		CurrentLevel:  lr.CurrentLevel,
		Version:       lr.Version,
		CreatedAt:     lr.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     lr.UpdatedAt.Format(time.RFC3339),
	}
	resp.FinalDecidedBy = lr.FinalDecidedBy
	if lr.FinalDecidedAt != nil {
		v := lr.FinalDecidedAt.Format(time.RFC3339)
		resp.FinalDecidedAt = &v
	}
	return resp
}

func ToListResponse(requests []LeaveRequest) []Response {
	resp := make([]Response, len(requests))
	for i, lr := range requests {
		resp[i] = ToResponse(lr)
	}
	return resp
}
