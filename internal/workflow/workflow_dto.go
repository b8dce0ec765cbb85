package workflow

// DecideRequest is the body of POST /requests/:id/decision.
type DecideRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED OPINION_POSITIVE OPINION_NEGATIVE"`
	Comment  string `json:"comment" binding:"max=500"`
}
