package dto

import "budget-engine/internal/models"

// BudgetRefreshRequest carries a raw batch plus the budget period it should
// be rolled up into
type BudgetRefreshRequest struct {
	UserID       string                  `json:"user_id" validate:"required"`
	Period       string                  `json:"period" validate:"required,budget_period"`
	Transactions []RawTransactionRequest `json:"transactions" validate:"required,min=1,dive"`
}

// BudgetRefreshResponse reports the rolled-up summary together with the
// pipeline outcome for the batch that produced it
type BudgetRefreshResponse struct {
	Summary    *models.BudgetSummary    `json:"summary"`
	Errors     []RecordErrorResponse    `json:"errors,omitempty"`
	Detections *models.DetectionSummary `json:"detections,omitempty"`
	Accepted   int                      `json:"accepted"`
	Rejected   int                      `json:"rejected"`
	Duplicates int                      `json:"duplicates"`
	Transfers  int                      `json:"transfers"`
}

// ConfirmDuplicateRequest carries the path parameter for confirming a
// duplicate subscription candidate
type ConfirmDuplicateRequest struct {
	ID string `param:"id" validate:"required,detection_id"`
}

// ListDetectionsRequest carries the query parameters for listing detections
type ListDetectionsRequest struct {
	UserID string `query:"user_id" validate:"required"`
}
