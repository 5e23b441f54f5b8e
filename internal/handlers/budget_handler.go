package handlers

import (
	"log/slog"
	"net/http"
	"sync"

	stderrors "errors"

	"budget-engine/internal/dto"
	"budget-engine/internal/errors"
	"budget-engine/internal/models"
	"budget-engine/internal/services"

	"github.com/labstack/echo/v4"
)

// BudgetHandler handles budget refresh requests
type BudgetHandler struct {
	pipeline services.PipelineServiceInterface
	budget   services.BudgetServiceInterface
	logger   *slog.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(pipeline services.PipelineServiceInterface, budget services.BudgetServiceInterface, logger *slog.Logger) *BudgetHandler {
	return &BudgetHandler{
		pipeline: pipeline,
		budget:   budget,
		logger:   logger,
		inFlight: make(map[string]bool),
	}
}

func (h *BudgetHandler) acquire(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inFlight[userID] {
		return false
	}
	h.inFlight[userID] = true
	return true
}

func (h *BudgetHandler) release(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.inFlight, userID)
}

// Refresh processes a raw batch through the pipeline and rolls the accepted
// transactions up into a budget summary for the requested period. Only one
// refresh per user runs at a time.
func (h *BudgetHandler) Refresh(c echo.Context) error {
	var req dto.BudgetRefreshRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if !h.acquire(req.UserID) {
		return SendError(c, errors.BudgetRefreshBusy)
	}
	defer h.release(req.UserID)

	raw := make([]models.RawTransaction, 0, len(req.Transactions))
	for i := range req.Transactions {
		raw = append(raw, req.Transactions[i].ToModel())
	}

	result, err := h.pipeline.Process(c.Request().Context(), req.UserID, raw)
	if err != nil {
		if stderrors.Is(err, services.ErrEmptyBatch) {
			return SendError(c, errors.TransactionBatchEmpty)
		}
		h.logger.Error("budget refresh pipeline failed", "user_id", req.UserID, "error", err)
		return SendSystemError(c, err)
	}

	summary, err := h.budget.BuildSummary(c.Request().Context(), req.UserID, req.Period, result.Transactions)
	if err != nil {
		if stderrors.Is(err, services.ErrInvalidPeriod) {
			return SendError(c, errors.BudgetInvalidPeriod)
		}
		h.logger.Error("budget summary failed", "user_id", req.UserID, "period", req.Period, "error", err)
		return SendSystemError(c, err)
	}

	recordErrors := make([]dto.RecordErrorResponse, 0, len(result.Errors))
	for _, recErr := range result.Errors {
		recordErrors = append(recordErrors, dto.RecordErrorResponse{
			Index:         recErr.Index,
			TransactionID: recErr.TransactionID,
			Message:       recErr.Message,
		})
	}

	return c.JSON(http.StatusOK, dto.BudgetRefreshResponse{
		Summary:    summary,
		Errors:     recordErrors,
		Detections: result.Detections,
		Accepted:   result.Accepted,
		Rejected:   result.Rejected,
		Duplicates: result.Duplicates,
		Transfers:  result.Transfers,
	})
}
