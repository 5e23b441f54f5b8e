package handlers

import (
	"log/slog"
	"net/http"

	stderrors "errors"

	"budget-engine/internal/dto"
	"budget-engine/internal/errors"
	"budget-engine/internal/models"
	"budget-engine/internal/services"

	"github.com/labstack/echo/v4"
)

// PipelineHandler handles transaction batch processing requests
type PipelineHandler struct {
	pipeline services.PipelineServiceInterface
	logger   *slog.Logger
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(pipeline services.PipelineServiceInterface, logger *slog.Logger) *PipelineHandler {
	return &PipelineHandler{pipeline: pipeline, logger: logger}
}

// ProcessBatch runs a batch of raw provider transactions through the full
// processing pipeline and returns the normalized, flagged transactions
func (h *PipelineHandler) ProcessBatch(c echo.Context) error {
	var req dto.ProcessBatchRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	raw := make([]models.RawTransaction, 0, len(req.Transactions))
	for i := range req.Transactions {
		raw = append(raw, req.Transactions[i].ToModel())
	}

	result, err := h.pipeline.Process(c.Request().Context(), req.UserID, raw)
	if err != nil {
		if stderrors.Is(err, services.ErrEmptyBatch) {
			return SendError(c, errors.TransactionBatchEmpty)
		}
		h.logger.Error("pipeline processing failed", "user_id", req.UserID, "error", err)
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

	return c.JSON(http.StatusOK, dto.ProcessBatchResponse{
		Transactions: result.Transactions,
		Errors:       recordErrors,
		Detections:   result.Detections,
		Accepted:     result.Accepted,
		Rejected:     result.Rejected,
		Duplicates:   result.Duplicates,
		Transfers:    result.Transfers,
		DurationMs:   result.Duration.Milliseconds(),
	})
}
