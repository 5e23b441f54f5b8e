package handlers

import (
	"log/slog"
	"net/http"

	stderrors "errors"

	"budget-engine/internal/dto"
	"budget-engine/internal/errors"
	"budget-engine/internal/stores"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DetectionHandler handles cross-account detection queries and confirmations
type DetectionHandler struct {
	detections stores.DetectionStoreInterface
	logger     *slog.Logger
}

// NewDetectionHandler creates a new detection handler
func NewDetectionHandler(detections stores.DetectionStoreInterface, logger *slog.Logger) *DetectionHandler {
	return &DetectionHandler{detections: detections, logger: logger}
}

// ListDuplicates returns the duplicate subscription candidates recorded for a user
func (h *DetectionHandler) ListDuplicates(c echo.Context) error {
	var req dto.ListDetectionsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid query parameters"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	records, err := h.detections.ListDuplicateSubscriptions(c.Request().Context(), req.UserID)
	if err != nil {
		h.logger.Error("failed to list duplicate subscriptions", "user_id", req.UserID, "error", err)
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"duplicates": records,
		"count":      len(records),
	})
}

// ListTransfers returns the cross-account transfer pairs recorded for a user
func (h *DetectionHandler) ListTransfers(c echo.Context) error {
	var req dto.ListDetectionsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid query parameters"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	records, err := h.detections.ListTransferPairs(c.Request().Context(), req.UserID)
	if err != nil {
		h.logger.Error("failed to list transfer pairs", "user_id", req.UserID, "error", err)
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"transfers": records,
		"count":     len(records),
	})
}

// ConfirmDuplicate marks a duplicate subscription candidate as user confirmed
func (h *DetectionHandler) ConfirmDuplicate(c echo.Context) error {
	var req dto.ConfirmDuplicateRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.DetectionInvalidID)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	detectionID, err := uuid.Parse(req.ID)
	if err != nil {
		return SendError(c, errors.DetectionInvalidID)
	}

	record, err := h.detections.ConfirmDuplicateSubscription(c.Request().Context(), detectionID)
	if err != nil {
		switch {
		case stderrors.Is(err, stores.ErrDetectionNotFound):
			return SendError(c, errors.DetectionNotFound)
		case stderrors.Is(err, stores.ErrDetectionAlreadyConfirmed):
			return SendError(c, errors.DetectionAlreadyConfirmed)
		default:
			h.logger.Error("failed to confirm duplicate subscription", "detection_id", req.ID, "error", err)
			return SendSystemError(c, err)
		}
	}

	return c.JSON(http.StatusOK, record)
}
