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

// RuleHandler handles categorization rule management
type RuleHandler struct {
	rules  stores.RuleStoreInterface
	logger *slog.Logger
}

// NewRuleHandler creates a new rule handler
func NewRuleHandler(rules stores.RuleStoreInterface, logger *slog.Logger) *RuleHandler {
	return &RuleHandler{rules: rules, logger: logger}
}

// List returns the user's rules ordered by priority
func (h *RuleHandler) List(c echo.Context) error {
	var req dto.ListDetectionsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid query parameters"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rules, err := h.rules.ListByUser(c.Request().Context(), req.UserID)
	if err != nil {
		h.logger.Error("failed to list rules", "user_id", req.UserID, "error", err)
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"rules": rules,
		"count": len(rules),
	})
}

// Create stores a new categorization rule
func (h *RuleHandler) Create(c echo.Context) error {
	var req dto.CreateRuleRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !req.HasMatchers() {
		return SendError(c, errors.RuleNoMatchers)
	}

	rule := req.ToModel()
	if err := h.rules.Create(c.Request().Context(), rule); err != nil {
		h.logger.Error("failed to create rule", "user_id", req.UserID, "error", err)
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, rule)
}

// Update replaces an existing rule's category, priority, and matchers
func (h *RuleHandler) Update(c echo.Context) error {
	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.RuleInvalid, errors.WithDetails("rule ID must be a valid UUID"))
	}

	var req dto.UpdateRuleRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !req.HasMatchers() {
		return SendError(c, errors.RuleNoMatchers)
	}

	rule, err := h.rules.GetByID(c.Request().Context(), ruleID)
	if err != nil {
		if stderrors.Is(err, stores.ErrRuleNotFound) {
			return SendError(c, errors.RuleNotFound)
		}
		h.logger.Error("failed to load rule", "rule_id", ruleID, "error", err)
		return SendSystemError(c, err)
	}

	rule.CategoryKey = req.CategoryKey
	rule.Priority = req.Priority
	rule.MerchantContains = req.MerchantContains
	rule.DescriptionContains = req.DescriptionContains
	rule.AmountMin = req.AmountMin
	rule.AmountMax = req.AmountMax

	if err := h.rules.Update(c.Request().Context(), rule); err != nil {
		h.logger.Error("failed to update rule", "rule_id", ruleID, "error", err)
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, rule)
}

// Delete removes a rule
func (h *RuleHandler) Delete(c echo.Context) error {
	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.RuleInvalid, errors.WithDetails("rule ID must be a valid UUID"))
	}

	if err := h.rules.Delete(c.Request().Context(), ruleID); err != nil {
		if stderrors.Is(err, stores.ErrRuleNotFound) {
			return SendError(c, errors.RuleNotFound)
		}
		h.logger.Error("failed to delete rule", "rule_id", ruleID, "error", err)
		return SendSystemError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
