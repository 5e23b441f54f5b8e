package handlers

import (
	"log/slog"
	"net/http"

	stderrors "errors"

	"budget-engine/internal/dto"
	"budget-engine/internal/errors"
	"budget-engine/internal/stores"

	"github.com/labstack/echo/v4"
)

// CategoryHandler handles budget category management
type CategoryHandler struct {
	categories stores.CategoryStoreInterface
	logger     *slog.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories stores.CategoryStoreInterface, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

// List returns the user's budget categories in display order
func (h *CategoryHandler) List(c echo.Context) error {
	var req dto.ListDetectionsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid query parameters"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	categories, err := h.categories.ListByUser(c.Request().Context(), req.UserID)
	if err != nil {
		h.logger.Error("failed to list categories", "user_id", req.UserID, "error", err)
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// Create stores a new budget category
func (h *CategoryHandler) Create(c echo.Context) error {
	var req dto.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Target.IsNegative() {
		return SendError(c, errors.ValidationOutOfRange, errors.WithDetails("target must not be negative"))
	}

	category := req.ToModel()
	if err := h.categories.Create(c.Request().Context(), category); err != nil {
		h.logger.Error("failed to create category", "user_id", req.UserID, "key", req.Key, "error", err)
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, category)
}

// Update replaces a category's label, target, rollover, and display order
func (h *CategoryHandler) Update(c echo.Context) error {
	userID := c.QueryParam("user_id")
	key := c.Param("key")
	if userID == "" || key == "" {
		return SendError(c, errors.ValidationRequiredField, errors.WithDetails("user_id and key are required"))
	}

	var req dto.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Target.IsNegative() {
		return SendError(c, errors.ValidationOutOfRange, errors.WithDetails("target must not be negative"))
	}

	category, err := h.categories.GetByKey(c.Request().Context(), userID, key)
	if err != nil {
		if stderrors.Is(err, stores.ErrCategoryNotFound) {
			return SendError(c, errors.BudgetNoCategories, errors.WithMessage("Budget category not found"))
		}
		h.logger.Error("failed to load category", "user_id", userID, "key", key, "error", err)
		return SendSystemError(c, err)
	}

	category.Label = req.Label
	category.Target = req.Target
	category.Rollover = req.Rollover
	category.DisplayOrder = req.DisplayOrder

	if err := h.categories.Update(c.Request().Context(), category); err != nil {
		h.logger.Error("failed to update category", "user_id", userID, "key", key, "error", err)
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, category)
}

// Delete removes a category
func (h *CategoryHandler) Delete(c echo.Context) error {
	userID := c.QueryParam("user_id")
	key := c.Param("key")
	if userID == "" || key == "" {
		return SendError(c, errors.ValidationRequiredField, errors.WithDetails("user_id and key are required"))
	}

	if err := h.categories.Delete(c.Request().Context(), userID, key); err != nil {
		if stderrors.Is(err, stores.ErrCategoryNotFound) {
			return SendError(c, errors.BudgetNoCategories, errors.WithMessage("Budget category not found"))
		}
		h.logger.Error("failed to delete category", "user_id", userID, "key", key, "error", err)
		return SendSystemError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
