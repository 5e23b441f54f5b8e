package handlers

import (
	"net/http"
	"time"

	"budget-engine/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints
// These endpoints should only be available in development environments
type DevHandler struct {
	generator services.TransactionGeneratorInterface
}

// NewDevHandler creates a new development handler
func NewDevHandler(generator services.TransactionGeneratorInterface) *DevHandler {
	return &DevHandler{generator: generator}
}

// GenerateTestData produces a synthetic raw transaction batch for an account,
// suitable for feeding straight into the processing pipeline.
//
// Method: POST /api/v1/dev/accounts/:id/generate-test-data
// Environment: Development only
//
// Query parameters:
//   - count: Number of transactions to generate (default: 100, max: 1000)
//   - days: Number of days of history to generate (default: 30, max: 365)
//   - transfer_account: When set, interleave same-day transfer pairs with
//     this account as the other leg
func (h *DevHandler) GenerateTestData(c echo.Context) error {
	accountID := c.Param("id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account ID is required")
	}

	count := getIntQuery(c, "count", 100)
	if count < 1 || count > 1000 {
		return echo.NewHTTPError(http.StatusBadRequest, "count must be between 1 and 1000")
	}
	days := getIntQuery(c, "days", 30)
	if days < 1 || days > 365 {
		return echo.NewHTTPError(http.StatusBadRequest, "days must be between 1 and 365")
	}

	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -days)

	transactions := h.generator.GenerateTransactions(accountID, startDate, endDate, count)

	if other := c.QueryParam("transfer_account"); other != "" {
		pairs := h.generator.GenerateTransferPairs(accountID, other, startDate, count/10+1)
		transactions = append(transactions, pairs...)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"account_id":   accountID,
		"count":        len(transactions),
		"transactions": transactions,
	})
}

// GenerateSubscriptions produces a monthly subscription history for an account
//
// Method: POST /api/v1/dev/accounts/:id/generate-subscriptions
// Environment: Development only
func (h *DevHandler) GenerateSubscriptions(c echo.Context) error {
	accountID := c.Param("id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account ID is required")
	}

	months := getIntQuery(c, "months", 3)
	if months < 1 || months > 24 {
		return echo.NewHTTPError(http.StatusBadRequest, "months must be between 1 and 24")
	}

	startDate := time.Now().UTC().AddDate(0, -months, 0)
	transactions := h.generator.GenerateSubscriptions(accountID, startDate, months)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"account_id":   accountID,
		"count":        len(transactions),
		"transactions": transactions,
	})
}
