package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidPeriod ErrorCode = "VALIDATION_005"
	ValidationInvalidDate   ErrorCode = "VALIDATION_006"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionBatchEmpty     ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount  ErrorCode = "TRANSACTION_002"
	TransactionMissingAccount ErrorCode = "TRANSACTION_003"
	TransactionInvalidType    ErrorCode = "TRANSACTION_004"
)

// Budget error codes (BUDGET_*)
const (
	BudgetNoCategories  ErrorCode = "BUDGET_001"
	BudgetInvalidPeriod ErrorCode = "BUDGET_002"
	BudgetRefreshBusy   ErrorCode = "BUDGET_003"
)

// Rule error codes (RULE_*)
const (
	RuleNotFound     ErrorCode = "RULE_001"
	RuleInvalid      ErrorCode = "RULE_002"
	RuleNoMatchers   ErrorCode = "RULE_003"
)

// Detection error codes (DETECTION_*)
const (
	DetectionNotFound         ErrorCode = "DETECTION_001"
	DetectionAlreadyConfirmed ErrorCode = "DETECTION_002"
	DetectionInvalidID        ErrorCode = "DETECTION_003"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidPeriod: "Period must be in YYYY-MM format",
	ValidationInvalidDate:   "Invalid date format or range",

	// Transaction errors
	TransactionBatchEmpty:     "Transaction batch contains no records",
	TransactionInvalidAmount:  "Invalid transaction amount",
	TransactionMissingAccount: "Transaction is missing its account reference",
	TransactionInvalidType:    "Invalid transaction type",

	// Budget errors
	BudgetNoCategories:  "No budget categories are configured",
	BudgetInvalidPeriod: "Requested budget period is invalid",
	BudgetRefreshBusy:   "A budget refresh is already in progress for this user",

	// Rule errors
	RuleNotFound:   "Categorization rule not found",
	RuleInvalid:    "Categorization rule is invalid",
	RuleNoMatchers: "Categorization rule must carry at least one matcher",

	// Detection errors
	DetectionNotFound:         "Detection record not found",
	DetectionAlreadyConfirmed: "Detection record has already been confirmed",
	DetectionInvalidID:        "Invalid detection record ID format",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
