package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// singleton instance of the validator
var instance *Validator

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("currency_code", validateCurrencyCode)
	_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("category_key", validateCategoryKey)
	_ = v.RegisterValidation("detection_id", validateDetectionID)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Custom validation functions

// validateCurrencyCode validates that a currency is a three-letter uppercase ISO 4217 code
func validateCurrencyCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if code == "" {
		return false
	}

	matched, _ := regexp.MatchString(`^[A-Z]{3}$`, code)
	return matched
}

// validateBudgetPeriod validates that a period follows the YYYY-MM format
func validateBudgetPeriod(fl validator.FieldLevel) bool {
	period := fl.Field().String()
	if period == "" {
		return false
	}

	matched, _ := regexp.MatchString(`^\d{4}-(0[1-9]|1[0-2])$`, period)
	return matched
}

// validateTransactionType validates that transaction type is one of the allowed types
func validateTransactionType(fl validator.FieldLevel) bool {
	txType := strings.ToLower(fl.Field().String())
	validTypes := map[string]bool{
		"credit": true,
		"debit":  true,
	}
	return validTypes[txType]
}

// validateCategoryKey validates that a category key is lowercase snake_case
func validateCategoryKey(fl validator.FieldLevel) bool {
	key := fl.Field().String()
	if key == "" {
		return false
	}

	matched, _ := regexp.MatchString(`^[a-z][a-z0-9_]*$`, key)
	return matched
}

// validateDetectionID validates that a detection identifier is a valid UUID
func validateDetectionID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if id == "" {
		return false
	}

	matched, _ := regexp.MatchString(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, id)
	return matched
}
