package models

// Spending category keys assigned by the categorizer. Keys are stable
// identifiers referenced by CategorizationRule and BudgetCategory; labels
// for display live on BudgetCategory.
const (
	CategoryGroceries     = "groceries"
	CategoryTransport     = "transport"
	CategoryUtilities     = "utilities"
	CategoryEntertainment = "entertainment"
	CategoryShopping      = "shopping"
)

// UK household categories assigned only by the multi-bank detector's
// pattern pass, for transactions the keyword categorizer left blank.
const (
	CategoryCouncilTax = "council_tax"
	CategoryWater      = "water"
	CategoryEnergy     = "energy"
	CategoryBroadband  = "broadband"
	CategoryMortgage   = "mortgage"
	CategoryRent       = "rent"
	CategoryInsurance  = "insurance"
	CategoryMobile     = "mobile"
)

// Categorization confidence levels
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// AllCategories returns every category key the engine can assign
func AllCategories() []string {
	return []string{
		CategoryGroceries,
		CategoryTransport,
		CategoryUtilities,
		CategoryEntertainment,
		CategoryShopping,
		CategoryCouncilTax,
		CategoryWater,
		CategoryEnergy,
		CategoryBroadband,
		CategoryMortgage,
		CategoryRent,
		CategoryInsurance,
		CategoryMobile,
	}
}

// IsValidCategory checks if a category key is one the engine can assign.
// User-defined rules may introduce their own keys, so stores do not
// enforce this set; it covers heuristic and detector output only.
func IsValidCategory(category string) bool {
	for _, valid := range AllCategories() {
		if category == valid {
			return true
		}
	}
	return false
}
