package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"budget-engine/internal/models"
	"budget-engine/internal/stores"
)

type keywordPattern struct {
	keywords []string
	category string
}

type categorizerService struct {
	rules    stores.RuleStoreInterface
	keywords []keywordPattern
	logger   *slog.Logger
	metrics  MetricsRecorderInterface
}

// NewCategorizerService creates a CategorizerServiceInterface that applies
// user rules in priority order, then keyword heuristics.
func NewCategorizerService(rules stores.RuleStoreInterface, logger *slog.Logger, metrics MetricsRecorderInterface) CategorizerServiceInterface {
	return &categorizerService{
		rules:    rules,
		keywords: initKeywordPatterns(),
		logger:   logger,
		metrics:  metrics,
	}
}

func initKeywordPatterns() []keywordPattern {
	return []keywordPattern{
		{
			category: models.CategoryGroceries,
			keywords: []string{"tesco", "sainsbury", "asda", "waitrose", "morrisons", "aldi", "lidl", "restaurant", "cafe", "pizza"},
		},
		{
			category: models.CategoryTransport,
			keywords: []string{"shell", "bp", "esso", "tfl", "uber", "train", "fuel", "petrol"},
		},
		{
			category: models.CategoryUtilities,
			keywords: []string{"british gas", "edf", "bt", "virgin", "sky", "vodafone"},
		},
		{
			category: models.CategoryEntertainment,
			keywords: []string{"cinema", "netflix", "spotify", "steam", "gym"},
		},
		{
			category: models.CategoryShopping,
			keywords: []string{"amazon", "ebay", "argos", "john lewis"},
		},
	}
}

// Categorize walks each transaction through the user's rules first, lowest
// priority number first, then falls back to the keyword table. Transactions
// already flagged as transfers or duplicates are left alone. Any hit, rule
// or keyword, gets high confidence; everything else stays uncategorized with
// low confidence.
func (s *categorizerService) Categorize(ctx context.Context, userID string, txs []models.NormalizedTransaction) ([]models.NormalizedTransaction, error) {
	start := time.Now()

	rules, err := s.rules.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading categorization rules: %w", err)
	}

	ruleHits, keywordHits := 0, 0
	for i := range txs {
		if txs[i].IsTransfer || txs[i].IsDuplicate {
			continue
		}

		if category, ok := matchRules(rules, &txs[i]); ok {
			txs[i].Category = category
			txs[i].CategoryConfidence = models.ConfidenceHigh
			ruleHits++
			continue
		}

		if category, ok := s.matchKeywords(&txs[i]); ok {
			txs[i].Category = category
			txs[i].CategoryConfidence = models.ConfidenceHigh
			keywordHits++
			continue
		}

		txs[i].CategoryConfidence = models.ConfidenceLow
	}

	s.logger.Info("categorized batch",
		"user_id", userID,
		"total", len(txs),
		"rule_hits", ruleHits,
		"keyword_hits", keywordHits)
	s.metrics.RecordProcessingTime("categorize_batch", time.Since(start))

	return txs, nil
}

// matchRules returns the category of the first matching rule. Rules arrive
// pre-sorted by priority from the store.
func matchRules(rules []models.CategorizationRule, tx *models.NormalizedTransaction) (string, bool) {
	for i := range rules {
		if rules[i].Matches(tx) {
			return rules[i].CategoryKey, true
		}
	}
	return "", false
}

func (s *categorizerService) matchKeywords(tx *models.NormalizedTransaction) (string, bool) {
	haystack := strings.ToLower(tx.Merchant + " " + tx.Description)
	words := tokenize(haystack)

	for _, pattern := range s.keywords {
		for _, keyword := range pattern.keywords {
			if matchesKeyword(haystack, words, keyword) {
				return pattern.category, true
			}
		}
	}
	return "", false
}

// matchesKeyword decides containment per keyword length. Keywords of three
// characters or fewer ("bp", "tfl", "bt") must match a whole word, otherwise
// they fire inside longer merchant names (NETFLIX contains "tfl"). Longer
// keywords keep plain substring matching so TESCO STORES still hits "tesco".
func matchesKeyword(haystack string, words map[string]bool, keyword string) bool {
	if len(keyword) <= 3 {
		return words[keyword]
	}
	return strings.Contains(haystack, keyword)
}

func tokenize(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = true
	}
	return words
}
