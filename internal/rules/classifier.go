package rules

import (
	"taxbook/internal/logging"
	"taxbook/internal/models"
)

// Classifier evaluates the loaded rule set against transactions.
type Classifier struct {
	rules  []Rule
	logger logging.Logger
}

// NewClassifier creates a classifier over an ordered rule list.
func NewClassifier(rules []Rule, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Classifier{rules: rules, logger: logger}
}

// Classify evaluates rules in document order and returns the first match.
// Transactions matching no rule fall back to Unclassified with a manual
// booking type, so nothing silently drops out of the books.
func (c *Classifier) Classify(tx models.Transaction) models.Classification {
	for _, rule := range c.rules {
		if rule.Matches(tx) {
			return models.Classification{
				Category:        rule.CategoryName,
				TransactionType: rule.TransactionType,
				DualEntry:       rule.DualEntry,
			}
		}
	}

	fallbackType := models.TypeManualDR
	if tx.IsDebit() {
		fallbackType = models.TypeManualCR
	}
	c.logger.Debug("No rule matched transaction",
		logging.Field{Key: "description", Value: tx.Description},
		logging.Field{Key: "amount", Value: tx.Amount.String()})
	return models.Classification{
		Category:        models.CategoryUnclassified,
		TransactionType: fallbackType,
	}
}

// ClassifyAll classifies a batch, pairing each transaction with its result.
func (c *Classifier) ClassifyAll(txs []models.Transaction) []models.Classification {
	out := make([]models.Classification, len(txs))
	for i, tx := range txs {
		out[i] = c.Classify(tx)
	}
	return out
}
