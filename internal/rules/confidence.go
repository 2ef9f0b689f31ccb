package rules

import "invoice-reconciliation/internal/domain"

// Weights distributes the 100 confidence points across the three matching
// criteria.
type Weights struct {
	Identifier float64 `json:"identifier"`
	Amount     float64 `json:"amount"`
	Name       float64 `json:"name"`
}

// DefaultWeights returns the standard 50/30/20 split: identifier equality
// is the strongest signal, amount consistency next, name similarity last.
func DefaultWeights() Weights {
	return Weights{Identifier: 50, Amount: 30, Name: 20}
}

// ConfidenceCalculator combines the per-criterion evidence into a single
// 0-100 score and an acceptance verdict.
type ConfidenceCalculator struct {
	weights       Weights
	minConfidence float64
	nameThreshold float64
}

// NewConfidenceCalculator creates a calculator with the given weights,
// minimum acceptance confidence and name-similarity acceptance threshold.
func NewConfidenceCalculator(weights Weights, minConfidence, nameThreshold float64) *ConfidenceCalculator {
	return &ConfidenceCalculator{
		weights:       weights,
		minConfidence: minConfidence,
		nameThreshold: nameThreshold,
	}
}

// Confidence computes the weighted score. Amount points are only awarded
// for a Consistent outcome; Unknown scores zero, same as Inconsistent.
// Name points are linear in the similarity score.
func (c *ConfidenceCalculator) Confidence(identifierMatched bool, amounts domain.AmountConsistency, nameSimilarity float64) float64 {
	score := 0.0
	if identifierMatched {
		score += c.weights.Identifier
	}
	if amounts == domain.AmountConsistent {
		score += c.weights.Amount
	}
	score += nameSimilarity * c.weights.Name

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// IsAcceptable decides whether a candidate pair may be claimed. Beyond the
// minimum confidence, the pair needs corroboration: either the identifiers
// matched, or the amounts are consistent and the names are similar enough.
// An amount coincidence alone can never carry a match.
func (c *ConfidenceCalculator) IsAcceptable(confidence float64, identifierMatched bool, amounts domain.AmountConsistency, nameSimilarity float64) bool {
	if confidence < c.minConfidence {
		return false
	}
	if identifierMatched {
		return true
	}
	return amounts == domain.AmountConsistent && nameSimilarity >= c.nameThreshold
}
