package evaluation

import (
	"math"

	"github.com/shhdalk/tender-ai/internal/tender"
)

// WeightedScore computes the pre-cap percentage score. Every score
// contributes its weight to the total; a met requirement earns its weight
// scaled by the oracle's confidence, an unmet one earns nothing regardless
// of confidence.
func WeightedScore(scores []tender.RequirementScore, doc *tender.RequirementsDocument) float64 {
	index := doc.Index()

	var total, earned float64
	for _, score := range scores {
		weight := requirementWeight(score, index)
		total += weight
		if score.Met {
			earned += weight * score.Confidence
		}
	}

	if total == 0 {
		return 0.0
	}

	return round1(earned / total * 100.0)
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
