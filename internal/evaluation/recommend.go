package evaluation

import (
	"fmt"
	"strings"

	"github.com/shhdalk/tender-ai/internal/tender"
)

const maxSummaryGaps = 5

// Recommend maps the gate outcome and the capped final score to a
// categorical recommendation. The first matching rule wins: two or more
// mandatory failures reject outright, no matter how high the score.
func Recommend(gate tender.MandatoryGateResult, finalScore float64) tender.Recommendation {
	switch {
	case len(gate.Failures) >= 2:
		return tender.RecommendationReject
	case len(gate.Failures) == 1 || finalScore < 70:
		return tender.RecommendationSeekClarification
	case finalScore >= 85:
		return tender.RecommendationAward
	default:
		return tender.RecommendationSeekClarification
	}
}

// BuildSummary renders the deterministic human-readable summary: scores,
// met count, the mandatory gate outcome, and up to five unmet requirement
// ids as key gaps.
func BuildSummary(vendorName string, gate tender.MandatoryGateResult, rawScore, finalScore float64, scores []tender.RequirementScore) string {
	unmet := make([]string, 0, len(scores))
	for _, score := range scores {
		if !score.Met {
			unmet = append(unmet, score.RequirementID)
		}
	}

	lines := []string{
		fmt.Sprintf("%s scored %.1f%% (raw: %.1f%%).", vendorName, finalScore, rawScore),
		fmt.Sprintf("Met %d of %d requirements.", len(scores)-len(unmet), len(scores)),
	}

	if len(gate.Failures) > 0 {
		lines = append(lines, fmt.Sprintf("Mandatory failures (%d): %s. Score capped at %.0f%%.",
			len(gate.Failures), strings.Join(gate.Failures, ", "), gate.ScoreCap))
	} else {
		lines = append(lines, "All mandatory requirements passed.")
	}

	if len(unmet) > 0 {
		gaps := unmet
		if len(gaps) > maxSummaryGaps {
			gaps = gaps[:maxSummaryGaps]
		}
		lines = append(lines, fmt.Sprintf("Key gaps: %s.", strings.Join(gaps, ", ")))
	}

	return strings.Join(lines, " ")
}
