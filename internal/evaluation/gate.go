package evaluation

import (
	"github.com/shhdalk/tender-ai/internal/tender"
)

// scoreCaps maps the mandatory-failure count to the maximum percentage an
// evaluation may report. A single miss is often a documentation gap; two or
// more signals systemic non-compliance, and the vendor must not outscore a
// fully compliant one on other categories alone.
var scoreCaps = map[int]float64{
	0: 100.0,
	1: 75.0,
	2: 60.0,
}

const defaultScoreCap = 40.0

// Gate computes pass/fail over mandatory requirements and the resulting
// score cap. The requirements document is authoritative for a requirement's
// type whenever the scored id resolves against it.
func Gate(scores []tender.RequirementScore, doc *tender.RequirementsDocument) tender.MandatoryGateResult {
	index := doc.Index()

	failures := []string{}
	for _, score := range scores {
		if resolveType(score, index) == tender.TypeMandatory && !score.Met {
			failures = append(failures, score.RequirementID)
		}
	}

	return tender.MandatoryGateResult{
		Passed:   len(failures) == 0,
		Failures: failures,
		ScoreCap: capForFailures(len(failures)),
	}
}

func capForFailures(count int) float64 {
	if v, ok := scoreCaps[count]; ok {
		return v
	}
	return defaultScoreCap
}
