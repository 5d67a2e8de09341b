package tender

import "time"

// Recommendation is the categorical outcome of an evaluation.
type Recommendation string

const (
	RecommendationAward             Recommendation = "AWARD"
	RecommendationSeekClarification Recommendation = "SEEK_CLARIFICATION"
	RecommendationReject            Recommendation = "REJECT"
)

// Evidence is a supporting excerpt from the proposal text. Location carries
// the section or heading when the oracle could name one.
type Evidence struct {
	Quote    string `json:"quote"`
	Location string `json:"location"`
}

// RequirementScore is the oracle's judgment for a single requirement after
// normalization. RequirementType is carried for fallback weighting when the
// id cannot be resolved against the requirements document.
type RequirementScore struct {
	RequirementID   string     `json:"requirement_id"`
	RequirementType string     `json:"requirement_type"`
	Met             bool       `json:"met"`
	Confidence      float64    `json:"confidence"`
	Justification   string     `json:"justification"`
	FailureReason   string     `json:"failure_reason,omitempty"`
	Evidences       []Evidence `json:"evidences,omitempty"`
}

// MandatoryGateResult holds the pass/fail outcome over mandatory
// requirements. Failures preserves evaluation order. ScoreCap is the maximum
// percentage the evaluation may report given the failure count.
type MandatoryGateResult struct {
	Passed   bool     `json:"passed"`
	Failures []string `json:"failures"`
	ScoreCap float64  `json:"score_cap"`
}

// Evaluation is the terminal artifact for one vendor in one run.
// MatchPercentage is the capped score and never exceeds RawScore.
type Evaluation struct {
	ID              string              `json:"id"`
	VendorName      string              `json:"vendor_name"`
	MandatoryGate   MandatoryGateResult `json:"mandatory_gate"`
	MatchPercentage float64             `json:"match_percentage"`
	RawScore        float64             `json:"raw_score"`
	Scores          []RequirementScore  `json:"scores"`
	Summary         string              `json:"summary"`
	Recommendation  Recommendation      `json:"recommendation"`
	EvaluatedAt     time.Time           `json:"evaluated_at"`
}

// MetCount returns how many requirements the vendor met.
func (e *Evaluation) MetCount() int {
	met := 0
	for _, s := range e.Scores {
		if s.Met {
			met++
		}
	}
	return met
}
