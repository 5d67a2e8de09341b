package evaluation

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shhdalk/tender-ai/internal/ai"
	"github.com/shhdalk/tender-ai/internal/tender"
)

// Evaluator composes dispatch, normalization, gating, scoring, and
// recommendation into a single evaluation call per vendor. Any dispatch or
// normalization failure aborts the evaluation; no partial result is
// returned.
type Evaluator struct {
	dispatcher *Dispatcher
	logger     *zap.Logger
}

func NewEvaluator(oracle ai.Oracle, chunkSize int, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Evaluator{
		dispatcher: NewDispatcher(oracle, chunkSize, logger),
		logger:     logger,
	}
}

// Evaluate judges the proposal against every requirement in the document and
// returns the terminal evaluation artifact. The raw score is rounded before
// the cap is applied, so boundary cases round first, then cap.
func (e *Evaluator) Evaluate(ctx context.Context, vendorName string, doc *tender.RequirementsDocument, proposalText string) (*tender.Evaluation, error) {
	scores, err := e.dispatcher.Dispatch(ctx, vendorName, doc.Requirements, proposalText)
	if err != nil {
		return nil, err
	}

	gate := Gate(scores, doc)
	rawScore := WeightedScore(scores, doc)
	finalScore := round1(math.Min(rawScore, gate.ScoreCap))
	recommendation := Recommend(gate, finalScore)

	e.logger.Info("proposal evaluated",
		zap.String("vendor", vendorName),
		zap.Float64("match_percentage", finalScore),
		zap.Float64("raw_score", rawScore),
		zap.Bool("gate_passed", gate.Passed),
		zap.Int("mandatory_failures", len(gate.Failures)),
		zap.String("recommendation", string(recommendation)),
	)

	return &tender.Evaluation{
		ID:              uuid.NewString(),
		VendorName:      vendorName,
		MandatoryGate:   gate,
		MatchPercentage: finalScore,
		RawScore:        rawScore,
		Scores:          scores,
		Summary:         BuildSummary(vendorName, gate, rawScore, finalScore, scores),
		Recommendation:  recommendation,
		EvaluatedAt:     time.Now().UTC(),
	}, nil
}
