package evaluation

import (
	"math"

	"github.com/shhdalk/tender-ai/internal/ai"
	"github.com/shhdalk/tender-ai/internal/tender"
)

const defaultConfidence = 0.5

// Normalize validates and coerces a raw oracle payload into canonical
// requirement scores. Absent fields are defaulted; a record with no
// requirement id or no verdict is a hard error rather than a guess.
func Normalize(raw string) ([]tender.RequirementScore, error) {
	data, err := ai.DecodeObject(raw)
	if err != nil {
		return nil, &PayloadParseError{Err: err}
	}

	entries, _ := data["scores"].([]any)
	scores := make([]tender.RequirementScore, 0, len(entries))
	for i, entry := range entries {
		record, ok := entry.(map[string]any)
		if !ok {
			return nil, &ValidationError{Record: i, Field: "scores"}
		}

		score, err := normalizeRecord(i, record)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}

	return scores, nil
}

func normalizeRecord(index int, record map[string]any) (tender.RequirementScore, error) {
	id := ai.CoerceString(record["requirement_id"])
	if id == "" {
		return tender.RequirementScore{}, &ValidationError{Record: index, Field: "requirement_id"}
	}

	metRaw, ok := record["met"]
	if !ok || metRaw == nil {
		return tender.RequirementScore{}, &ValidationError{Record: index, Field: "met"}
	}

	requirementType := ai.CoerceString(record["requirement_type"])
	if requirementType == "" {
		requirementType = tender.TypeFunctional
	}

	confidence := defaultConfidence
	if raw, ok := record["confidence"]; ok && raw != nil {
		confidence = ai.CoerceFloat(raw)
		if math.IsNaN(confidence) {
			confidence = defaultConfidence
		}
	}
	confidence = clamp01(confidence)

	return tender.RequirementScore{
		RequirementID:   id,
		RequirementType: requirementType,
		Met:             ai.CoerceBool(metRaw),
		Confidence:      confidence,
		Justification:   ai.CoerceString(record["justification"]),
		FailureReason:   ai.CoerceString(record["failure_reason"]),
		Evidences:       normalizeEvidences(record["evidences"]),
	}, nil
}

func normalizeEvidences(raw any) []tender.Evidence {
	entries, ok := raw.([]any)
	if !ok || len(entries) == 0 {
		return nil
	}

	evidences := make([]tender.Evidence, 0, len(entries))
	for _, entry := range entries {
		record, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		evidences = append(evidences, tender.Evidence{
			Quote:    ai.CoerceString(record["quote"]),
			Location: ai.CoerceString(record["location"]),
		})
	}

	return evidences
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
