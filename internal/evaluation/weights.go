package evaluation

import (
	"github.com/shhdalk/tender-ai/internal/tender"
)

var typeWeights = map[string]float64{
	tender.TypeMandatory:   3.0,
	tender.TypeIntegration: 2.0,
	tender.TypeTechnical:   1.5,
	tender.TypeFunctional:  1.0,
	tender.TypeDelivery:    0.8,
}

var priorityWeights = map[string]float64{
	tender.PriorityHigh:   3.0,
	tender.PriorityMedium: 2.0,
	tender.PriorityLow:    1.0,
}

const defaultTypeWeight = 1.0

// resolveType returns the effective requirement type for a score, in
// precedence order: the type declared in the requirements document when the
// id resolves, then the type carried on the score, then functional.
func resolveType(score tender.RequirementScore, index map[string]*tender.Requirement) string {
	if req, ok := index[score.RequirementID]; ok && req.Type != "" {
		return req.Type
	}
	if score.RequirementType != "" {
		return score.RequirementType
	}
	return tender.TypeFunctional
}

// resolvePriority returns the declared priority when the id resolves, and
// Medium otherwise. Scores do not carry a priority of their own.
func resolvePriority(score tender.RequirementScore, index map[string]*tender.Requirement) string {
	if req, ok := index[score.RequirementID]; ok && req.Priority != "" {
		return req.Priority
	}
	return tender.PriorityMedium
}

func typeWeight(requirementType string) float64 {
	if w, ok := typeWeights[requirementType]; ok {
		return w
	}
	return defaultTypeWeight
}

func priorityWeight(priority string) float64 {
	if w, ok := priorityWeights[priority]; ok {
		return w
	}
	return priorityWeights[tender.PriorityMedium]
}

// requirementWeight is the combined weight of a scored requirement.
func requirementWeight(score tender.RequirementScore, index map[string]*tender.Requirement) float64 {
	return typeWeight(resolveType(score, index)) * priorityWeight(resolvePriority(score, index))
}
