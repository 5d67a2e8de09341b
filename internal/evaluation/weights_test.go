package evaluation

import (
	"testing"

	"github.com/shhdalk/tender-ai/internal/tender"
)

func TestResolveTypePrecedence(t *testing.T) {
	doc := &tender.RequirementsDocument{Requirements: []tender.Requirement{
		{ID: "R1", Type: tender.TypeMandatory, Priority: tender.PriorityHigh},
		{ID: "R2", Priority: tender.PriorityLow},
	}}
	index := doc.Index()

	tests := []struct {
		name  string
		score tender.RequirementScore
		want  string
	}{
		{
			name:  "document wins over carried type",
			score: tender.RequirementScore{RequirementID: "R1", RequirementType: tender.TypeDelivery},
			want:  tender.TypeMandatory,
		},
		{
			name:  "carried type when document has none",
			score: tender.RequirementScore{RequirementID: "R2", RequirementType: tender.TypeTechnical},
			want:  tender.TypeTechnical,
		},
		{
			name:  "carried type for orphan id",
			score: tender.RequirementScore{RequirementID: "GHOST", RequirementType: tender.TypeIntegration},
			want:  tender.TypeIntegration,
		},
		{
			name:  "functional as last resort",
			score: tender.RequirementScore{RequirementID: "GHOST"},
			want:  tender.TypeFunctional,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveType(tt.score, index); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResolvePriority(t *testing.T) {
	doc := &tender.RequirementsDocument{Requirements: []tender.Requirement{
		{ID: "R1", Type: tender.TypeFunctional, Priority: tender.PriorityLow},
		{ID: "R2", Type: tender.TypeFunctional},
	}}
	index := doc.Index()

	if got := resolvePriority(tender.RequirementScore{RequirementID: "R1"}, index); got != tender.PriorityLow {
		t.Fatalf("expected Low, got %q", got)
	}
	if got := resolvePriority(tender.RequirementScore{RequirementID: "R2"}, index); got != tender.PriorityMedium {
		t.Fatalf("expected Medium for missing priority, got %q", got)
	}
	if got := resolvePriority(tender.RequirementScore{RequirementID: "GHOST"}, index); got != tender.PriorityMedium {
		t.Fatalf("expected Medium for orphan id, got %q", got)
	}
}

func TestWeightTables(t *testing.T) {
	tests := []struct {
		requirementType string
		priority        string
		want            float64
	}{
		{tender.TypeMandatory, tender.PriorityHigh, 9.0},
		{tender.TypeIntegration, tender.PriorityMedium, 4.0},
		{tender.TypeTechnical, tender.PriorityLow, 1.5},
		{tender.TypeFunctional, tender.PriorityMedium, 2.0},
		{tender.TypeDelivery, tender.PriorityHigh, 2.4},
		{"mystery", "Unheard-of", 2.0},
	}

	for _, tt := range tests {
		got := typeWeight(tt.requirementType) * priorityWeight(tt.priority)
		// Compare against a small epsilon: 0.8*3.0 is not exact in floats.
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("%s/%s: expected %v, got %v", tt.requirementType, tt.priority, tt.want, got)
		}
	}
}
