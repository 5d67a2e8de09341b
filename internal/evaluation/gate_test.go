package evaluation

import (
	"testing"

	"github.com/shhdalk/tender-ai/internal/tender"
)

func TestGateScoreCaps(t *testing.T) {
	tests := []struct {
		failures int
		wantCap  float64
	}{
		{failures: 0, wantCap: 100.0},
		{failures: 1, wantCap: 75.0},
		{failures: 2, wantCap: 60.0},
		{failures: 3, wantCap: 40.0},
		{failures: 7, wantCap: 40.0},
	}

	for _, tt := range tests {
		requirements := makeRequirements(tt.failures+1, tender.TypeMandatory, tender.PriorityHigh)
		doc := &tender.RequirementsDocument{Requirements: requirements}

		scores := make([]tender.RequirementScore, 0, len(requirements))
		for i, req := range requirements {
			scores = append(scores, tender.RequirementScore{
				RequirementID: req.ID,
				Met:           i >= tt.failures,
				Confidence:    1.0,
			})
		}

		gate := Gate(scores, doc)

		if gate.ScoreCap != tt.wantCap {
			t.Fatalf("%d failures: expected cap %v, got %v", tt.failures, tt.wantCap, gate.ScoreCap)
		}
		if gate.Passed != (tt.failures == 0) {
			t.Fatalf("%d failures: unexpected passed=%v", tt.failures, gate.Passed)
		}
		if len(gate.Failures) != tt.failures {
			t.Fatalf("expected %d failures, got %d", tt.failures, len(gate.Failures))
		}
	}
}

func TestGateDocumentTypeIsAuthoritative(t *testing.T) {
	doc := &tender.RequirementsDocument{Requirements: []tender.Requirement{
		{ID: "R1", Type: tender.TypeMandatory, Priority: tender.PriorityHigh},
		{ID: "R2", Type: tender.TypeFunctional, Priority: tender.PriorityMedium},
	}}

	// The oracle mislabels both: R1 as functional, R2 as mandatory. The
	// document wins for ids that resolve.
	scores := []tender.RequirementScore{
		{RequirementID: "R1", RequirementType: tender.TypeFunctional, Met: false},
		{RequirementID: "R2", RequirementType: tender.TypeMandatory, Met: false},
	}

	gate := Gate(scores, doc)

	if len(gate.Failures) != 1 || gate.Failures[0] != "R1" {
		t.Fatalf("expected only R1 to fail the gate, got %v", gate.Failures)
	}
	if gate.ScoreCap != 75.0 {
		t.Fatalf("expected cap 75.0, got %v", gate.ScoreCap)
	}
}

func TestGateFallsBackToCarriedTypeForOrphans(t *testing.T) {
	doc := &tender.RequirementsDocument{Requirements: []tender.Requirement{
		{ID: "R1", Type: tender.TypeFunctional, Priority: tender.PriorityMedium},
	}}

	scores := []tender.RequirementScore{
		{RequirementID: "R1", Met: true, Confidence: 1.0},
		{RequirementID: "GHOST", RequirementType: tender.TypeMandatory, Met: false},
	}

	gate := Gate(scores, doc)

	if len(gate.Failures) != 1 || gate.Failures[0] != "GHOST" {
		t.Fatalf("expected orphan mandatory score to fail the gate, got %v", gate.Failures)
	}
}

func TestGatePreservesEvaluationOrder(t *testing.T) {
	requirements := makeRequirements(4, tender.TypeMandatory, tender.PriorityHigh)
	doc := &tender.RequirementsDocument{Requirements: requirements}

	scores := []tender.RequirementScore{
		{RequirementID: "R3", Met: false},
		{RequirementID: "R1", Met: false},
		{RequirementID: "R2", Met: true},
		{RequirementID: "R4", Met: false},
	}

	gate := Gate(scores, doc)

	want := []string{"R3", "R1", "R4"}
	if len(gate.Failures) != len(want) {
		t.Fatalf("expected %d failures, got %d", len(want), len(gate.Failures))
	}
	for i, id := range want {
		if gate.Failures[i] != id {
			t.Fatalf("failure %d: expected %s, got %s", i, id, gate.Failures[i])
		}
	}
}
