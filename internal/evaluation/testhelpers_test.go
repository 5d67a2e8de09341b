package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/shhdalk/tender-ai/internal/ai"
	"github.com/shhdalk/tender-ai/internal/tender"
)

// stubOracle records every judgment request and answers via respond.
type stubOracle struct {
	mu       sync.Mutex
	requests []ai.JudgmentRequest
	respond  func(req ai.JudgmentRequest) (string, error)
}

func (s *stubOracle) Judge(_ context.Context, req ai.JudgmentRequest) (string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	return s.respond(req)
}

func (s *stubOracle) recorded() []ai.JudgmentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ai.JudgmentRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// echoPayload answers a judgment request with every requirement met at the
// given confidence, except the ids listed in unmet.
func echoPayload(t *testing.T, req ai.JudgmentRequest, confidence float64, unmet ...string) string {
	t.Helper()

	unmetSet := make(map[string]bool, len(unmet))
	for _, id := range unmet {
		unmetSet[id] = true
	}

	scores := make([]map[string]any, 0, len(req.Requirements))
	for _, r := range req.Requirements {
		record := map[string]any{
			"requirement_id":   r.ID,
			"requirement_type": r.Type,
			"met":              !unmetSet[r.ID],
			"confidence":       confidence,
			"justification":    "checked compliance matrix",
		}
		if unmetSet[r.ID] {
			record["failure_reason"] = "VAGUE_CLAIM"
		}
		scores = append(scores, record)
	}

	payload, err := json.Marshal(map[string]any{"scores": scores})
	if err != nil {
		t.Fatalf("marshal stub payload: %v", err)
	}

	return string(payload)
}

func makeRequirements(count int, requirementType, priority string) []tender.Requirement {
	reqs := make([]tender.Requirement, 0, count)
	for i := 0; i < count; i++ {
		reqs = append(reqs, tender.Requirement{
			ID:       fmt.Sprintf("R%d", i+1),
			Type:     requirementType,
			Title:    fmt.Sprintf("Requirement %d", i+1),
			Priority: priority,
		})
	}
	return reqs
}
