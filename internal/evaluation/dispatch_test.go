package evaluation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/shhdalk/tender-ai/internal/ai"
	"github.com/shhdalk/tender-ai/internal/tender"
)

func TestDispatchChunksAndPreservesOrder(t *testing.T) {
	requirements := makeRequirements(37, tender.TypeFunctional, tender.PriorityMedium)

	oracle := &stubOracle{
		respond: func(req ai.JudgmentRequest) (string, error) {
			// Finish later chunks first to prove reassembly order does not
			// depend on completion order.
			time.Sleep(time.Duration(len(requirements)-req.ChunkIndex*15) * time.Millisecond)
			return echoPayload(t, req, 1.0), nil
		},
	}

	dispatcher := NewDispatcher(oracle, 15, zap.NewNop())

	scores, err := dispatcher.Dispatch(context.Background(), "acme", requirements, "proposal text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(scores) != len(requirements) {
		t.Fatalf("expected %d scores, got %d", len(requirements), len(scores))
	}

	for i, score := range scores {
		if score.RequirementID != requirements[i].ID {
			t.Fatalf("score %d out of order: expected %s, got %s", i, requirements[i].ID, score.RequirementID)
		}
	}

	recorded := oracle.recorded()
	if len(recorded) != 3 {
		t.Fatalf("expected 3 chunk calls, got %d", len(recorded))
	}

	sizes := map[int]int{}
	for _, req := range recorded {
		sizes[req.ChunkIndex] = len(req.Requirements)
		if req.ChunkCount != 3 {
			t.Fatalf("expected chunk count 3, got %d", req.ChunkCount)
		}
		if req.VendorName != "acme" {
			t.Fatalf("unexpected vendor name: %s", req.VendorName)
		}
		if req.ProposalText != "proposal text" {
			t.Fatalf("expected full proposal text on every chunk")
		}
	}

	if sizes[0] != 15 || sizes[1] != 15 || sizes[2] != 7 {
		t.Fatalf("unexpected chunk sizes: %v", sizes)
	}
}

func TestDispatchChunkFailureAbortsWhole(t *testing.T) {
	requirements := makeRequirements(30, tender.TypeFunctional, tender.PriorityMedium)

	oracle := &stubOracle{
		respond: func(req ai.JudgmentRequest) (string, error) {
			if req.ChunkIndex == 1 {
				return "", fmt.Errorf("oracle unavailable")
			}
			return echoPayload(t, req, 1.0), nil
		},
	}

	dispatcher := NewDispatcher(oracle, 15, zap.NewNop())

	_, err := dispatcher.Dispatch(context.Background(), "acme", requirements, "text")
	if err == nil {
		t.Fatalf("expected error")
	}

	var dispatchErr *DispatchError
	if !errors.As(err, &dispatchErr) {
		t.Fatalf("expected DispatchError, got %T: %v", err, err)
	}
	if dispatchErr.Chunk != 1 {
		t.Fatalf("expected failing chunk 1, got %d", dispatchErr.Chunk)
	}
}

func TestDispatchUnparseableChunkPayload(t *testing.T) {
	requirements := makeRequirements(20, tender.TypeFunctional, tender.PriorityMedium)

	oracle := &stubOracle{
		respond: func(req ai.JudgmentRequest) (string, error) {
			if req.ChunkIndex == 1 {
				return "no json here", nil
			}
			return echoPayload(t, req, 1.0), nil
		},
	}

	dispatcher := NewDispatcher(oracle, 15, zap.NewNop())

	_, err := dispatcher.Dispatch(context.Background(), "acme", requirements, "text")

	var parseErr *PayloadParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected PayloadParseError, got %T: %v", err, err)
	}
	if parseErr.Chunk != 1 {
		t.Fatalf("expected failing chunk 1, got %d", parseErr.Chunk)
	}
}

func TestDispatchEmptyRequirements(t *testing.T) {
	oracle := &stubOracle{
		respond: func(ai.JudgmentRequest) (string, error) {
			t.Errorf("oracle must not be called for an empty requirements list")
			return "", nil
		},
	}

	dispatcher := NewDispatcher(oracle, 15, zap.NewNop())

	scores, err := dispatcher.Dispatch(context.Background(), "acme", nil, "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected no scores, got %d", len(scores))
	}
}

func TestChunkRequirements(t *testing.T) {
	tests := []struct {
		name  string
		total int
		size  int
		want  []int
	}{
		{name: "exact multiple", total: 30, size: 15, want: []int{15, 15}},
		{name: "remainder chunk", total: 37, size: 15, want: []int{15, 15, 7}},
		{name: "single small chunk", total: 4, size: 15, want: []int{4}},
		{name: "empty", total: 0, size: 15, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := chunkRequirements(makeRequirements(tt.total, tender.TypeFunctional, tender.PriorityLow), tt.size)
			if len(chunks) != len(tt.want) {
				t.Fatalf("expected %d chunks, got %d", len(tt.want), len(chunks))
			}
			for i, chunk := range chunks {
				if len(chunk) != tt.want[i] {
					t.Fatalf("chunk %d: expected size %d, got %d", i, tt.want[i], len(chunk))
				}
			}
		})
	}
}
