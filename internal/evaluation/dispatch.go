package evaluation

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/shhdalk/tender-ai/internal/ai"
	"github.com/shhdalk/tender-ai/internal/tender"
)

// DefaultChunkSize bounds the number of requirements sent to the oracle in a
// single call. A single call has a practical requirement-count ceiling, so
// the dispatcher trades one call per chunk for parallel latency reduction.
const DefaultChunkSize = 15

// Dispatcher splits a requirements list into bounded chunks and fans out one
// concurrent oracle call per chunk.
type Dispatcher struct {
	oracle    ai.Oracle
	chunkSize int
	logger    *zap.Logger
}

func NewDispatcher(oracle ai.Oracle, chunkSize int, logger *zap.Logger) *Dispatcher {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		oracle:    oracle,
		chunkSize: chunkSize,
		logger:    logger,
	}
}

// Dispatch judges every requirement against the proposal text and returns
// the normalized scores, reassembled in chunk-submission order regardless of
// completion order. Any chunk failure aborts the whole dispatch: a partial
// score list would silently under-score the vendor.
func (d *Dispatcher) Dispatch(ctx context.Context, vendorName string, requirements []tender.Requirement, proposalText string) ([]tender.RequirementScore, error) {
	chunks := chunkRequirements(requirements, d.chunkSize)
	if len(chunks) == 0 {
		return nil, nil
	}

	d.logger.Debug("dispatching requirement chunks",
		zap.String("vendor", vendorName),
		zap.Int("requirements", len(requirements)),
		zap.Int("chunks", len(chunks)),
	)

	results := make([][]tender.RequirementScore, len(chunks))
	errs := make([]error, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk []tender.Requirement) {
			defer wg.Done()
			results[i], errs[i] = d.evaluateChunk(ctx, vendorName, chunk, proposalText, i, len(chunks))
		}(i, chunk)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	scores := make([]tender.RequirementScore, 0, len(requirements))
	for _, chunkScores := range results {
		scores = append(scores, chunkScores...)
	}

	return scores, nil
}

func (d *Dispatcher) evaluateChunk(ctx context.Context, vendorName string, chunk []tender.Requirement, proposalText string, index, total int) ([]tender.RequirementScore, error) {
	raw, err := d.oracle.Judge(ctx, ai.JudgmentRequest{
		VendorName:   vendorName,
		Requirements: chunk,
		ProposalText: proposalText,
		ChunkIndex:   index,
		ChunkCount:   total,
	})
	if err != nil {
		return nil, &DispatchError{Chunk: index, Err: err}
	}

	scores, err := Normalize(raw)
	if err != nil {
		var parseErr *PayloadParseError
		if errors.As(err, &parseErr) {
			parseErr.Chunk = index
		}
		return nil, err
	}

	d.logger.Debug("chunk evaluated",
		zap.String("vendor", vendorName),
		zap.Int("chunk", index),
		zap.Int("scores", len(scores)),
	)

	return scores, nil
}

// chunkRequirements partitions the list into contiguous chunks of at most
// size elements; the final chunk may be smaller.
func chunkRequirements(requirements []tender.Requirement, size int) [][]tender.Requirement {
	if len(requirements) == 0 {
		return nil
	}

	chunks := make([][]tender.Requirement, 0, (len(requirements)+size-1)/size)
	for start := 0; start < len(requirements); start += size {
		end := start + size
		if end > len(requirements) {
			end = len(requirements)
		}
		chunks = append(chunks, requirements[start:end])
	}

	return chunks
}
