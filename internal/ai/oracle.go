package ai

import (
	"context"

	"github.com/shhdalk/tender-ai/internal/tender"
)

// JudgmentRequest carries one chunk of requirements to the oracle. The full
// proposal text is sent with every chunk; only the requirement list is split.
type JudgmentRequest struct {
	VendorName   string
	Requirements []tender.Requirement
	ProposalText string
	ChunkIndex   int
	ChunkCount   int
}

// Oracle judges proposal text against a chunk of requirements and returns
// the raw textual payload. The payload's structure is the normalizer's
// contract; the oracle's verdicts are trusted verbatim.
type Oracle interface {
	Judge(ctx context.Context, req JudgmentRequest) (string, error)
}

// Extractor produces the canonical requirements list from RFP text.
type Extractor interface {
	Extract(ctx context.Context, rfpText string) (*tender.RequirementsDocument, error)
}

// DocumentParser converts a proposal or RFP file into plain text.
type DocumentParser interface {
	Parse(ctx context.Context, filePath string) (string, error)
}
