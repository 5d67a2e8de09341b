package evaluation

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/shhdalk/tender-ai/internal/ai"
	"github.com/shhdalk/tender-ai/internal/tender"
)

// DefaultMaxWorkers bounds how many proposals are evaluated concurrently in
// one batch.
const DefaultMaxWorkers = 4

// Item is a single proposal file to evaluate. VendorName defaults to the
// file name without its extension.
type Item struct {
	VendorName string
	FilePath   string
}

// Failure records one proposal that could not be evaluated.
type Failure struct {
	VendorName string
	Err        error
}

// Batch evaluates a set of proposals against one requirements document. The
// document is read-only and shared across workers; each item succeeds or
// fails independently, and a failed item never cancels its siblings.
type Batch struct {
	parser     ai.DocumentParser
	evaluator  *Evaluator
	maxWorkers int
	logger     *zap.Logger
}

func NewBatch(parser ai.DocumentParser, evaluator *Evaluator, maxWorkers int, logger *zap.Logger) *Batch {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Batch{
		parser:     parser,
		evaluator:  evaluator,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// Run evaluates every item and returns successful evaluations in input
// order, plus the failures keyed by vendor name. No item is silently
// dropped.
func (b *Batch) Run(ctx context.Context, doc *tender.RequirementsDocument, items []Item) ([]*tender.Evaluation, []Failure) {
	if len(items) == 0 {
		return nil, nil
	}

	results := make([]*tender.Evaluation, len(items))
	errs := make([]error, len(items))

	workers := b.maxWorkers
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = b.evaluateItem(ctx, doc, items[i])
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	evaluations := make([]*tender.Evaluation, 0, len(items))
	failures := make([]Failure, 0)
	for i := range items {
		if errs[i] != nil {
			name := vendorName(items[i])
			b.logger.Warn("proposal evaluation failed",
				zap.String("vendor", name),
				zap.String("file", items[i].FilePath),
				zap.Error(errs[i]),
			)
			failures = append(failures, Failure{VendorName: name, Err: errs[i]})
			continue
		}
		evaluations = append(evaluations, results[i])
	}

	return evaluations, failures
}

func (b *Batch) evaluateItem(ctx context.Context, doc *tender.RequirementsDocument, item Item) (*tender.Evaluation, error) {
	text, err := b.parser.Parse(ctx, item.FilePath)
	if err != nil {
		return nil, &DocumentParseError{Path: item.FilePath, Err: err}
	}

	return b.evaluator.Evaluate(ctx, vendorName(item), doc, text)
}

func vendorName(item Item) string {
	if item.VendorName != "" {
		return item.VendorName
	}

	base := filepath.Base(item.FilePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
