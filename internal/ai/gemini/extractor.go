package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/shhdalk/tender-ai/internal/ai"
	"github.com/shhdalk/tender-ai/internal/tender"
	"github.com/shhdalk/tender-ai/internal/utils"
)

//go:embed extract_prompt.md
var extractPromptTemplate string

// Extractor produces the canonical requirements document from parsed RFP
// text.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExtractor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Extract asks Gemini for the requirements list and decodes the loosely
// structured reply. Requirements with no type or priority are defaulted to
// functional/Medium; a requirement without an id is an error.
func (e *Extractor) Extract(ctx context.Context, rfpText string) (*tender.RequirementsDocument, error) {
	if strings.TrimSpace(rfpText) == "" {
		return nil, errors.New("rfp text must not be empty")
	}

	prompt := strings.ReplaceAll(extractPromptTemplate, "{{RFP_TEXT}}", rfpText)

	e.logger.Debug("gemini extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	data, err := ai.DecodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("parse requirements payload: %w", err)
	}

	doc, err := decodeRequirementsDocument(data)
	if err != nil {
		return nil, err
	}

	e.logger.Info("requirements extracted",
		zap.String("rfp_title", doc.Title),
		zap.Int("count", doc.Len()),
	)

	return doc, nil
}

func decodeRequirementsDocument(data map[string]any) (*tender.RequirementsDocument, error) {
	var doc tender.RequirementsDocument

	cfg := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &doc,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode requirements document: %w", err)
	}

	if len(doc.Requirements) == 0 {
		return nil, errors.New("no requirements extracted from the rfp")
	}

	for i := range doc.Requirements {
		req := &doc.Requirements[i]
		if req.ID == "" {
			return nil, fmt.Errorf("extracted requirement %d has no id", i)
		}
		if req.Type == "" {
			req.Type = tender.TypeFunctional
		}
		if req.Priority == "" {
			req.Priority = tender.PriorityMedium
		}
	}

	return &doc, nil
}
