package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/shhdalk/tender-ai/internal/ai"
	"github.com/shhdalk/tender-ai/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed judge_prompt.md
var judgePromptTemplate string

const defaultMaxLogLength = 200

// Judge implements the judgment oracle on top of a Gemini content
// generator. One call judges one chunk of requirements against the full
// proposal text.
type Judge struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewJudge(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Judge {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Judge{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Judge sends the chunk to Gemini and returns the raw textual verdict. The
// payload structure is the normalizer's contract; nothing is parsed here.
func (j *Judge) Judge(ctx context.Context, req ai.JudgmentRequest) (string, error) {
	if req.VendorName == "" {
		return "", fmt.Errorf("vendor name is required")
	}
	if len(req.Requirements) == 0 {
		return "", fmt.Errorf("requirement chunk must not be empty")
	}

	payload := map[string]any{
		"vendor_name":   req.VendorName,
		"requirements":  req.Requirements,
		"proposal_text": req.ProposalText,
	}

	payloadJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal judgment payload: %w", err)
	}

	prompt := buildJudgePrompt(req.ChunkIndex, req.ChunkCount, string(payloadJSON))

	j.logger.Debug("gemini judgment request",
		zap.String("vendor", req.VendorName),
		zap.Int("chunk", req.ChunkIndex),
		zap.Int("chunk_requirements", len(req.Requirements)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, j.maxLogLen)),
	)

	raw, err := j.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	j.logger.Debug("gemini judgment response",
		zap.String("vendor", req.VendorName),
		zap.Int("chunk", req.ChunkIndex),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, j.maxLogLen)),
	)

	return raw, nil
}

func buildJudgePrompt(chunkIndex, chunkCount int, payloadJSON string) string {
	template := judgePromptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Judge the proposal against each requirement. Return JSON only.\n\nInput:\n{{INPUT_JSON}}"
	}

	prompt := strings.ReplaceAll(template, "{{CHUNK_NUMBER}}", strconv.Itoa(chunkIndex+1))
	prompt = strings.ReplaceAll(prompt, "{{CHUNK_COUNT}}", strconv.Itoa(chunkCount))
	prompt = strings.ReplaceAll(prompt, "{{INPUT_JSON}}", payloadJSON)
	return prompt
}
