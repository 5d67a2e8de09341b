package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shhdalk/tender-ai/internal/ai/gemini"
	"github.com/shhdalk/tender-ai/internal/docparse"
	"github.com/shhdalk/tender-ai/internal/evaluation"
	applogger "github.com/shhdalk/tender-ai/internal/logger"
	"github.com/shhdalk/tender-ai/internal/secrets"
	"github.com/shhdalk/tender-ai/internal/tender"
)

const (
	PromptShowRanking = "Show ranking"
	PromptShowSummary = "Show summaries"
	PromptDumpToFile  = "Dump evaluations to file"
	PromptExit        = "Exit"
)

var errExit = errors.New("exit requested")

var resultsPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowRanking, PromptShowSummary, PromptDumpToFile, PromptExit},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [proposal files]",
	Short: "Evaluate vendor proposals against the RFP requirements",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		evaluate(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringP("rfp", "r", "", "RFP document to extract requirements from")
	evaluateCmd.Flags().StringP("requirements", "q", "", "pre-extracted requirements JSON file")
	evaluateCmd.Flags().StringP("output", "o", "", "write evaluations as JSON to this file")
	evaluateCmd.Flags().BoolP("auto-approve", "y", false, "dump results without asking what to do with them")
	evaluateCmd.Flags().Int("chunk-size", 0, "max requirements per oracle call")

	viper.BindPFlag("chunk-size", evaluateCmd.Flags().Lookup("chunk-size"))
}

// evaluate is the main command for the cli.
func evaluate(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := applogger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting tender-ai", zap.String("version", version))

	parser, err := newParser(config, logger)
	if err != nil {
		logger.Fatal("building parsing service client", zap.Error(err),
			zap.String("hint", "set LLAMA_CLOUD_API_KEY_FILE environment variable or the 'parser.api-key-file' key in the configuration file"),
		)
	}

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building gemini generator", zap.Error(err))
	}

	doc, err := loadRequirements(ctx, cmd, parser, generator, config, logger)
	if err != nil {
		logger.Fatal("loading requirements", zap.Error(err))
	}

	logger.Info("requirements ready",
		zap.String("rfp_title", doc.Title),
		zap.Int("count", doc.Len()),
	)

	judge := gemini.NewJudge(generator, logger, config.AI.Gemini.MaxLogLength)
	evaluator := evaluation.NewEvaluator(judge, config.ChunkSize, logger)
	batch := evaluation.NewBatch(parser, evaluator, config.MaxParallel, logger)

	items := make([]evaluation.Item, 0, len(args))
	for _, path := range args {
		items = append(items, evaluation.Item{FilePath: path})
	}

	logger.Info("starting the evaluation",
		zap.Int("proposals", len(items)),
		zap.Int("max_parallel", config.MaxParallel),
		zap.Int("chunk_size", config.ChunkSize),
	)

	evaluations, failures := batch.Run(ctx, doc, items)

	for _, failure := range failures {
		logger.Error("proposal failed", zap.String("vendor", failure.VendorName), zap.Error(failure.Err))
	}

	if len(evaluations) == 0 {
		logger.Info("exiting", zap.String("reason", "no proposals evaluated successfully"))
		return
	}

	logger.Info("evaluation complete",
		zap.Int("scored", len(evaluations)),
		zap.Int("failed", len(failures)),
	)

	output := cmd.Flag("output").Value.String()

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if err := handleAction(PromptDumpToFile, logger, evaluations, output); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := resultsPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, evaluations, output); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, evaluations []*tender.Evaluation, output string) error {
	switch action {
	case PromptShowRanking:
		for i, eval := range rankEvaluations(evaluations) {
			logger.Info("ranking",
				zap.Int("rank", i+1),
				zap.String("vendor", eval.VendorName),
				zap.Float64("match_percentage", eval.MatchPercentage),
				zap.String("recommendation", string(eval.Recommendation)),
			)
		}
		return nil
	case PromptShowSummary:
		for _, eval := range rankEvaluations(evaluations) {
			logger.Info(eval.Summary, zap.String("vendor", eval.VendorName))
		}
		return nil
	case PromptDumpToFile:
		filename, err := dumpEvaluations(evaluations, output)
		if err != nil {
			return fmt.Errorf("dump evaluations to file: %w", err)
		}
		logger.Info("dumping evaluations to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// rankEvaluations returns a copy sorted by capped score, best vendor first.
func rankEvaluations(evaluations []*tender.Evaluation) []*tender.Evaluation {
	ranked := make([]*tender.Evaluation, len(evaluations))
	copy(ranked, evaluations)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchPercentage > ranked[j].MatchPercentage
	})
	return ranked
}

func dumpEvaluations(evaluations []*tender.Evaluation, output string) (string, error) {
	data, err := json.MarshalIndent(evaluations, "", "  ")
	if err != nil {
		return "", err
	}

	if output != "" {
		return output, os.WriteFile(output, data, 0o644)
	}

	file, err := os.CreateTemp("", app+"-evaluations-*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return "", err
	}

	return file.Name(), nil
}

// loadRequirements returns the requirements document from the pre-extracted
// JSON file when given, and otherwise parses the RFP document and extracts
// the requirements from its text.
func loadRequirements(ctx context.Context, cmd *cobra.Command, parser *docparse.Client, generator *gemini.Generator, config *Config, logger *zap.Logger) (*tender.RequirementsDocument, error) {
	requirementsFile := cmd.Flag("requirements").Value.String()
	rfpFile := cmd.Flag("rfp").Value.String()

	switch {
	case requirementsFile != "":
		return readRequirementsFile(requirementsFile)
	case rfpFile != "":
		logger.Info("parsing the rfp document", zap.String("file", rfpFile))

		text, err := parser.Parse(ctx, rfpFile)
		if err != nil {
			return nil, fmt.Errorf("parse rfp: %w", err)
		}

		extractor := gemini.NewExtractor(generator, logger, config.AI.Gemini.MaxLogLength)
		return extractor.Extract(ctx, text)
	default:
		return nil, errors.New("either --rfp or --requirements is required")
	}
}

func readRequirementsFile(path string) (*tender.RequirementsDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc tender.RequirementsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse requirements file %q: %w", path, err)
	}

	if doc.Len() == 0 {
		return nil, fmt.Errorf("requirements file %q contains no requirements", path)
	}

	return &doc, nil
}

func newParser(config *Config, logger *zap.Logger) (*docparse.Client, error) {
	file := strings.TrimSpace(config.Parser.APIKeyFile)
	if file == "" {
		file = strings.TrimSpace(viper.GetString("parser.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "parsing service api key",
		File: file,
	})
	if err != nil {
		return nil, err
	}

	parser := docparse.New(apiKey, logger)
	if config.Parser.BaseURL != "" {
		parser.BaseURL = config.Parser.BaseURL
	}
	if config.UserAgent != "" {
		parser.UserAgent = config.UserAgent
	}

	return parser, nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*gemini.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	file := strings.TrimSpace(cfg.Gemini.APIKeyFile)
	if file == "" {
		file = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: file,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := applogger.WithCommonFields(logger, "gemini", cfg.Gemini.Model)

	return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
}
