package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shhdalk/tender-ai/internal/ai/gemini"
	applogger "github.com/shhdalk/tender-ai/internal/logger"
)

var extractCmd = &cobra.Command{
	Use:   "extract [rfp file]",
	Short: "Extract the requirements list from an RFP document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		extract(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "write the requirements JSON to this file instead of stdout")
}

func extract(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := applogger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	parser, err := newParser(config, logger)
	if err != nil {
		logger.Fatal("building parsing service client", zap.Error(err))
	}

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building gemini generator", zap.Error(err))
	}

	rfpFile := args[0]
	logger.Info("parsing the rfp document", zap.String("file", rfpFile))

	text, err := parser.Parse(ctx, rfpFile)
	if err != nil {
		logger.Fatal("parsing rfp", zap.Error(err))
	}

	extractor := gemini.NewExtractor(generator, logger, config.AI.Gemini.MaxLogLength)

	doc, err := extractor.Extract(ctx, text)
	if err != nil {
		logger.Fatal("extracting requirements", zap.Error(err))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		logger.Fatal("marshaling requirements", zap.Error(err))
	}

	output := cmd.Flag("output").Value.String()
	if output == "" {
		fmt.Println(string(data))
		return
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		logger.Fatal("writing requirements file", zap.Error(err))
	}

	logger.Info("requirements written", zap.String("filename", output), zap.Int("count", doc.Len()))
}
