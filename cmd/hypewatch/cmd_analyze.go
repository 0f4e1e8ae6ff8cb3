package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spacesedan/hypewatch/config"
	"github.com/spacesedan/hypewatch/internal/bootstrap"
	"github.com/spf13/cobra"
)

var analyzeFlags struct {
	lexiconPath string
	classifier  string
	maxChunks   int
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Score a transcript read from a file or stdin",
	Long: `Analyze runs the keyword, disclaimer, exaggeration and sentiment
detectors over a transcript and prints the scored report as JSON.

Usage:
  hypewatch analyze transcript.txt
  cat transcript.txt | hypewatch analyze
  hypewatch analyze --classifier=huggingface transcript.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.lexiconPath, "lexicon", "", "Lexicon file (default: $LEXICON_PATH)")
	f.StringVar(&analyzeFlags.classifier, "classifier", "", "Sentiment classifier: vader, huggingface, hugot or openai (default: $SENTIMENT_CLASSIFIER)")
	f.IntVar(&analyzeFlags.maxChunks, "max-chunks", 0, "Maximum transcript chunks sent to the classifier (default: $MAX_CHUNKS)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	settings := config.Load()
	if analyzeFlags.lexiconPath != "" {
		settings.LexiconPath = analyzeFlags.lexiconPath
	}
	if analyzeFlags.classifier != "" {
		settings.Classifier = analyzeFlags.classifier
	}
	if analyzeFlags.maxChunks > 0 {
		settings.MaxChunks = analyzeFlags.maxChunks
	}

	text, err := readTranscript(cmd, args)
	if err != nil {
		return err
	}

	rt, err := bootstrap.NewRuntime(settings)
	if err != nil {
		return err
	}
	defer rt.Close()

	resp := rt.Engine.Run(cmd.Context(), text)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("analysis failed: %s", resp.Error)
	}
	return nil
}

func readTranscript(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read transcript: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read transcript from stdin: %w", err)
	}
	return string(data), nil
}
