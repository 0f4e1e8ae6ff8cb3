package main

import (
	"fmt"
	"os"

	"github.com/spacesedan/hypewatch/config"
	"github.com/spacesedan/hypewatch/internal/logging"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	env string
}

var rootCmd = &cobra.Command{
	Use:   "hypewatch",
	Short: "Score financial video transcripts for hype and missing disclaimers",
	Long: `hypewatch scores a spoken-content transcript for the likelihood of
misleading financial promotion: hype keywords, missing disclaimers,
exaggerated claims and overly positive sentiment.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		env := rootFlags.env
		if env == "" {
			env = os.Getenv("APP_ENV")
		}
		if env == "" {
			env = "dev"
		}
		config.LoadEnv(env)
		logging.InitLogger(os.Getenv("LOG_LEVEL"))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.env, "env", "", "Environment name; loads config/envs/.env.<env> (default: $APP_ENV or dev)")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(lexiconCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
