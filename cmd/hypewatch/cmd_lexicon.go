package main

import (
	"fmt"

	"github.com/spacesedan/hypewatch/config"
	"github.com/spacesedan/hypewatch/internal/lexicon"
	"github.com/spf13/cobra"
)

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Inspect lexicon files",
}

var lexiconValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Load a lexicon and report its phrase counts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Load().LexiconPath
		if len(args) == 1 {
			path = args[0]
		}

		lex, err := lexicon.Load(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Lexicon:            %s\n", path)
		fmt.Fprintf(out, "Hype phrases:       %d\n", len(lex.HypePhrases()))
		fmt.Fprintf(out, "Disclaimer phrases: %d\n", len(lex.DisclaimerPhrases()))
		return nil
	},
}

func init() {
	lexiconCmd.AddCommand(lexiconValidateCmd)
}
