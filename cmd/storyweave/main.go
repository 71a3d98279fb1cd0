// Command storyweave is a demo CLI driving one scripted scene through
// the turn pipeline end to end (spec §10): classification, prediction,
// resolution, context assembly, and rendering, using the bundled
// default classifier and sequencer plus this package's deterministic
// stand-in predictor, provider, and grammar (no model or network access
// required). Command layout follows codenerd's cmd/nerd/main.go
// rootCmd-plus-PersistentPreRunE pattern.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	logLevel string
	storeDSN string

	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storyweave",
	Short: "storyweave - narrative-engine turn pipeline demo",
	Long: `storyweave drives a scripted two-character scene through the full
turn pipeline: classification, prediction, resolution, context assembly,
and rendering, printing each turn's narration as it completes.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zerolog.TimeFieldFormat = time.RFC3339
		level := logLevel
		if verbose {
			level = "debug"
		}
		lvl, err := zerolog.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
		zerolog.SetGlobalLevel(lvl)
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd.Context(), logger, storeDSN)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&storeDSN, "store", "memory", `storage backend: "memory" or a sqlite DSN`)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
