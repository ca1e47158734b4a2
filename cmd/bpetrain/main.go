package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bpetrain/internal/config"
	"github.com/bpetrain/internal/logging"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bpetrain",
		Short: "Train and apply byte-pair-encoding subword tokenizers",
		Long: `bpetrain learns BPE merge rules from a text corpus and uses them to
split text into subword tokens.

Train a model directory, then tokenize, encode or decode text with it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug, trace, warn, error")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newTrainCmd(),
		newTokenizeCmd(),
		newEncodeCmd(),
		newDecodeCmd(),
		newVocabCmd(),
		newVerifyCmd(),
		newCompareCmd(),
		newDemoCmd(),
	)

	return rootCmd
}

// loadSettings reads the config file and environment, applies the
// --log-level flag and returns a stderr logger at the chosen level.
func loadSettings(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()), nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bpetrain version %s\n", version)
			return nil
		},
	}
}
