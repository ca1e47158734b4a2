package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bpetrain/internal/corpus"
	"github.com/bpetrain/internal/logging"
	"github.com/bpetrain/internal/tokenizer"
)

func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Learn merge rules from a corpus and save the model",
		Long: `Learn BPE merge rules from one or more corpus files and write the model
directory (vocab.json, merges.txt, model.yaml).

Corpus files may be plain text, .gz or .zst. Use "-" to read standard input.
Flags override the config file and BPETRAIN_* environment variables.`,
		Example: `  bpetrain train --corpus wiki.txt.zst --out model --merges 5000
  cat notes.txt | bpetrain train --corpus - --out model --vocab-size 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			paths, _ := cmd.Flags().GetStringSlice("corpus")
			out, _ := cmd.Flags().GetString("out")
			tracePath, _ := cmd.Flags().GetString("trace")

			if cmd.Flags().Changed("merges") {
				cfg.Training.MaxMerges, _ = cmd.Flags().GetInt("merges")
			}
			if cmd.Flags().Changed("vocab-size") {
				cfg.Training.VocabSize, _ = cmd.Flags().GetInt("vocab-size")
			}
			if cmd.Flags().Changed("segmentation") {
				cfg.Segmentation.Policy, _ = cmd.Flags().GetString("segmentation")
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			texts, err := corpus.Load(cmd.Context(), paths...)
			if err != nil {
				return err
			}
			logger.Info("corpus loaded", "files", len(paths), "texts", len(texts))

			trainLogger := logger
			if tracePath != "" {
				tf, err := logging.OpenTraceFile(tracePath)
				if err != nil {
					return err
				}
				defer tf.Close() //nolint:errcheck
				trainLogger = tf.Logger
			}

			trainer := tokenizer.NewTrainer(
				tokenizer.WithVocabSize(cfg.Training.VocabSize),
				tokenizer.WithSegmentation(cfg.SegmentPolicy()),
				tokenizer.WithLogger(trainLogger),
			)
			model := trainer.Train(texts, cfg.Training.MaxMerges)

			if err := model.Save(out); err != nil {
				return err
			}
			logger.Info("model saved", "dir", out)

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"dir":          out,
					"texts":        len(texts),
					"vocab_size":   model.VocabSize(),
					"merges":       model.NumMerges(),
					"segmentation": model.Segmentation().String(),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Trained %d merges, vocab size %d, saved to %s\n",
				model.NumMerges(), model.VocabSize(), out)
			return nil
		},
	}

	cmd.Flags().StringSlice("corpus", nil, "Corpus file(s); .gz and .zst are decompressed, - is stdin")
	cmd.Flags().String("out", "", "Output model directory")
	cmd.Flags().Int("merges", 0, "Maximum number of merges (default from config)")
	cmd.Flags().Int("vocab-size", 0, "Vocab ceiling including <UNK>, 0 for none (default from config)")
	cmd.Flags().String("segmentation", "", "Segmentation policy stored in the model: leftmost or rank")
	cmd.Flags().String("trace", "", "Write every merge decision to this JSONL file")
	_ = cmd.MarkFlagRequired("corpus")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
