package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bpetrain/internal/tokenizer"
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that a model directory loads and is consistent",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd)
			if err != nil {
				return err
			}
			if err := verifyModel(m); err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"ok":         true,
					"vocab_size": m.VocabSize(),
					"merges":     m.NumMerges(),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "vocab loaded successfully and IDs are dense (%d ids, %d merges)\n",
				m.VocabSize(), m.NumMerges())
			return nil
		},
	}
	addModelFlags(cmd)
	return cmd
}

// verifyModel checks what loading alone does not: the id <-> symbol mapping
// round-trips and rules are stored in rank order.
func verifyModel(m *tokenizer.Model) error {
	for id, sym := range m.Symbols() {
		back, ok := m.ID(sym)
		if !ok || back != id {
			return fmt.Errorf("symbol %q at id %d maps back to %d: %w", sym, id, back, tokenizer.ErrVocabNotDense)
		}
	}

	for i, rule := range m.Merges() {
		if rule.Rank != i {
			return fmt.Errorf("rule %d has rank %d", i, rule.Rank)
		}
		if rule.Symbol != rule.Pair.Merged() {
			return fmt.Errorf("rule %d produces %q, not %q", i, rule.Symbol, rule.Pair.Merged())
		}
	}
	return nil
}
