package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/bpetrain/internal/tokenizer"
)

type vocabEntry struct {
	ID     int    `json:"id"`
	Symbol string `json:"symbol"`
	Width  int    `json:"width"`
}

func newVocabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "List the vocabulary of a model",
		Long: `List every vocabulary entry with its id and terminal display width.

The output is an aligned table on a terminal and tab-separated otherwise;
--format forces one or the other.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			format, _ := cmd.Flags().GetString("format")

			entries := vocabEntries(m, limit)
			out := cmd.OutOrStdout()

			if jsonOutput(cmd) {
				return writeJSON(out, entries)
			}

			if format == "" {
				format = "tsv"
				if isTerminal(out) {
					format = "table"
				}
			}
			switch format {
			case "table":
				printVocabTable(out, entries)
			case "tsv":
				for _, e := range entries {
					fmt.Fprintf(out, "%d\t%s\t%d\n", e.ID, e.Symbol, e.Width)
				}
			default:
				return fmt.Errorf("unknown format %q (want table or tsv)", format)
			}
			return nil
		},
	}
	addModelFlags(cmd)
	cmd.Flags().Int("limit", 0, "Show at most this many entries (0 for all)")
	cmd.Flags().String("format", "", "Output format: table or tsv (default: table on a terminal)")
	return cmd
}

func vocabEntries(m *tokenizer.Model, limit int) []vocabEntry {
	symbols := m.Symbols()
	if limit > 0 && limit < len(symbols) {
		symbols = symbols[:limit]
	}

	entries := make([]vocabEntry, len(symbols))
	for id, sym := range symbols {
		entries[id] = vocabEntry{ID: id, Symbol: sym, Width: runewidth.StringWidth(sym)}
	}
	return entries
}

func printVocabTable(w io.Writer, entries []vocabEntry) {
	symWidth := len("SYMBOL")
	for _, e := range entries {
		symWidth = max(symWidth, e.Width)
	}
	idWidth := max(len("ID"), len(fmt.Sprint(len(entries))))

	fmt.Fprintf(w, "%*s  %s  %s\n", idWidth, "ID", padRight("SYMBOL", symWidth), "WIDTH")
	fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", idWidth), strings.Repeat("-", symWidth), "-----")
	for _, e := range entries {
		fmt.Fprintf(w, "%*d  %s  %5d\n", idWidth, e.ID, padRight(e.Symbol, symWidth), e.Width)
	}
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
