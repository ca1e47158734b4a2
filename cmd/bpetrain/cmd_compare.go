package main

import (
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bpetrain/internal/corpus"
	"github.com/bpetrain/internal/reference"
	"github.com/bpetrain/internal/tokenizer"
)

type compareReport struct {
	Texts           int     `json:"texts"`
	Characters      int     `json:"characters"`
	ModelTokens     int     `json:"model_tokens"`
	UnknownTokens   int     `json:"unknown_tokens"`
	Reference       string  `json:"reference"`
	ReferenceTokens int     `json:"reference_tokens"`
	ModelRatio      float64 `json:"model_chars_per_token"`
	ReferenceRatio  float64 `json:"reference_chars_per_token"`
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare token counts against a tiktoken encoding",
		Long: `Encode a corpus with the model and with a tiktoken reference encoding and
report token counts and characters per token for both.

The reference is a model name (gpt-4o) or an encoding name (cl100k_base).
Its ranks are downloaded on first use unless TIKTOKEN_CACHE_DIR holds them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd)
			if err != nil {
				return err
			}
			refName, _ := cmd.Flags().GetString("reference")
			paths, _ := cmd.Flags().GetStringSlice("corpus")

			texts, err := corpus.Load(cmd.Context(), paths...)
			if err != nil {
				return err
			}
			counter, err := reference.NewCounter(refName)
			if err != nil {
				return err
			}

			report := buildCompareReport(m, texts)
			report.Reference = counter.Name()
			report.ReferenceTokens = counter.CountAll(texts)
			report.ReferenceRatio = ratio(report.Characters, report.ReferenceTokens)

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printCompareReport(cmd, report)
			return nil
		},
	}
	addModelFlags(cmd)
	cmd.Flags().String("reference", reference.DefaultEncoding, "tiktoken model or encoding name")
	cmd.Flags().StringSlice("corpus", nil, "Corpus file(s) to encode")
	_ = cmd.MarkFlagRequired("corpus")
	return cmd
}

func buildCompareReport(m *tokenizer.Model, texts []string) compareReport {
	r := compareReport{Texts: len(texts)}
	for _, text := range texts {
		r.Characters += utf8.RuneCountInString(text)
		for _, id := range m.Encode(text) {
			r.ModelTokens++
			if id == tokenizer.UnknownID {
				r.UnknownTokens++
			}
		}
	}
	r.ModelRatio = ratio(r.Characters, r.ModelTokens)
	return r
}

func ratio(chars, tokens int) float64 {
	if tokens == 0 {
		return 0
	}
	return float64(chars) / float64(tokens)
}

func printCompareReport(cmd *cobra.Command, r compareReport) {
	p := message.NewPrinter(language.English)
	w := cmd.OutOrStdout()

	p.Fprintf(w, "Texts:      %d\n", r.Texts)
	p.Fprintf(w, "Characters: %d\n\n", r.Characters)
	p.Fprintf(w, "%-14s %12s %14s\n", "TOKENIZER", "TOKENS", "CHARS/TOKEN")
	p.Fprintf(w, "%-14s %12d %14.2f\n", "model", r.ModelTokens, r.ModelRatio)
	p.Fprintf(w, "%-14s %12d %14.2f\n", r.Reference, r.ReferenceTokens, r.ReferenceRatio)
	if r.UnknownTokens > 0 {
		p.Fprintf(w, "\n%d model tokens were unknown characters\n", r.UnknownTokens)
	}
}
