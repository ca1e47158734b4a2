package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bpetrain/internal/tokenizer"
)

const (
	demoSample = "自然语言处理(NLP)是人工智能领域的重要分支。分词是NLP的基础任务之一。"
	demoChar   = "自"
	demoEncode = "自然语言"

	demoVocabSize = 100
	demoMerges    = 50
	demoShown     = 20
)

var demoTrainTexts = []string{
	"自然语言处理是计算机科学的一个重要领域",
	"分词是自然语言处理的基础任务之一",
	"机器学习和深度学习在自然语言处理中发挥重要作用",
	"Transformer模型已成为自然语言处理的主流模型",
	"BERT, GPT, T5等都是基于Transformer的模型",
}

type demoResult struct {
	Name   string   `json:"name"`
	Count  int      `json:"count"`
	Tokens []string `json:"tokens"`
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Compare character, byte, word and BPE tokenization on a sample",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			chars := tokenizer.NewCharacterTokenizer()
			byteTok := tokenizer.NewByteTokenizer()
			words := tokenizer.NewWordTokenizer(tokenizer.DefaultVocabSize)
			bpe := tokenizer.NewBPETokenizer(
				tokenizer.WithVocabSize(demoVocabSize),
				tokenizer.WithLogger(logger),
			)
			bpe.Train(demoTrainTexts, demoMerges)

			results := []demoResult{
				demoRun("character", chars),
				demoRun("byte (UTF-8)", byteTok),
				demoRun("word", words),
				demoRun("bpe", bpe),
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"text":       demoSample,
					"characters": utf8.RuneCountInString(demoSample),
					"results":    results,
				})
			}

			w := cmd.OutOrStdout()
			p := message.NewPrinter(language.English)
			p.Fprintf(w, "Text: %s\n", demoSample)
			p.Fprintf(w, "Length: %d characters, %d bytes\n\n", utf8.RuneCountInString(demoSample), len(demoSample))
			for _, r := range results {
				printDemoResult(w, p, r)
			}

			fmt.Fprintf(w, "Encoding of %q:\n", demoChar)
			fmt.Fprintf(w, "  character: %v (1 token)\n", chars.Tokenize(demoChar))
			byteTokens := byteTok.Tokenize(demoChar)
			fmt.Fprintf(w, "  byte:      %v (%d tokens)\n\n", byteTokens, len(byteTokens))

			fmt.Fprintln(w, "Encode and decode:")
			for _, c := range []struct {
				name string
				tok  tokenizer.Tokenizer
			}{
				{"character", chars},
				{"byte", byteTok},
				{"bpe", bpe},
			} {
				ids := c.tok.Encode(demoEncode)
				fmt.Fprintf(w, "  %-9s %q -> %v -> %q\n", c.name+":", demoEncode, ids, c.tok.Decode(ids))
			}
			return nil
		},
	}
}

func demoRun(name string, tok tokenizer.Tokenizer) demoResult {
	tokens := tok.Tokenize(demoSample)
	return demoResult{Name: name, Count: len(tokens), Tokens: tokens}
}

func printDemoResult(w io.Writer, p *message.Printer, r demoResult) {
	shown := r.Tokens
	suffix := ""
	if len(shown) > demoShown {
		shown = shown[:demoShown]
		suffix = " ..."
	}
	p.Fprintf(w, "%s:\n", r.Name)
	p.Fprintf(w, "  tokens: %d\n", r.Count)
	fmt.Fprintf(w, "  [%s]%s\n\n", strings.Join(shown, " "), suffix)
}
