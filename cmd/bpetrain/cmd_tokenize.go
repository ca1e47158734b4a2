package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bpetrain/internal/tokenizer"
)

const streamChunkSize = 32 * 1024

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "Model directory written by train")
	cmd.Flags().String("segmentation", "", "Override the model's segmentation policy: leftmost or rank")
	_ = cmd.MarkFlagRequired("model")
}

// loadModel opens the --model directory, applying --segmentation if given.
func loadModel(cmd *cobra.Command) (*tokenizer.Model, error) {
	_, logger, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	dir, _ := cmd.Flags().GetString("model")
	m, manifest, err := tokenizer.LoadModel(dir)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", dir, err)
	}
	logger.Debug("model loaded",
		"dir", dir,
		"vocab_size", manifest.VocabSize,
		"merges", manifest.Merges,
		"segmentation", manifest.Segmentation)

	if cmd.Flags().Changed("segmentation") {
		s, _ := cmd.Flags().GetString("segmentation")
		policy, err := tokenizer.ParseSegmentPolicy(s)
		if err != nil {
			return nil, err
		}
		m = m.WithSegmentation(policy)
	}
	return m, nil
}

// inputText joins args, or reads all of stdin when there are none.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [TEXT...]",
		Short: "Split text into subword symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd)
			if err != nil {
				return err
			}
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}

			symbols := m.Tokenize(text)
			if jsonOutput(cmd) {
				if symbols == nil {
					symbols = []string{}
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{"tokens": symbols, "count": len(symbols)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(symbols, " "))
			return nil
		},
	}
	addModelFlags(cmd)
	return cmd
}

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [TEXT...]",
		Short: "Map text to token ids",
		Long: `Map text to token ids. Characters never seen in training encode to 0.

Without TEXT arguments standard input is encoded as a stream, so large inputs
are never held in memory at once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd)
			if err != nil {
				return err
			}

			var ids []int
			if len(args) > 0 {
				ids = m.Encode(strings.Join(args, " "))
			} else {
				ids, err = encodeStream(m, cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			if jsonOutput(cmd) {
				if ids == nil {
					ids = []int{}
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{"ids": ids, "count": len(ids)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), joinInts(ids))
			return nil
		},
	}
	addModelFlags(cmd)
	return cmd
}

func encodeStream(m *tokenizer.Model, r io.Reader) ([]int, error) {
	es := tokenizer.NewEncoderState(m)
	buf := make([]byte, streamChunkSize)

	var ids []int
	for {
		n, err := r.Read(buf)
		if n > 0 {
			ids = append(ids, es.Push(buf[:n])...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
	}
	return append(ids, es.Flush()...), nil
}

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [ID...]",
		Short: "Map token ids back to text",
		Long: `Map token ids back to text. Unknown ids decode to <UNK>.

Symbols are concatenated without separators, so the spaces between words are
not restored. Without ID arguments ids are read from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd)
			if err != nil {
				return err
			}

			fields := args
			if len(fields) == 0 {
				fields, err = readFields(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			ids := make([]int, len(fields))
			for i, f := range fields {
				id, err := strconv.Atoi(f)
				if err != nil {
					return fmt.Errorf("invalid token id %q: %w", f, err)
				}
				ids[i] = id
			}

			text := m.Decode(ids)
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"text": text})
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	addModelFlags(cmd)
	return cmd
}

func readFields(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	var out []string
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return out, nil
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}
