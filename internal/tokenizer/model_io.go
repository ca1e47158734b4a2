package tokenizer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FormatVersion covers the file layout and the merge tie-break rule.
	FormatVersion = 1

	VocabFile    = "vocab.json"
	MergesFile   = "merges.txt"
	ManifestFile = "model.yaml"

	mergesHeaderPrefix = "#version:"
)

// Manifest describes a saved model directory.
type Manifest struct {
	Version      int    `yaml:"version"`
	TieBreak     string `yaml:"tie_break"`
	Segmentation string `yaml:"segmentation"`
	VocabSize    int    `yaml:"vocab_size"`
	Merges       int    `yaml:"merges"`
	CreatedAt    string `yaml:"created_at,omitempty"`
}

// Save writes the model to dir as vocab.json, merges.txt and model.yaml,
// creating dir if needed.
func (m *Model) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error while creating model dir: %w", err)
	}

	vocab := make(map[string]int, m.vocab.Len())
	for id, sym := range m.vocab.symbols {
		vocab[sym] = id
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // keep <UNK> readable
	enc.SetIndent("", "  ")
	if err := enc.Encode(vocab); err != nil {
		return fmt.Errorf("error while marshalling vocab: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, VocabFile), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("error while writing vocab file: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, MergesFile))
	if err != nil {
		return fmt.Errorf("error while creating merges file: %w", err)
	}
	if err := m.writeMerges(f); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error while closing merges file: %w", err)
	}

	manifest := Manifest{
		Version:      FormatVersion,
		TieBreak:     TieBreakName,
		Segmentation: m.policy.String(),
		VocabSize:    m.vocab.Len(),
		Merges:       len(m.merges),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	out, err := yaml.Marshal(&manifest)
	if err != nil {
		return fmt.Errorf("error while marshalling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), out, 0o644); err != nil {
		return fmt.Errorf("error while writing manifest: %w", err)
	}
	return nil
}

func (m *Model) writeMerges(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %d\n", mergesHeaderPrefix, FormatVersion)
	for _, rule := range m.merges {
		fmt.Fprintf(bw, "%s %s\n", rule.Pair.Left, rule.Pair.Right)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("error while writing merges: %w", err)
	}
	return nil
}

// LoadModel reads a directory written by Save.
func LoadModel(dir string) (*Model, *Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, nil, fmt.Errorf("error while reading manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, nil, fmt.Errorf("error while unmarshalling manifest: %w", err)
	}
	if manifest.Version != FormatVersion {
		return nil, nil, fmt.Errorf("manifest version %d: %w", manifest.Version, ErrUnsupportedVersion)
	}
	if manifest.TieBreak != "" && manifest.TieBreak != TieBreakName {
		return nil, nil, fmt.Errorf("tie-break %q: %w", manifest.TieBreak, ErrUnsupportedVersion)
	}

	policy, err := ParseSegmentPolicy(manifest.Segmentation)
	if err != nil {
		return nil, nil, err
	}

	m, err := LoadModelFromFiles(filepath.Join(dir, VocabFile), filepath.Join(dir, MergesFile), policy)
	if err != nil {
		return nil, nil, err
	}
	return m, &manifest, nil
}

// LoadModelFromFiles builds a model from a vocab.json and a merges.txt.
func LoadModelFromFiles(vocabPath, mergesPath string, policy SegmentPolicy) (*Model, error) {
	/*
		step 1: parse vocab.json into symbols[id], checking ids are dense,
			unique and that id 0 is the unknown sentinel

		step 2: parse merges.txt into rules, rank = line order

		step 3: build the pair lookup, which checks every half and merged
			symbol is in the vocab, and return the model
	*/
	data, err := os.ReadFile(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("error while reading vocab file: %w", err)
	}

	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error while unmarshalling vocab: %w", err)
	}

	symbols, err := denseSymbols(raw)
	if err != nil {
		return nil, err
	}
	vocab, err := vocabularyFromSymbols(symbols)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(mergesPath)
	if err != nil {
		return nil, fmt.Errorf("error while opening merges file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	merges, err := readMerges(f)
	if err != nil {
		return nil, err
	}

	return newModel(vocab, merges, policy)
}

// denseSymbols inverts symbol -> id into symbols[id], rejecting gaps and
// repeated ids.
func denseSymbols(vocab map[string]int) ([]string, error) {
	n := len(vocab)
	symbols := make([]string, n)
	seen := make([]bool, n)

	for sym, id := range vocab {
		if id < 0 || id >= n {
			return nil, fmt.Errorf("token id %d out of range for %d entries: %w", id, n, ErrVocabNotDense)
		}
		if seen[id] {
			return nil, fmt.Errorf("token id %d used twice: %w", id, ErrVocabNotDense)
		}
		seen[id] = true
		symbols[id] = sym
	}

	// n distinct ids in [0, n) means every slot is filled
	return symbols, nil
}

func readMerges(r io.Reader) ([]MergeRule, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("error while reading merges: %w", err)
		}
		return nil, fmt.Errorf("merges file is empty: %w", ErrUnsupportedVersion)
	}

	header := strings.TrimSpace(scanner.Text())
	if !strings.HasPrefix(header, mergesHeaderPrefix) {
		return nil, fmt.Errorf("merges header %q: %w", header, ErrUnsupportedVersion)
	}
	version, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(header, mergesHeaderPrefix)))
	if err != nil || version != FormatVersion {
		return nil, fmt.Errorf("merges header %q: %w", header, ErrUnsupportedVersion)
	}

	var merges []MergeRule
	line := 1
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		// symbols never contain whitespace, so a rule is exactly two fields
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("merges line %d: expected 2 symbols, got %d", line, len(fields))
		}

		pair := Pair{Left: fields[0], Right: fields[1]}
		merges = append(merges, MergeRule{Pair: pair, Symbol: pair.Merged(), Rank: len(merges)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error while reading merges: %w", err)
	}

	return merges, nil
}
