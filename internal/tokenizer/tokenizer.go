package tokenizer

import (
	"fmt"
	"strings"
	"sync"
)

// Tokenizer is implemented by every tokenization strategy in this package.
type Tokenizer interface {
	// Tokenize splits text into symbols.
	Tokenize(text string) []string
	// Encode maps text to ids, using UnknownID for anything out of vocabulary.
	Encode(text string) []int
	// Decode maps ids back to text. Ids the tokenizer does not know are
	// substituted, never rejected.
	Decode(ids []int) string
}

// SegmentPolicy decides which matching pair a model merges next while
// segmenting a word.
type SegmentPolicy int

const (
	// SegmentLeftmost merges the leftmost pair matching any rule, whatever its
	// rank. This is the default.
	SegmentLeftmost SegmentPolicy = iota
	// SegmentRank merges the pair whose rule was learned first, leftmost among
	// equal ranks (textbook BPE).
	SegmentRank
)

func (p SegmentPolicy) String() string {
	switch p {
	case SegmentLeftmost:
		return "leftmost"
	case SegmentRank:
		return "rank"
	default:
		return fmt.Sprintf("SegmentPolicy(%d)", int(p))
	}
}

// ParseSegmentPolicy maps "leftmost" (or "") and "rank" to a policy.
func ParseSegmentPolicy(s string) (SegmentPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "leftmost":
		return SegmentLeftmost, nil
	case "rank":
		return SegmentRank, nil
	default:
		return 0, fmt.Errorf("unknown segmentation policy %q (want leftmost or rank)", s)
	}
}

// TieBreakName names the merge selector's tie-break rule in saved models.
const TieBreakName = "lexicographic"

// Model is a trained BPE vocabulary plus its ordered merge rules.
// A Model never changes after construction and is safe for concurrent use.
// Invariants we maintain:
//   - vocab id 0 is UnknownToken and ids are dense.
//   - merges[r].Rank == r.
//   - every half and every merged symbol of a rule is in vocab, so the
//     lookup table resolves all of them.
type Model struct {
	vocab  *Vocabulary
	merges []MergeRule
	table  *PairLookup
	policy SegmentPolicy

	scratch *sync.Pool
}

func newModel(vocab *Vocabulary, merges []MergeRule, policy SegmentPolicy) (*Model, error) {
	table, err := NewPairLookup(merges, vocab)
	if err != nil {
		return nil, err
	}
	return &Model{
		vocab:   vocab,
		merges:  merges,
		table:   table,
		policy:  policy,
		scratch: &sync.Pool{},
	}, nil
}

// WithSegmentation returns a model sharing this one's tables but segmenting
// with policy p.
func (m *Model) WithSegmentation(p SegmentPolicy) *Model {
	cp := *m
	cp.policy = p
	return &cp
}

func (m *Model) Segmentation() SegmentPolicy {
	return m.policy
}

// VocabSize is the number of ids, the unknown sentinel included.
func (m *Model) VocabSize() int {
	return m.vocab.Len()
}

func (m *Model) NumMerges() int {
	return len(m.merges)
}

// Merges returns a copy of the merge rules in rank order.
func (m *Model) Merges() []MergeRule {
	out := make([]MergeRule, len(m.merges))
	copy(out, m.merges)
	return out
}

// Symbols returns every vocab symbol in id order.
func (m *Model) Symbols() []string {
	return m.vocab.Symbols()
}

func (m *Model) ID(sym string) (int, bool) {
	return m.vocab.ID(sym)
}

func (m *Model) Symbol(id int) (string, bool) {
	return m.vocab.Symbol(id)
}
