package tokenizer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/bpetrain/internal/logging"
)

// DefaultVocabSize is the vocab ceiling used when none is configured.
const DefaultVocabSize = 10000

// Trainer learns merge rules from a corpus. Its zero value is not usable;
// build one with NewTrainer.
type Trainer struct {
	vocabSize int
	policy    SegmentPolicy
	logger    *slog.Logger
}

// TrainOption configures a Trainer.
type TrainOption func(*Trainer)

// WithVocabSize caps the vocab (unknown sentinel included) at n ids.
// n <= 0 disables the ceiling so only the merge budget stops training.
func WithVocabSize(n int) TrainOption {
	return func(tr *Trainer) { tr.vocabSize = n }
}

// WithSegmentation sets the policy stored in trained models.
func WithSegmentation(p SegmentPolicy) TrainOption {
	return func(tr *Trainer) { tr.policy = p }
}

func WithLogger(l *slog.Logger) TrainOption {
	return func(tr *Trainer) {
		if l != nil {
			tr.logger = l
		}
	}
}

func NewTrainer(opts ...TrainOption) *Trainer {
	tr := &Trainer{
		vocabSize: DefaultVocabSize,
		policy:    SegmentLeftmost,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(tr)
	}
	return tr
}

func (tr *Trainer) VocabSize() int {
	return tr.vocabSize
}

// Train builds a fresh model from corpus, learning at most maxMerges rules.
//
// Steps:
//  1. split the corpus into word units of single characters
//  2. give every distinct character an id, in sorted order, starting at 1
//  3. until the budget is spent, the vocab is full, or no unit has a pair
//     left: count pairs, pick the best, record it, rewrite the units and
//     add the merged symbol if it is new
//
// Training never fails; an empty corpus gives a model with only the unknown
// sentinel and no rules.
func (tr *Trainer) Train(corpus []string, maxMerges int) *Model {
	ctx := context.Background()
	units := Symbolize(corpus)

	vocab := NewVocabulary()
	for _, ch := range baseCharacters(units) {
		vocab.Add(ch)
	}
	tr.logger.Debug("initial vocab built",
		"words", len(units),
		"characters", vocab.Len()-1)

	var merges []MergeRule
	reason := "merge budget spent"
	for len(merges) < maxMerges {
		if tr.vocabSize > 0 && vocab.Len() >= tr.vocabSize {
			reason = "vocab ceiling reached"
			break
		}

		pairs := CountPairs(units)
		tr.logger.Log(ctx, logging.LevelTrace, "pair statistics", "distinct_pairs", len(pairs))
		best, freq, ok := SelectPair(pairs)
		if !ok {
			reason = "no pairs left"
			break
		}

		rule := MergeRule{Pair: best, Symbol: best.Merged(), Rank: len(merges)}
		merges = append(merges, rule)
		units = RewriteUnits(units, best)
		id := vocab.Add(rule.Symbol)

		tr.logger.Debug("merge",
			"rank", rule.Rank,
			"left", best.Left,
			"right", best.Right,
			"symbol", rule.Symbol,
			"id", id,
			"freq", freq)
	}

	tr.logger.Info("training finished",
		"reason", reason,
		"merges", len(merges),
		"vocab_size", vocab.Len())

	m, err := newModel(vocab, merges, tr.policy)
	if err != nil {
		// every rule half was either a base character or an earlier merge
		panic(fmt.Sprintf("trained model is inconsistent: %v", err))
	}
	return m
}

// baseCharacters returns the distinct single-character symbols of units,
// sorted by code point.
func baseCharacters(units []WordUnit) []string {
	seen := make(map[string]struct{})
	for _, u := range units {
		for _, s := range u.Symbols {
			seen[s] = struct{}{}
		}
	}

	chars := make([]string, 0, len(seen))
	for s := range seen {
		chars = append(chars, s)
	}
	sort.Strings(chars)
	return chars
}
