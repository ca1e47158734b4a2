package tokenizer

import "fmt"

const maxFastLookupSize = 256

// PairLookup answers "which rule merges symbol a followed by symbol b" using a
// hybrid layout:
//   - a dense 2D table when both ids are below fastLookupSize (O(1) lookup)
//   - a map fallback for everything else
//
// Values are packed as rank<<32 | mergedID.
type PairLookup struct {
	fastLookup     [][]uint64
	fastLookupSize int
	fallback       map[uint64]uint64
}

func packPair(a, b int) uint64 {
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

func packRule(rank, mergedID int) uint64 {
	return uint64(uint32(rank))<<32 | uint64(uint32(mergedID))
}

// unpackRule splits a lookup value into rank and merged id.
func unpackRule(v uint64) (rank, mergedID int) {
	return int(v >> 32), int(v & 0xFFFFFFFF)
}

// NewPairLookup indexes merges by the vocab ids of their two halves. Every
// half and every merged symbol must already be in vocab.
func NewPairLookup(merges []MergeRule, vocab *Vocabulary) (*PairLookup, error) {
	fastLookupSize := min(vocab.Len(), maxFastLookupSize)

	fastLookup := make([][]uint64, fastLookupSize)
	for i := range fastLookup {
		fastLookup[i] = make([]uint64, fastLookupSize)
		for j := range fastLookup[i] {
			fastLookup[i][j] = ^uint64(0)
		}
	}

	pl := &PairLookup{
		fastLookup:     fastLookup,
		fastLookupSize: fastLookupSize,
		fallback:       make(map[uint64]uint64),
	}

	for _, rule := range merges {
		a, okA := vocab.ID(rule.Pair.Left)
		b, okB := vocab.ID(rule.Pair.Right)
		c, okC := vocab.ID(rule.Symbol)
		if !okA || !okB || !okC {
			return nil, fmt.Errorf("rule %d (%q %q): %w", rule.Rank, rule.Pair.Left, rule.Pair.Right, ErrMergeSymbol)
		}

		// keep the earliest rule if a pair shows up twice
		if _, exists := pl.Lookup(a, b); exists {
			continue
		}

		value := packRule(rule.Rank, c)
		if a < fastLookupSize && b < fastLookupSize {
			pl.fastLookup[a][b] = value
		} else {
			pl.fallback[packPair(a, b)] = value
		}
	}

	return pl, nil
}

// Lookup returns the packed rule for (a, b) and whether one exists.
func (pl *PairLookup) Lookup(a, b int) (uint64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}

	if a < pl.fastLookupSize && b < pl.fastLookupSize {
		value := pl.fastLookup[a][b]
		if value+1 != 0 {
			return value, true
		}
		return 0, false
	}

	value, ok := pl.fallback[packPair(a, b)]
	return value, ok
}
