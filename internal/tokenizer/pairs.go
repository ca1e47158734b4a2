package tokenizer

// Pair is two adjacent symbols considered as a merge candidate.
type Pair struct {
	Left  string
	Right string
}

// Merged is the symbol produced by merging the pair.
func (p Pair) Merged() string {
	return p.Left + p.Right
}

// less is the tie-break order between equally frequent pairs: left symbol
// first, then right symbol, both compared by code point.
func (p Pair) less(o Pair) bool {
	if p.Left != o.Left {
		return p.Left < o.Left
	}
	return p.Right < o.Right
}

// MergeRule is a learned rewrite of Pair into Symbol. Rank 0 was learned first.
type MergeRule struct {
	Pair   Pair
	Symbol string
	Rank   int
}

// CountPairs sums, over every unit, the unit frequency times the number of
// times each adjacent pair occurs in it. Overlapping occurrences all count.
// The result is empty once no unit has two symbols left.
func CountPairs(units []WordUnit) map[Pair]int {
	pairs := make(map[Pair]int)
	for _, u := range units {
		for i := 0; i+1 < len(u.Symbols); i++ {
			pairs[Pair{u.Symbols[i], u.Symbols[i+1]}] += u.Freq
		}
	}
	return pairs
}

// SelectPair returns the most frequent pair. Among equally frequent pairs the
// smallest one by (Left, Right) wins, so the choice never depends on map
// iteration order. ok is false when pairs is empty.
func SelectPair(pairs map[Pair]int) (best Pair, freq int, ok bool) {
	for p, f := range pairs {
		if !ok || f > freq || (f == freq && p.less(best)) {
			best, freq, ok = p, f, true
		}
	}
	return best, freq, ok
}

// RewriteUnits returns a new unit collection where every non-overlapping
// left-to-right occurrence of pair is collapsed into its merged symbol.
// Frequencies are unchanged. Units without an occurrence share their symbol
// slice with the input.
func RewriteUnits(units []WordUnit, pair Pair) []WordUnit {
	merged := pair.Merged()
	out := make([]WordUnit, len(units))

	for ui, u := range units {
		if !containsPair(u.Symbols, pair) {
			out[ui] = u
			continue
		}

		symbols := make([]string, 0, len(u.Symbols)-1)
		for i := 0; i < len(u.Symbols); {
			if i+1 < len(u.Symbols) && u.Symbols[i] == pair.Left && u.Symbols[i+1] == pair.Right {
				symbols = append(symbols, merged)
				i += 2
				continue
			}
			symbols = append(symbols, u.Symbols[i])
			i++
		}
		out[ui] = WordUnit{Symbols: symbols, Freq: u.Freq}
	}

	return out
}

func containsPair(symbols []string, pair Pair) bool {
	for i := 0; i+1 < len(symbols); i++ {
		if symbols[i] == pair.Left && symbols[i+1] == pair.Right {
			return true
		}
	}
	return false
}
