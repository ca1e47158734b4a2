package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// WordUnit is one distinct whitespace-delimited surface word of the corpus,
// held as its current symbol sequence, together with how often it occurs.
type WordUnit struct {
	Symbols []string
	Freq    int
}

// Surface joins the unit's symbols back into the original word.
func (u WordUnit) Surface() string {
	return strings.Join(u.Symbols, "")
}

// Symbolize splits every text on whitespace and returns one unit per distinct
// word, split into single characters. Units come back in order of first
// appearance. Case and everything else is kept as-is.
func Symbolize(corpus []string) []WordUnit {
	index := make(map[string]int)
	var units []WordUnit

	for _, text := range corpus {
		for _, word := range strings.Fields(text) {
			if i, ok := index[word]; ok {
				units[i].Freq++
				continue
			}

			index[word] = len(units)
			units = append(units, WordUnit{Symbols: splitChars(word), Freq: 1})
		}
	}

	return units
}

// splitChars cuts word into one symbol per code point. Invalid UTF-8 bytes
// become single-byte symbols so the pieces always concatenate back to word.
func splitChars(word string) []string {
	out := make([]string, 0, utf8.RuneCountInString(word))
	for len(word) > 0 {
		_, size := utf8.DecodeRuneInString(word)
		out = append(out, word[:size])
		word = word[size:]
	}
	return out
}
