package tokenizer

import (
	"errors"
	"fmt"
)

const (
	// UnknownID is permanently reserved for symbols missing from the vocabulary.
	UnknownID = 0
	// UnknownToken is the symbol stored at UnknownID and the text emitted when
	// decoding an id the vocabulary does not know.
	UnknownToken = "<UNK>"
)

var (
	ErrVocabNotDense      = errors.New("vocab ids are not dense")
	ErrUnknownSentinel    = errors.New("vocab does not map " + UnknownToken + " to id 0")
	ErrMergeSymbol        = errors.New("merge rule references a symbol outside the vocab")
	ErrUnsupportedVersion = errors.New("unsupported model format version")
)

// Vocabulary is a bijection between symbols and dense ids. Ids are handed out
// in insertion order and never reused.
type Vocabulary struct {
	toID    map[string]int
	symbols []string // index = id
}

// NewVocabulary returns a vocabulary holding only the unknown sentinel.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{
		toID:    map[string]int{UnknownToken: UnknownID},
		symbols: []string{UnknownToken},
	}
}

// vocabularyFromSymbols rebuilds a vocabulary where symbols[id] is the symbol
// for id. The slice must start with the unknown sentinel and hold no duplicates.
func vocabularyFromSymbols(symbols []string) (*Vocabulary, error) {
	if len(symbols) == 0 || symbols[UnknownID] != UnknownToken {
		return nil, ErrUnknownSentinel
	}

	v := &Vocabulary{
		toID:    make(map[string]int, len(symbols)),
		symbols: make([]string, len(symbols)),
	}
	for id, s := range symbols {
		if prev, exists := v.toID[s]; exists {
			return nil, fmt.Errorf("duplicate symbol %q at ids %d and %d", s, prev, id)
		}
		v.toID[s] = id
		v.symbols[id] = s
	}
	return v, nil
}

// Add inserts sym with the next free id and returns it. Adding a symbol that
// is already present returns its existing id.
func (v *Vocabulary) Add(sym string) int {
	if id, ok := v.toID[sym]; ok {
		return id
	}
	id := len(v.symbols)
	v.toID[sym] = id
	v.symbols = append(v.symbols, sym)
	return id
}

func (v *Vocabulary) ID(sym string) (int, bool) {
	id, ok := v.toID[sym]
	return id, ok
}

func (v *Vocabulary) Symbol(id int) (string, bool) {
	if id < 0 || id >= len(v.symbols) {
		return "", false
	}
	return v.symbols[id], true
}

func (v *Vocabulary) Len() int {
	return len(v.symbols)
}

// Symbols returns a copy of every symbol in id order.
func (v *Vocabulary) Symbols() []string {
	out := make([]string, len(v.symbols))
	copy(out, v.symbols)
	return out
}
