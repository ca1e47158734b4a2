package tokenizer

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// CharacterTokenizer maps printable ASCII to fixed ids 1..95 and everything
// else to UnknownID.
type CharacterTokenizer struct {
	vocab *Vocabulary
}

func NewCharacterTokenizer() *CharacterTokenizer {
	v := NewVocabulary()
	for c := 32; c < 127; c++ {
		v.Add(string(rune(c)))
	}
	return &CharacterTokenizer{vocab: v}
}

func (t *CharacterTokenizer) VocabSize() int {
	return t.vocab.Len()
}

func (t *CharacterTokenizer) Tokenize(text string) []string {
	return splitChars(text)
}

func (t *CharacterTokenizer) Encode(text string) []int {
	chars := splitChars(text)
	out := make([]int, len(chars))
	for i, c := range chars {
		if id, ok := t.vocab.ID(c); ok {
			out[i] = id
		}
	}
	return out
}

func (t *CharacterTokenizer) Decode(ids []int) string {
	return decodeWith(t.vocab, ids, "")
}

// ByteTokenizer works on raw UTF-8 bytes: byte b has id b+1, id 0 is unknown.
type ByteTokenizer struct{}

func NewByteTokenizer() *ByteTokenizer {
	return &ByteTokenizer{}
}

// VocabSize is 256 byte ids plus the unknown sentinel.
func (t *ByteTokenizer) VocabSize() int {
	return 257
}

// Tokenize returns each byte in 0xNN form.
func (t *ByteTokenizer) Tokenize(text string) []string {
	out := make([]string, len(text))
	for i := 0; i < len(text); i++ {
		out[i] = fmt.Sprintf("0x%02x", text[i])
	}
	return out
}

func (t *ByteTokenizer) Encode(text string) []int {
	out := make([]int, len(text))
	for i := 0; i < len(text); i++ {
		out[i] = int(text[i]) + 1
	}
	return out
}

// Decode rebuilds the byte string. Unknown ids and byte runs that are not
// valid UTF-8 come out as U+FFFD.
func (t *ByteTokenizer) Decode(ids []int) string {
	buf := make([]byte, 0, len(ids))
	for _, id := range ids {
		if id < 1 || id > 256 {
			buf = utf8.AppendRune(buf, utf8.RuneError)
			continue
		}
		buf = append(buf, byte(id-1))
	}
	return strings.ToValidUTF8(string(buf), string(utf8.RuneError))
}

const wordPattern = `\b\w+\b|[^\w\s]`

// WordTokenizer splits lowercased text into words and single punctuation
// marks. Its vocab holds the most common words of the texts it was built on.
type WordTokenizer struct {
	vocabSize int
	pattern   *regexp2.Regexp
	vocab     *Vocabulary
}

// NewWordTokenizer returns a tokenizer whose vocab will hold at most
// vocabSize ids, the unknown sentinel included.
func NewWordTokenizer(vocabSize int) *WordTokenizer {
	return &WordTokenizer{
		vocabSize: vocabSize,
		pattern:   regexp2.MustCompile(wordPattern, regexp2.None),
		vocab:     NewVocabulary(),
	}
}

func (t *WordTokenizer) VocabSize() int {
	return t.vocab.Len()
}

// BuildVocab replaces the vocab with the vocabSize-1 most frequent words of
// texts. Equally frequent words keep the order they first appeared in.
func (t *WordTokenizer) BuildVocab(texts []string) {
	counts := make(map[string]int)
	var order []string
	for _, text := range texts {
		for _, w := range t.Tokenize(text) {
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	keep := max(t.vocabSize-1, 0)
	if len(order) > keep {
		order = order[:keep]
	}

	v := NewVocabulary()
	for _, w := range order {
		v.Add(w)
	}
	t.vocab = v
}

func (t *WordTokenizer) Tokenize(text string) []string {
	var out []string
	m, err := t.pattern.FindStringMatch(strings.ToLower(text))
	for err == nil && m != nil {
		out = append(out, m.String())
		m, err = t.pattern.FindNextMatch(m)
	}
	return out
}

func (t *WordTokenizer) Encode(text string) []int {
	words := t.Tokenize(text)
	out := make([]int, len(words))
	for i, w := range words {
		if id, ok := t.vocab.ID(w); ok {
			out[i] = id
		}
	}
	return out
}

// Decode joins the words with single spaces.
func (t *WordTokenizer) Decode(ids []int) string {
	return decodeWith(t.vocab, ids, " ")
}

func decodeWith(v *Vocabulary, ids []int, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		sym, ok := v.Symbol(id)
		if !ok {
			sym = UnknownToken
		}
		parts[i] = sym
	}
	return strings.Join(parts, sep)
}
