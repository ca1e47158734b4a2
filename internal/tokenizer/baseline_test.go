package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterTokenizer(t *testing.T) {
	tok := NewCharacterTokenizer()
	assert.Equal(t, 96, tok.VocabSize())

	ids := tok.Encode("Hi !")
	assert.Equal(t, []int{'H' - 31, 'i' - 31, 1, '!' - 31}, ids)
	assert.Equal(t, "Hi !", tok.Decode(ids))

	assert.Equal(t, []int{'a' - 31, UnknownID}, tok.Encode("aé"))
	assert.Equal(t, "a"+UnknownToken+UnknownToken, tok.Decode([]int{'a' - 31, 0, 500}))
	assert.Equal(t, []string{"a", "é"}, tok.Tokenize("aé"))
}

func TestByteTokenizer(t *testing.T) {
	tok := NewByteTokenizer()
	assert.Equal(t, 257, tok.VocabSize())

	text := "hé"
	ids := tok.Encode(text)
	assert.Equal(t, []int{'h' + 1, 0xc3 + 1, 0xa9 + 1}, ids)
	assert.Equal(t, []string{"0x68", "0xc3", "0xa9"}, tok.Tokenize(text))
	assert.Equal(t, text, tok.Decode(ids))

	assert.Equal(t, "a�b", tok.Decode([]int{'a' + 1, 0, 'b' + 1}))
	assert.Equal(t, "a�", tok.Decode([]int{'a' + 1, 0xc3 + 1}))
	assert.Equal(t, "�", tok.Decode([]int{300}))
}

func TestByteTokenizerCoversEveryByte(t *testing.T) {
	tok := NewByteTokenizer()
	for b := 0; b < 256; b++ {
		ids := tok.Encode(string([]byte{byte(b)}))
		require.Equal(t, []int{b + 1}, ids)
	}
}

func TestWordTokenizerSplit(t *testing.T) {
	tok := NewWordTokenizer(100)

	assert.Equal(t, []string{"hello", ",", "world", "!"}, tok.Tokenize("Hello, World!"))
	assert.Equal(t, []string{"don", "'", "t"}, tok.Tokenize("don't"))
	assert.Equal(t, []string{"你好世界", "。"}, tok.Tokenize("你好世界。"))
	assert.Empty(t, tok.Tokenize("   "))
}

func TestWordTokenizerBuildVocab(t *testing.T) {
	tok := NewWordTokenizer(4)
	tok.BuildVocab([]string{"b a c", "c a d", "a e"})

	// a=3, then c=2, then b before d and e by first appearance
	assert.Equal(t, 4, tok.VocabSize())
	assert.Equal(t, []int{1, 2, 3, UnknownID}, tok.Encode("a c b d"))
	assert.Equal(t, "a c b "+UnknownToken, tok.Decode([]int{1, 2, 3, 0}))

	tok.BuildVocab([]string{"z"})
	assert.Equal(t, 2, tok.VocabSize())
	assert.Equal(t, []int{UnknownID, 1}, tok.Encode("a z"))
}

func TestWordTokenizerTinyVocab(t *testing.T) {
	tok := NewWordTokenizer(0)
	tok.BuildVocab([]string{"a b c"})

	assert.Equal(t, 1, tok.VocabSize())
	assert.Equal(t, []int{0, 0}, tok.Encode("a b"))
}

func TestTokenizersShareInterface(t *testing.T) {
	m := NewTrainer().Train([]string{"ab ab"}, 1)
	for _, tok := range []Tokenizer{m, NewBPETokenizer(), NewCharacterTokenizer(), NewByteTokenizer(), NewWordTokenizer(10)} {
		assert.NotPanics(t, func() {
			tok.Decode(tok.Encode("ab ?"))
			tok.Tokenize("ab ?")
		})
	}
}
