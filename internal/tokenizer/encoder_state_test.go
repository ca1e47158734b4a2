package tokenizer

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func streamModel(t *testing.T) *Model {
	t.Helper()
	return NewTrainer().Train([]string{
		"hello world this is a streaming tokenizer",
		"नमस्ते दुनिया hello again",
		"aaaaaaab aaaaaaab world",
	}, 60)
}

func encodeStreaming(t *testing.T, m *Model, input []byte, chunkSizes []int) []int {
	t.Helper()
	es := NewEncoderState(m)
	var out []int

	pos := 0
	for _, sz := range chunkSizes {
		if pos >= len(input) {
			break
		}
		end := min(pos+sz, len(input))
		out = append(out, es.Push(input[pos:end])...)
		pos = end
	}
	if pos < len(input) {
		out = append(out, es.Push(input[pos:])...)
	}

	return append(out, es.Flush()...)
}

func TestStreamingMatchesEncode_SimpleChunkings(t *testing.T) {
	m := streamModel(t)

	cases := []struct {
		name string
		s    string
	}{
		{"empty", ""},
		{"ascii_short", "hello world"},
		{"trailing_space", "hello world "},
		{"ascii_punct", "hello, world! this is bpe :)"},
		{"utf8_simple", "नमस्ते दुनिया"},
		{"emoji", "hi 👋🏽 this is 🔥 tokenizer"},
		{"repeated_patterns", "aaaaaaabaaaaaaabaaaaaaab"},
		{"mixed_space", "hello\tworld\nagain there"},
	}

	chunkings := [][]int{
		{1 << 20},
		{1},
		{2},
		{3},
		{4, 4, 4, 4, 4, 4, 4, 4},
	}

	for _, tc := range cases {
		for i, chunks := range chunkings {
			input := []byte(tc.s)

			want := m.Encode(tc.s)
			got := encodeStreaming(t, m, input, repeatChunks(chunks, len(input)))

			require.Equal(t, want, got, "case %q chunking %d", tc.name, i)
		}
	}
}

// repeatChunks cycles chunks until they cover n bytes.
func repeatChunks(chunks []int, n int) []int {
	var out []int
	total := 0
	for total < n {
		for _, c := range chunks {
			out = append(out, c)
			total += c
		}
	}
	return out
}

func TestStreamingMatchesEncode_Randomized(t *testing.T) {
	m := streamModel(t)

	const (
		numCases  = 200
		maxLen    = 256
		maxChunks = 16
	)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	pieces := []string{"hello", "world", " ", "  ", "\n", "a", "aaab", "नम", "स्ते", "🔥", "\xff", "\xe2\x82"}

	for caseIdx := 0; caseIdx < numCases; caseIdx++ {
		var input []byte
		for len(input) < maxLen {
			input = append(input, pieces[r.Intn(len(pieces))]...)
			if r.Intn(10) == 0 {
				break
			}
		}

		var chunks []int
		for range 1 + r.Intn(maxChunks) {
			chunks = append(chunks, 1+r.Intn(8))
		}

		want := m.Encode(string(input))
		got := encodeStreaming(t, m, input, chunks)
		require.Equal(t, want, got, "case %d input %q chunks %v", caseIdx, input, chunks)
	}
}

func TestStreamingHoldsBackUnfinishedWord(t *testing.T) {
	m := streamModel(t)
	es := NewEncoderState(m)

	require.Nil(t, es.Push([]byte("hel")))
	require.Nil(t, es.Push([]byte("lo")))
	require.Equal(t, m.Encode("hello"), es.Push([]byte(" wor")))
	require.Equal(t, m.Encode("wor"), es.Flush())

	// state is reusable after Flush
	require.Nil(t, es.Flush())
	require.Equal(t, m.Encode("again"), es.Push([]byte("again\n")))
}

func TestCommittedPrefix(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 0},
		{"abc ", 4},
		{"ab cd", 3},
		{"a b\tc", 4},
		{"a b", 3},
		{"a \xe2\x82", 2},
		{"a\xff b", 3},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, committedPrefix([]byte(tc.in)), "%q", tc.in)
	}
}

func TestDecoderStateFeed(t *testing.T) {
	m := streamModel(t)
	d := NewDecoderState(m)

	ids := m.Encode("hello world")
	var out []byte
	for _, id := range ids {
		out = append(out, d.Feed([]int{id})...)
	}
	require.Equal(t, m.Decode(ids), string(out))
	require.Nil(t, d.Feed(nil))
}
