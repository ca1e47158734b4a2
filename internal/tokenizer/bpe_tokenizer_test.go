package tokenizer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBPETokenizerUntrained(t *testing.T) {
	tok := NewBPETokenizer()

	assert.Equal(t, 1, tok.Model().VocabSize())
	assert.Equal(t, []int{UnknownID, UnknownID, UnknownID}, tok.Encode("ab c"))
	assert.Equal(t, []string{"a", "b", "c"}, tok.Tokenize("ab c"))
	assert.Equal(t, UnknownToken, tok.Decode([]int{0}))
}

func TestBPETokenizerRetrainReplacesModel(t *testing.T) {
	tok := NewBPETokenizer(WithVocabSize(0))

	tok.Train([]string{"aaab"}, 1)
	first := tok.Model()
	assert.Equal(t, []string{"aa", "a", "b"}, tok.Tokenize("aaab"))

	tok.Train([]string{"xyz"}, 5)
	assert.Equal(t, []string{UnknownToken, "x", "y", "z", "xy", "xyz"}, tok.Model().Symbols())
	assert.Equal(t, []int{UnknownID}, tok.Encode("a"))

	// models already handed out are not touched by retraining
	assert.Equal(t, []string{"aa", "a", "b"}, first.Tokenize("aaab"))
}

func TestBPETokenizerTrainIsIdempotent(t *testing.T) {
	corpus := []string{"the cat sat on the mat", "the bat"}
	tok := NewBPETokenizer()

	tok.Train(corpus, 10)
	want := tok.Model().Merges()
	tok.Train(corpus, 10)
	require.Equal(t, want, tok.Model().Merges())
}

func TestBPETokenizerConcurrentReadsDuringTrain(t *testing.T) {
	tok := NewBPETokenizer()
	tok.Train([]string{"abc abc"}, 5)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				ids := tok.Encode("abc")
				assert.NotEmpty(t, ids)
			}
		}()
	}

	for range 20 {
		tok.Train([]string{"abc abd"}, 5)
		tok.Train([]string{"abc abc"}, 5)
	}
	close(stop)
	wg.Wait()
}
