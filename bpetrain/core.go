// Package bpetrain trains byte-pair-encoding subword vocabularies and
// segments text with them.
package bpetrain

import (
	"log/slog"

	"github.com/bpetrain/internal/tokenizer"
)

// Encoder interface
type Encoder interface {
	/*
		Feed consumes the next chunk of raw bytes from the input stream. It may emit zero or more
		completed token IDs: every word already followed by whitespace is final. Chunks may split
		words and UTF-8 sequences anywhere.
	*/
	Feed(chunk []byte) []int

	/*
		Flush tells the encoder that the stream is complete. It returns the ids of the last, unterminated
		word. After flush, the encoder is reset to a clean state and can be reused for a new stream.
	*/
	Flush() []int
}

// Decoder interface, no flush because decoding keeps no state between batches
type Decoder interface {
	/*
		Feed consumes token IDs and returns the decoded bytes. Unknown ids decode to the unknown
		marker and words are not separated.
	*/
	Feed(tokens []int) []byte
}

type (
	// Model is a trained vocabulary plus its ordered merge rules. It is immutable.
	Model = tokenizer.Model
	// Tokenizer is a trainable tokenizer that swaps in a fresh model on every Train.
	Tokenizer = tokenizer.BPETokenizer
	// Manifest describes a saved model directory.
	Manifest = tokenizer.Manifest
	// Option configures training.
	Option = tokenizer.TrainOption
	// SegmentPolicy picks which matching pair is merged next during segmentation.
	SegmentPolicy = tokenizer.SegmentPolicy
)

const (
	SegmentLeftmost = tokenizer.SegmentLeftmost
	SegmentRank     = tokenizer.SegmentRank

	UnknownID    = tokenizer.UnknownID
	UnknownToken = tokenizer.UnknownToken
)

// WithVocabSize caps the vocab, the unknown sentinel included. n <= 0 means no cap.
func WithVocabSize(n int) Option {
	return tokenizer.WithVocabSize(n)
}

// WithLogger sends training progress to l.
func WithLogger(l *slog.Logger) Option {
	return tokenizer.WithLogger(l)
}

func WithSegmentation(p SegmentPolicy) Option {
	return tokenizer.WithSegmentation(p)
}

// Train learns at most maxMerges merge rules from corpus.
func Train(corpus []string, maxMerges int, opts ...Option) *Model {
	return tokenizer.NewTrainer(opts...).Train(corpus, maxMerges)
}

// NewTokenizer returns an untrained tokenizer.
func NewTokenizer(opts ...Option) *Tokenizer {
	return tokenizer.NewBPETokenizer(opts...)
}

// Load reads a model directory written by Model.Save.
func Load(dir string) (*Model, error) {
	m, _, err := tokenizer.LoadModel(dir)
	return m, err
}

// NewEncoder returns a streaming encoder over m.
func NewEncoder(m *Model) Encoder {
	return &streamEncoder{state: tokenizer.NewEncoderState(m)}
}

// NewDecoder returns a streaming decoder over m.
func NewDecoder(m *Model) Decoder {
	return tokenizer.NewDecoderState(m)
}

type streamEncoder struct {
	state *tokenizer.EncoderState
}

func (e *streamEncoder) Feed(chunk []byte) []int {
	return e.state.Push(chunk)
}

func (e *streamEncoder) Flush() []int {
	return e.state.Flush()
}
