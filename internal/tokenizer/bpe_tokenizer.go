package tokenizer

import "sync/atomic"

// BPETokenizer is a trainable tokenizer. Train replaces the whole model;
// Tokenize, Encode and Decode read whichever model was published last, so
// inference never sees a half-trained state. Running Train concurrently
// with itself is the caller's problem: the last call to finish wins.
type BPETokenizer struct {
	trainer *Trainer
	model   atomic.Pointer[Model]
}

// NewBPETokenizer returns an untrained tokenizer. Until Train is called it
// knows only the unknown sentinel, so everything encodes to UnknownID.
func NewBPETokenizer(opts ...TrainOption) *BPETokenizer {
	t := &BPETokenizer{trainer: NewTrainer(opts...)}
	t.model.Store(t.trainer.Train(nil, 0))
	return t
}

// Train relearns the vocab and merges from corpus, discarding the previous model.
func (t *BPETokenizer) Train(corpus []string, maxMerges int) {
	t.model.Store(t.trainer.Train(corpus, maxMerges))
}

// Model returns the current trained model.
func (t *BPETokenizer) Model() *Model {
	return t.model.Load()
}

func (t *BPETokenizer) Tokenize(text string) []string {
	return t.Model().Tokenize(text)
}

func (t *BPETokenizer) Encode(text string) []int {
	return t.Model().Encode(text)
}

func (t *BPETokenizer) Decode(ids []int) string {
	return t.Model().Decode(ids)
}
