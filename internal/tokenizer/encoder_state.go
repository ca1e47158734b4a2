package tokenizer

import (
	"unicode"
	"unicode/utf8"
)

// EncoderState encodes a byte stream incrementally. Words never merge across
// whitespace, so every word already followed by whitespace is final and can
// be emitted; the unterminated tail (including a UTF-8 sequence split by the
// chunk boundary) is held back until more input or Flush arrives.
type EncoderState struct {
	model *Model

	buf    []byte
	outBuf []int
}

// NewEncoderState returns a new instance of the encoder state.
func NewEncoderState(m *Model) *EncoderState {
	return &EncoderState{model: m}
}

// Push consumes the next chunk of raw bytes and emits any finalized ids.
func (st *EncoderState) Push(chunk []byte) []int {
	st.outBuf = st.outBuf[:0]
	if len(chunk) > 0 {
		st.buf = append(st.buf, chunk...)
	}

	st.emitCommitted()

	if len(st.outBuf) == 0 {
		return nil
	}
	return append([]int(nil), st.outBuf...)
}

// Flush encodes whatever bytes remain in the internal buffer and resets the
// state so it can be reused for a new stream.
func (st *EncoderState) Flush() []int {
	st.outBuf = st.outBuf[:0]
	if len(st.buf) > 0 {
		st.outBuf = append(st.outBuf, st.model.Encode(string(st.buf))...)
		st.buf = st.buf[:0]
	}

	if len(st.outBuf) == 0 {
		return nil
	}
	return append([]int(nil), st.outBuf...)
}

func (st *EncoderState) emitCommitted() {
	cut := committedPrefix(st.buf)
	if cut == 0 {
		return
	}

	st.outBuf = append(st.outBuf, st.model.Encode(string(st.buf[:cut]))...)
	st.buf = append(st.buf[:0], st.buf[cut:]...)
}

// committedPrefix returns the length of the longest prefix of buf that ends
// right after a whitespace rune. Decoding stops at an incomplete trailing
// sequence since its meaning depends on bytes not seen yet.
func committedPrefix(buf []byte) int {
	cut := 0
	for pos := 0; pos < len(buf); {
		if !utf8.FullRune(buf[pos:]) {
			break
		}
		r, size := utf8.DecodeRune(buf[pos:])
		pos += size
		if unicode.IsSpace(r) {
			cut = pos
		}
	}
	return cut
}
