package tokenizer

import "strings"

// Decode maps ids back to symbols and concatenates them. Ids outside the
// vocab decode to UnknownToken.
//
// Word boundaries are not restored: Decode(Encode("ab cd")) is "abcd".
// Callers that need the spacing back must keep it themselves.
func (m *Model) Decode(ids []int) string {
	if len(ids) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, id := range ids {
		sym, ok := m.vocab.Symbol(id)
		if !ok {
			sym = UnknownToken
		}
		sb.WriteString(sym)
	}
	return sb.String()
}

// DecoderState decodes id batches as they arrive. Decoding keeps no state
// between batches, so there is nothing to flush.
type DecoderState struct {
	model *Model
}

func NewDecoderState(m *Model) *DecoderState {
	return &DecoderState{model: m}
}

// Feed decodes one batch of ids.
func (d *DecoderState) Feed(ids []int) []byte {
	if len(ids) == 0 {
		return nil
	}
	return []byte(d.model.Decode(ids))
}
