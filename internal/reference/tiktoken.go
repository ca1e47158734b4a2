// Package reference counts tokens with a production tokenizer so trained
// models can be compared against it.
package reference

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is used when no reference is named.
const DefaultEncoding = "cl100k_base"

// Counter wraps a tiktoken encoding. The first use of an encoding downloads
// its ranks unless TIKTOKEN_CACHE_DIR already holds them.
type Counter struct {
	name string
	enc  *tiktoken.Tiktoken
}

// NewCounter resolves name as a model name first ("gpt-4o") and then as an
// encoding name ("cl100k_base").
func NewCounter(name string) (*Counter, error) {
	if name == "" {
		name = DefaultEncoding
	}

	enc, err := tiktoken.EncodingForModel(name)
	if err != nil {
		// try by name
		enc, err = tiktoken.GetEncoding(name)
		if err != nil {
			return nil, fmt.Errorf("loading reference encoding %q: %w", name, err)
		}
	}
	return &Counter{name: name, enc: enc}, nil
}

func (c *Counter) Name() string {
	return c.name
}

func (c *Counter) Encode(text string) []int {
	return c.enc.Encode(text, nil, nil)
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	return len(c.Encode(text))
}

// CountAll sums Count over texts.
func (c *Counter) CountAll(texts []string) int {
	total := 0
	for _, t := range texts {
		total += c.Count(t)
	}
	return total
}
