package reference

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCounterUnknownName(t *testing.T) {
	_, err := NewCounter("definitely-not-an-encoding")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-an-encoding")
}

// Loading a real encoding needs network access or a warm cache, so it only
// runs when the cache dir is configured.
func TestCounterCounts(t *testing.T) {
	if os.Getenv("TIKTOKEN_CACHE_DIR") == "" {
		t.Skip("TIKTOKEN_CACHE_DIR not set")
	}

	c, err := NewCounter("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEncoding, c.Name())

	n := c.Count("hello world")
	assert.Positive(t, n)
	assert.Equal(t, 2*n, c.CountAll([]string{"hello world", "hello world"}))
	assert.Zero(t, c.Count(""))
}
