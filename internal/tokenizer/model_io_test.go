package tokenizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSaveLoadRoundTrip(t *testing.T) {
	corpus := []string{"low lower lowest newer wider", "naïve café résumé"}
	for _, policy := range []SegmentPolicy{SegmentLeftmost, SegmentRank} {
		m := NewTrainer(WithSegmentation(policy)).Train(corpus, 30)
		dir := filepath.Join(t.TempDir(), "model")
		require.NoError(t, m.Save(dir))

		loaded, manifest, err := LoadModel(dir)
		require.NoError(t, err)

		assert.Equal(t, m.Symbols(), loaded.Symbols())
		assert.Equal(t, m.Merges(), loaded.Merges())
		assert.Equal(t, policy, loaded.Segmentation())

		assert.Equal(t, FormatVersion, manifest.Version)
		assert.Equal(t, TieBreakName, manifest.TieBreak)
		assert.Equal(t, policy.String(), manifest.Segmentation)
		assert.Equal(t, m.VocabSize(), manifest.VocabSize)
		assert.Equal(t, m.NumMerges(), manifest.Merges)

		for _, text := range []string{"lowest café", "newest résumé x"} {
			assert.Equal(t, m.Encode(text), loaded.Encode(text))
		}
	}
}

func TestSaveWritesReadableFiles(t *testing.T) {
	m := NewTrainer().Train([]string{"aaab"}, 1)
	dir := t.TempDir()
	require.NoError(t, m.Save(dir))

	vocab, err := os.ReadFile(filepath.Join(dir, VocabFile))
	require.NoError(t, err)
	assert.Contains(t, string(vocab), `"<UNK>": 0`)

	merges, err := os.ReadFile(filepath.Join(dir, MergesFile))
	require.NoError(t, err)
	assert.Equal(t, "#version: 1\na a\n", string(merges))
}

func TestLoadEmptyModel(t *testing.T) {
	m := NewTrainer().Train(nil, 10)
	dir := t.TempDir()
	require.NoError(t, m.Save(dir))

	loaded, _, err := LoadModel(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.VocabSize())
	assert.Equal(t, []int{UnknownID}, loaded.Encode("q"))
}

func TestLoadModelFromFilesErrors(t *testing.T) {
	const goodVocab = `{"<UNK>": 0, "a": 1, "b": 2, "ab": 3}`
	const goodMerges = "#version: 1\na b\n"

	cases := []struct {
		name   string
		vocab  string
		merges string
		target error
	}{
		{"gap", `{"<UNK>": 0, "a": 2}`, goodMerges, ErrVocabNotDense},
		{"negative", `{"<UNK>": 0, "a": -1}`, goodMerges, ErrVocabNotDense},
		{"repeated", `{"<UNK>": 0, "a": 1, "b": 1}`, goodMerges, ErrVocabNotDense},
		{"no_sentinel", `{"a": 0, "b": 1}`, goodMerges, ErrUnknownSentinel},
		{"empty_vocab", `{}`, goodMerges, ErrUnknownSentinel},
		{"missing_half", goodVocab, "#version: 1\na c\n", ErrMergeSymbol},
		{"missing_merged", `{"<UNK>": 0, "a": 1, "b": 2}`, goodMerges, ErrMergeSymbol},
		{"no_header", goodVocab, "a b\n", ErrUnsupportedVersion},
		{"bad_version", goodVocab, "#version: 2\na b\n", ErrUnsupportedVersion},
		{"empty_merges", goodVocab, "", ErrUnsupportedVersion},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			vp := writeFile(t, dir, VocabFile, tc.vocab)
			mp := writeFile(t, dir, MergesFile, tc.merges)

			_, err := LoadModelFromFiles(vp, mp, SegmentLeftmost)
			require.ErrorIs(t, err, tc.target)
		})
	}
}

func TestLoadModelFromFilesMalformed(t *testing.T) {
	dir := t.TempDir()
	vp := writeFile(t, dir, VocabFile, `{"<UNK>": 0, "a": 1, "b": 2, "ab": 3}`)

	mp := writeFile(t, dir, MergesFile, "#version: 1\na b c\n")
	_, err := LoadModelFromFiles(vp, mp, SegmentLeftmost)
	require.ErrorContains(t, err, "line 2")

	bad := writeFile(t, dir, "bad.json", `{"<UNK>": 0,`)
	_, err = LoadModelFromFiles(bad, mp, SegmentLeftmost)
	require.Error(t, err)

	_, err = LoadModelFromFiles(filepath.Join(dir, "missing.json"), mp, SegmentLeftmost)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadModelFromFilesSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	vp := writeFile(t, dir, VocabFile, `{"<UNK>": 0, "a": 1, "b": 2, "ab": 3}`)
	mp := writeFile(t, dir, MergesFile, "#version: 1\n\na b\n\n")

	m, err := LoadModelFromFiles(vp, mp, SegmentLeftmost)
	require.NoError(t, err)
	assert.Equal(t, 1, m.NumMerges())
	assert.Equal(t, []int{3}, m.Encode("ab"))
}

func TestLoadModelManifestChecks(t *testing.T) {
	m := NewTrainer().Train([]string{"ab"}, 1)

	cases := map[string]string{
		"version":      "version: 9\n",
		"tie_break":    "version: 1\ntie_break: frequency-first\n",
		"segmentation": "version: 1\nsegmentation: greedy\n",
	}
	for name, manifest := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, m.Save(dir))
			writeFile(t, dir, ManifestFile, manifest)

			_, _, err := LoadModel(dir)
			require.Error(t, err)
		})
	}

	_, _, err := LoadModel(t.TempDir())
	require.ErrorIs(t, err, os.ErrNotExist)
}
