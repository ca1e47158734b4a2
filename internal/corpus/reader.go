// Package corpus loads training text from files.
package corpus

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"
)

// StdinPath names standard input in a path list.
const StdinPath = "-"

const maxOpenFiles = 8

// stdin is swapped out by tests.
var stdin io.Reader = os.Stdin

// Load reads every path concurrently and returns their non-empty lines, file
// by file in argument order. Files ending in .gz or .zst are decompressed.
func Load(ctx context.Context, paths ...string) ([]string, error) {
	results := make([][]string, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxOpenFiles)
	for i, path := range paths {
		g.Go(func() error {
			lines, err := loadFile(ctx, path)
			if err != nil {
				return fmt.Errorf("reading corpus %s: %w", path, err)
			}
			results[i] = lines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var texts []string
	for _, lines := range results {
		texts = append(texts, lines...)
	}
	return texts, nil
}

func loadFile(ctx context.Context, path string) ([]string, error) {
	if path == StdinPath {
		return readLines(ctx, stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	r, closeFn, err := decompress(f, path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return readLines(ctx, r)
}

// decompress picks a reader by file extension.
func decompress(r io.Reader, path string) (io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return gz, func() { _ = gz.Close() }, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		return zr, zr.Close, nil
	default:
		return r, func() {}, nil
	}
}

func readLines(ctx context.Context, r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, err := br.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
