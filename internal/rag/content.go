package rag

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// ErrNotText marks files whose bytes are not valid text content.
var ErrNotText = errors.New("content is not text")

// ErrTooLarge marks files exceeding the configured size cap.
var ErrTooLarge = errors.New("file exceeds maximum indexable size")

// readContent reads a file for embedding. Binary content (NUL bytes or
// invalid UTF-8) and oversized files are rejected; such files stay out
// of both stores and are reconsidered on the next cycle.
func readContent(path string, maxSize int64) (string, error) {
	if maxSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return "", err
		}
		if info.Size() > maxSize {
			return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, info.Size())
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return "", ErrNotText
	}
	return string(data), nil
}
