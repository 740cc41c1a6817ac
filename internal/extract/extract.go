package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnsupportedFormat means no extractor claims the file extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrExtractionFailed means the extractor claimed the file but could not
	// produce text from it.
	ErrExtractionFailed = errors.New("extraction failed")
)

// Extractor turns an offer file on disk into raw text suitable for parsing.
type Extractor interface {
	Supports(path string) bool
	Extract(ctx context.Context, path string) (string, error)
}

// PlainText handles .txt and .md offer files, the formats brand emails get
// saved as in practice.
type PlainText struct{}

func (PlainText) Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	default:
		return false
	}
}

func (PlainText) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: file is not valid utf-8", ErrExtractionFailed)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%w: file is empty", ErrExtractionFailed)
	}
	return text, nil
}

// FromFile runs the first extractor that supports the path.
func FromFile(ctx context.Context, path string, extractors ...Extractor) (string, error) {
	for _, ex := range extractors {
		if ex.Supports(path) {
			return ex.Extract(ctx, path)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}
