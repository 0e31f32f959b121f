package ocr

import (
	"context"
	"errors"
	"fmt"

	"3tcapital/ms_kyc_core/internal/core/identity"
)

// Block types emitted by OCR engines. Only LINE blocks feed extraction.
const (
	BlockTypePage = "PAGE"
	BlockTypeLine = "LINE"
	BlockTypeWord = "WORD"
)

var (
	// ErrEmptyBlockType is reported for a block that carries no type tag.
	ErrEmptyBlockType = errors.New("block type is required")
	// ErrUnreadableImage is returned by engines for data that is not a supported image.
	ErrUnreadableImage = errors.New("unreadable image")
)

// Block is one recognized element of an OCR result.
// Field names follow the Textract block layout so its output can be posted as-is.
type Block struct {
	ID         string  `json:"Id,omitempty"`
	BlockType  string  `json:"BlockType"`
	Text       string  `json:"Text,omitempty"`
	Confidence float64 `json:"Confidence,omitempty"`
}

// Engine turns a document image into OCR blocks.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) ([]Block, error)
}

// Lines builds the line corpus for one document side: LINE blocks with
// non-empty text, in their original order. The result is never nil.
func Lines(blocks []Block) identity.Lines {
	lines := make(identity.Lines, 0, len(blocks))
	for _, b := range blocks {
		if b.BlockType != BlockTypeLine || b.Text == "" {
			continue
		}
		lines = append(lines, b.Text)
	}
	return lines
}

// Validate checks that every block carries a type tag.
func Validate(blocks []Block) error {
	for i, b := range blocks {
		if b.BlockType == "" {
			return fmt.Errorf("block %d: %w", i, ErrEmptyBlockType)
		}
	}
	return nil
}
