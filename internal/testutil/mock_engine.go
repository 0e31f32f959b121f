package testutil

import (
	"context"
	"sync/atomic"

	"3tcapital/ms_kyc_core/internal/core/ocr"
)

// MockEngine is a mock implementation of ocr.Engine for testing.
type MockEngine struct {
	RecognizeFunc func(ctx context.Context, image []byte) ([]ocr.Block, error)

	calls atomic.Int32
}

func (m *MockEngine) Name() string { return "mock" }

// Recognize calls the mock function if set, otherwise returns no blocks.
func (m *MockEngine) Recognize(ctx context.Context, image []byte) ([]ocr.Block, error) {
	m.calls.Add(1)
	if m.RecognizeFunc != nil {
		return m.RecognizeFunc(ctx, image)
	}
	return []ocr.Block{}, nil
}

// Calls returns how many times Recognize ran.
func (m *MockEngine) Calls() int {
	return int(m.calls.Load())
}

// LineBlocks builds LINE blocks for the given texts.
func LineBlocks(texts ...string) []ocr.Block {
	blocks := make([]ocr.Block, 0, len(texts))
	for _, text := range texts {
		blocks = append(blocks, ocr.Block{BlockType: ocr.BlockTypeLine, Text: text, Confidence: 99})
	}
	return blocks
}
