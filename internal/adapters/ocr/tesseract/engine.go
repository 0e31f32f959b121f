// Package tesseract recognizes document text with the Tesseract OCR engine.
package tesseract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/otiai10/gosseract/v2"

	"3tcapital/ms_kyc_core/internal/adapters/ocr/imaging"
	"3tcapital/ms_kyc_core/internal/core/ocr"
)

const engineName = "tesseract"

// Engine implements ocr.Engine on top of gosseract. Each call uses its own
// client, so an Engine is safe for concurrent use.
type Engine struct {
	languages []string
	newClient func() *gosseract.Client
	log       *slog.Logger
}

// NewEngine creates a Tesseract engine for the given trained data languages.
func NewEngine(languages []string, log *slog.Logger) *Engine {
	return &Engine{
		languages: languages,
		newClient: gosseract.NewClient,
		log:       log,
	}
}

func (e *Engine) Name() string { return engineName }

// Recognize returns a PAGE block followed by one LINE block per text line.
func (e *Engine) Recognize(ctx context.Context, image []byte) ([]ocr.Block, error) {
	prepared, err := imaging.Prepare(image)
	if err != nil {
		return nil, err
	}

	type result struct {
		boxes []gosseract.BoundingBox
		err   error
	}
	done := make(chan result, 1)

	go func() {
		boxes, err := e.recognizeLines(prepared)
		done <- result{boxes: boxes, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		blocks := toBlocks(r.boxes)
		e.log.Debug("OCR completed",
			"engine", engineName,
			"lines", len(blocks)-1,
		)
		return blocks, nil
	}
}

func (e *Engine) recognizeLines(image []byte) ([]gosseract.BoundingBox, error) {
	client := e.newClient()
	defer client.Close()

	if len(e.languages) > 0 {
		if err := client.SetLanguage(e.languages...); err != nil {
			return nil, fmt.Errorf("set ocr languages: %w", err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognize lines: %w", err)
	}
	return boxes, nil
}

func toBlocks(boxes []gosseract.BoundingBox) []ocr.Block {
	blocks := make([]ocr.Block, 0, len(boxes)+1)
	blocks = append(blocks, ocr.Block{ID: uuid.NewString(), BlockType: ocr.BlockTypePage})

	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		blocks = append(blocks, ocr.Block{
			ID:         uuid.NewString(),
			BlockType:  ocr.BlockTypeLine,
			Text:       text,
			Confidence: box.Confidence,
		})
	}
	return blocks
}
