// Package imaging normalizes document photos before text recognition.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"

	"3tcapital/ms_kyc_core/internal/core/ocr"
)

// MaxWidth is the widest image handed to the OCR engine. Phone photos are
// scaled down to it; smaller images keep their size.
const MaxWidth = 2000

// Prepare decodes a JPEG or PNG image, converts it to grayscale, scales it
// down to MaxWidth and returns it PNG encoded.
func Prepare(data []byte) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ocr.ErrUnreadableImage, err)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("%w: %s", ocr.ErrUnreadableImage, format)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > MaxWidth {
		height = height * MaxWidth / width
		width = MaxWidth
	}

	dst := image.NewGray(image.Rect(0, 0, width, max(height, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
