// Package imaging converts between encoded image bytes and the domain's
// PixelBuffer representation.
//
// Decoding normalises every supported format to a 3-channel RGB layout:
// alpha is composited away and grayscale is expanded, so downstream
// fingerprinting and watermarking see one canonical colour space.
//
// Encoding always produces PNG. The watermark lives in pixel LSBs, so
// the published artifact must use a lossless format; re-saving through a
// lossy codec destroys the mark, which is an accepted limitation of the
// scheme.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder for image.Decode
	"image/png"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
)

// Decode parses PNG or JPEG bytes into a PixelBuffer.
// Returns domain.ErrDecode when the bytes are not a supported raster
// format, and domain.ErrInvalidImage for degenerate (zero-area) images.
// The detected format name ("png", "jpeg") is returned alongside.
func Decode(data []byte) (*domain.PixelBuffer, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, "", fmt.Errorf("%w: zero-area image %dx%d", domain.ErrInvalidImage, width, height)
	}

	buf := domain.NewPixelBuffer(width, height)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// RGBA returns alpha-premultiplied 16-bit channels;
			// truncating to the high byte yields the 8-bit value.
			r, g, b, _ := img.At(x, y).RGBA()
			buf.Pix[i] = byte(r >> 8)
			buf.Pix[i+1] = byte(g >> 8)
			buf.Pix[i+2] = byte(b >> 8)
			i += 3
		}
	}
	return buf, format, nil
}

// EncodePNG serialises a PixelBuffer losslessly.
// The output is deterministic for identical pixel content, which makes
// repeated watermark embeds byte-identical and therefore idempotent.
func EncodePNG(buf *domain.PixelBuffer) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			r, g, b := buf.RGB(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			img.Pix[i+3] = 0xff
		}
	}

	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}
