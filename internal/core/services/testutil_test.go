package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/imaging"
)

// gradientBuffer builds a deterministic synthetic image. The red
// channel's LSB strictly alternates with x, so the assembled LSB bytes
// are 0x55 or 0xAA and can never contain the watermark terminator:
// the fixture is provably clean.
func gradientBuffer(width, height int) *domain.PixelBuffer {
	buf := domain.NewPixelBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf.SetRGB(x, y, byte(x*7), byte(y*11), byte(x+y))
		}
	}
	return buf
}

// checkerBuffer builds a high-contrast checkerboard, visually distinct
// from the gradient fixture.
func checkerBuffer(width, height, cell int) *domain.PixelBuffer {
	buf := domain.NewPixelBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/cell+y/cell)%2 == 0 {
				buf.SetRGB(x, y, 255, 255, 255)
			} else {
				buf.SetRGB(x, y, 0, 0, 0)
			}
		}
	}
	return buf
}

// pngBytes serialises a buffer for code paths that take encoded images.
func pngBytes(t *testing.T, buf *domain.PixelBuffer) []byte {
	t.Helper()
	data, err := imaging.EncodePNG(buf)
	require.NoError(t, err)
	return data
}
