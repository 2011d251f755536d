package services

import (
	"bytes"
	"fmt"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
)

// terminator is the 16-bit end-of-payload sentinel appended after the
// payload bits: 1111111111111110. As bytes at byte alignment this is
// 0xFF 0xFE.
const (
	terminatorHigh = 0xFF
	terminatorLow  = 0xFE
	terminatorBits = 16
)

// WatermarkCodec embeds an opaque byte payload into the least
// significant bit of the red channel, one bit per pixel in raster order,
// and recovers it from a copy of the image.
//
// This is steganography, not cryptography: the mark survives lossless
// round-trips only. Recompression, resizing, or deliberate bit flips
// destroy it, which is an accepted limitation rather than a defect.
type WatermarkCodec struct{}

// NewWatermarkCodec returns a codec. The codec is stateless; encode and
// decode are pure transforms.
func NewWatermarkCodec() *WatermarkCodec {
	return &WatermarkCodec{}
}

// Capacity returns the maximum payload size in bytes for a buffer.
func (c *WatermarkCodec) Capacity(buf *domain.PixelBuffer) int {
	return (buf.PixelCount() - terminatorBits) / 8
}

// Embed returns a new buffer carrying payload plus the terminator in
// red-channel LSBs. The source buffer is not mutated.
//
// Fails with domain.ErrPayloadTooLarge when 8*len(payload)+16 exceeds
// the pixel count (exact equality succeeds), and with
// domain.ErrPayloadUnsafe when the payload itself contains the
// terminator byte pair 0xFF 0xFE, which would truncate extraction.
// Record identifiers are ASCII, so the unsafe case never arises in
// normal operation.
func (c *WatermarkCodec) Embed(buf *domain.PixelBuffer, payload []byte) (*domain.PixelBuffer, error) {
	needed := 8*len(payload) + terminatorBits
	if needed > buf.PixelCount() {
		return nil, fmt.Errorf("%w: need %d carrier bits, image has %d pixels",
			domain.ErrPayloadTooLarge, needed, buf.PixelCount())
	}
	if bytes.Contains(payload, []byte{terminatorHigh, terminatorLow}) {
		return nil, fmt.Errorf("%w: payload embeds 0xFFFE at a byte boundary", domain.ErrPayloadUnsafe)
	}

	out := buf.Clone()
	stream := make([]byte, 0, len(payload)+2)
	stream = append(stream, payload...)
	stream = append(stream, terminatorHigh, terminatorLow)

	// One payload bit per pixel, MSB first within each byte, raster order.
	for i := 0; i < len(stream)*8; i++ {
		bit := (stream[i/8] >> (7 - i%8)) & 1
		out.Pix[i*3] = out.Pix[i*3]&0xFE | bit
	}
	return out, nil
}

// Extract scans red-channel LSBs in raster order, accumulating bits
// into bytes, and stops at the first byte-aligned occurrence of the
// terminator. Returns the payload and true, or nil and false when the
// terminator never appears within the image's bit budget. Absence of a
// watermark is a result, not an error.
func (c *WatermarkCodec) Extract(buf *domain.PixelBuffer) ([]byte, bool) {
	var assembled []byte
	var current byte
	bitsInCurrent := 0

	for i := 0; i < buf.PixelCount(); i++ {
		current = current<<1 | buf.Pix[i*3]&1
		bitsInCurrent++
		if bitsInCurrent < 8 {
			continue
		}

		assembled = append(assembled, current)
		current = 0
		bitsInCurrent = 0

		n := len(assembled)
		if n >= 2 && assembled[n-2] == terminatorHigh && assembled[n-1] == terminatorLow {
			return assembled[:n-2], true
		}
	}
	return nil, false
}
