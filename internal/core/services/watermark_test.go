package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
)

func TestWatermarkCodec_RoundTrip(t *testing.T) {
	codec := NewWatermarkCodec()

	t.Run("embed then extract recovers the payload exactly", func(t *testing.T) {
		payloads := [][]byte{
			[]byte("doc-123"),
			[]byte("c1a7e8d0-1111-4222-8333-944444444444"),
			{0x00, 0x01, 0x7F, 0x80},
			{},
		}
		for _, payload := range payloads {
			buf := gradientBuffer(32, 32)

			marked, err := codec.Embed(buf, payload)
			require.NoError(t, err)

			got, found := codec.Extract(marked)
			require.True(t, found, "payload %q", payload)
			assert.Equal(t, payload, append([]byte{}, got...), "payload %q", payload)
		}
	})

	t.Run("source buffer is not mutated", func(t *testing.T) {
		buf := gradientBuffer(16, 16)
		before := append([]byte{}, buf.Pix...)

		_, err := codec.Embed(buf, []byte("doc-123"))

		require.NoError(t, err)
		assert.Equal(t, before, buf.Pix)
	})

	t.Run("pixels outside the payload region keep their values", func(t *testing.T) {
		buf := gradientBuffer(32, 32)

		marked, err := codec.Embed(buf, []byte("x"))
		require.NoError(t, err)

		// 8 payload bits + 16 terminator bits = 24 carrier pixels.
		assert.Equal(t, buf.Pix[24*3:], marked.Pix[24*3:])
	})

	t.Run("only red LSBs change", func(t *testing.T) {
		buf := gradientBuffer(32, 32)

		marked, err := codec.Embed(buf, []byte("doc-123"))
		require.NoError(t, err)

		for i := 0; i < buf.PixelCount(); i++ {
			assert.Equal(t, buf.Pix[i*3]&0xFE, marked.Pix[i*3]&0xFE, "red high bits at pixel %d", i)
			assert.Equal(t, buf.Pix[i*3+1], marked.Pix[i*3+1], "green at pixel %d", i)
			assert.Equal(t, buf.Pix[i*3+2], marked.Pix[i*3+2], "blue at pixel %d", i)
		}
	})
}

func TestWatermarkCodec_Capacity(t *testing.T) {
	codec := NewWatermarkCodec()

	t.Run("succeeds at the exact capacity boundary", func(t *testing.T) {
		// 4x6 = 24 pixels = 8 payload bits + 16 terminator bits.
		buf := gradientBuffer(4, 6)

		marked, err := codec.Embed(buf, []byte("A"))

		require.NoError(t, err)
		got, found := codec.Extract(marked)
		require.True(t, found)
		assert.Equal(t, []byte("A"), got)
	})

	t.Run("fails one bit over capacity", func(t *testing.T) {
		buf := gradientBuffer(4, 6)

		_, err := codec.Embed(buf, []byte("AB"))

		assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
	})

	t.Run("capacity reports the boundary", func(t *testing.T) {
		assert.Equal(t, 1, codec.Capacity(domain.NewPixelBuffer(4, 6)))
		assert.Equal(t, (32*32-16)/8, codec.Capacity(domain.NewPixelBuffer(32, 32)))
	})
}

func TestWatermarkCodec_UnsafePayload(t *testing.T) {
	codec := NewWatermarkCodec()

	t.Run("rejects a payload containing the terminator pair", func(t *testing.T) {
		buf := gradientBuffer(32, 32)

		_, err := codec.Embed(buf, []byte{0x01, 0xFF, 0xFE, 0x02})

		assert.ErrorIs(t, err, domain.ErrPayloadUnsafe)
	})

	t.Run("accepts the terminator bytes apart", func(t *testing.T) {
		buf := gradientBuffer(32, 32)

		marked, err := codec.Embed(buf, []byte{0xFF, 0x00, 0xFE})
		require.NoError(t, err)

		got, found := codec.Extract(marked)
		require.True(t, found)
		assert.Equal(t, []byte{0xFF, 0x00, 0xFE}, got)
	})
}

func TestWatermarkCodec_ExtractClean(t *testing.T) {
	codec := NewWatermarkCodec()

	t.Run("clean images carry no watermark", func(t *testing.T) {
		for _, buf := range []*domain.PixelBuffer{
			gradientBuffer(32, 32),
			gradientBuffer(64, 48),
			checkerBuffer(40, 40, 8),
			domain.NewPixelBuffer(16, 16),
		} {
			_, found := codec.Extract(buf)
			assert.False(t, found)
		}
	})
}
