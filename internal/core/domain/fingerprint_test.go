package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_Hex(t *testing.T) {
	t.Run("pads to 16 characters", func(t *testing.T) {
		assert.Equal(t, "0000000000000001", Fingerprint(1).Hex())
	})

	t.Run("encodes full width", func(t *testing.T) {
		assert.Equal(t, "ffffffffffffffff", Fingerprint(^uint64(0)).Hex())
	})
}

func TestParseFingerprint(t *testing.T) {
	t.Run("round-trips the canonical encoding", func(t *testing.T) {
		original := Fingerprint(0xa78fd4e2c1b89e3f)

		parsed, err := ParseFingerprint(original.Hex())

		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := ParseFingerprint("abc")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects non-hex input", func(t *testing.T) {
		_, err := ParseFingerprint("zzzzzzzzzzzzzzzz")

		require.Error(t, err)
	})
}

func TestFingerprint_Distance(t *testing.T) {
	t.Run("identical fingerprints have distance zero", func(t *testing.T) {
		f := Fingerprint(0xdeadbeefdeadbeef)

		assert.Equal(t, 0, f.Distance(f))
	})

	t.Run("counts differing bits", func(t *testing.T) {
		a := Fingerprint(0)
		b := Fingerprint(0b1011)

		assert.Equal(t, 3, a.Distance(b))
		assert.Equal(t, 3, b.Distance(a))
	})

	t.Run("complement has distance 64", func(t *testing.T) {
		a := Fingerprint(0x0f0f0f0f0f0f0f0f)

		assert.Equal(t, 64, a.Distance(Fingerprint(^uint64(a))))
	})
}

func TestPixelBuffer(t *testing.T) {
	t.Run("clone is independent of the original", func(t *testing.T) {
		buf := NewPixelBuffer(2, 2)
		buf.SetRGB(0, 0, 10, 20, 30)

		clone := buf.Clone()
		clone.SetRGB(0, 0, 99, 99, 99)

		r, g, b := buf.RGB(0, 0)
		assert.Equal(t, byte(10), r)
		assert.Equal(t, byte(20), g)
		assert.Equal(t, byte(30), b)
	})

	t.Run("pixel count multiplies dimensions", func(t *testing.T) {
		assert.Equal(t, 12, NewPixelBuffer(4, 3).PixelCount())
	})
}
