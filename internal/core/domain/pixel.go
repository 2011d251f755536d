package domain

// PixelBuffer holds decoded image data as a rectangular RGB grid.
// Each channel value is in [0,255]. The buffer is owned exclusively by
// whichever component currently transforms it; transforms return a new
// buffer rather than mutating their input.
type PixelBuffer struct {
	// Width is the number of pixels per row.
	Width int

	// Height is the number of rows.
	Height int

	// Pix holds interleaved R, G, B bytes in raster order
	// (row-major, left-to-right, top-to-bottom). len(Pix) == Width*Height*3.
	Pix []byte
}

// NewPixelBuffer allocates a zeroed buffer of the given dimensions.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*3),
	}
}

// PixelCount returns the number of pixels, which is also the number of
// watermark carrier bits (one red-channel LSB per pixel).
func (p *PixelBuffer) PixelCount() int {
	return p.Width * p.Height
}

// Clone returns a deep copy. Used by transforms that must leave their
// input untouched.
func (p *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]byte, len(p.Pix))
	copy(pix, p.Pix)
	return &PixelBuffer{Width: p.Width, Height: p.Height, Pix: pix}
}

// RGB returns the channel values of the pixel at (x, y).
func (p *PixelBuffer) RGB(x, y int) (r, g, b byte) {
	i := (y*p.Width + x) * 3
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2]
}

// SetRGB sets the channel values of the pixel at (x, y).
func (p *PixelBuffer) SetRGB(x, y int, r, g, b byte) {
	i := (y*p.Width + x) * 3
	p.Pix[i] = r
	p.Pix[i+1] = g
	p.Pix[i+2] = b
}
