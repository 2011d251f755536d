package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
)

const (
	// hashGridSize is the canonical downsample grid edge. The DCT runs
	// over this grid regardless of input resolution.
	hashGridSize = 32

	// hashBlockSize is the edge of the low-frequency DCT block the
	// fingerprint bits are drawn from. 8x8 = 64 bits.
	hashBlockSize = 8
)

// FingerprintService derives perceptual fingerprints from pixel data.
// The algorithm is the classic pHash construction: luma conversion,
// area-average downsample to a 32x32 grid, 2D DCT-II, then one bit per
// low-frequency coefficient by comparison against the block median.
//
// Similar images land at low Hamming distance, distinct images at high
// distance. Robust to re-encoding; NOT robust to crops, rotation, or
// heavy recompression, which is an accepted limitation.
type FingerprintService struct {
	// cosines[k][x] = cos((2x+1) * k * pi / (2*hashGridSize)),
	// precomputed once for the separable DCT passes.
	cosines [hashGridSize][hashGridSize]float64
}

// NewFingerprintService precomputes the DCT basis and returns a ready
// computer. The service is stateless after construction and safe for
// concurrent use.
func NewFingerprintService() *FingerprintService {
	s := &FingerprintService{}
	for k := 0; k < hashGridSize; k++ {
		for x := 0; x < hashGridSize; x++ {
			s.cosines[k][x] = math.Cos(float64(2*x+1) * float64(k) * math.Pi / float64(2*hashGridSize))
		}
	}
	return s
}

// Compute derives the fingerprint for a pixel buffer.
// Deterministic for identical pixel content regardless of the source
// encoding. Fails only with domain.ErrInvalidImage on a degenerate
// buffer.
func (s *FingerprintService) Compute(buf *domain.PixelBuffer) (domain.Fingerprint, error) {
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 || len(buf.Pix) < buf.Width*buf.Height*3 {
		return 0, fmt.Errorf("%w: degenerate pixel buffer", domain.ErrInvalidImage)
	}

	grid := s.downsampleLuma(buf)
	coeffs := s.dct2d(grid)

	// Median over the low-frequency block, excluding the DC term so a
	// global brightness shift cannot dominate the split.
	var block [hashBlockSize*hashBlockSize - 1]float64
	i := 0
	for u := 0; u < hashBlockSize; u++ {
		for v := 0; v < hashBlockSize; v++ {
			if u == 0 && v == 0 {
				continue
			}
			block[i] = coeffs[u][v]
			i++
		}
	}
	med := median(block[:])

	var fp uint64
	for u := 0; u < hashBlockSize; u++ {
		for v := 0; v < hashBlockSize; v++ {
			fp <<= 1
			if coeffs[u][v] > med {
				fp |= 1
			}
		}
	}
	return domain.Fingerprint(fp), nil
}

// downsampleLuma area-averages the buffer's luma channel onto the
// canonical grid. Cells cover [x0,x1)x[y0,y1) pixel ranges; for inputs
// smaller than the grid a cell degenerates to a single pixel.
func (s *FingerprintService) downsampleLuma(buf *domain.PixelBuffer) [hashGridSize][hashGridSize]float64 {
	var grid [hashGridSize][hashGridSize]float64

	for gy := 0; gy < hashGridSize; gy++ {
		y0 := gy * buf.Height / hashGridSize
		y1 := (gy + 1) * buf.Height / hashGridSize
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for gx := 0; gx < hashGridSize; gx++ {
			x0 := gx * buf.Width / hashGridSize
			x1 := (gx + 1) * buf.Width / hashGridSize
			if x1 <= x0 {
				x1 = x0 + 1
			}

			var sum float64
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					r, g, b := buf.RGB(x, y)
					// ITU-R BT.601 luma weights.
					sum += 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
				}
			}
			grid[gy][gx] = sum / float64((y1-y0)*(x1-x0))
		}
	}
	return grid
}

// dct2d applies the separable 2D DCT-II: rows first, then columns.
// Normalisation constants are omitted; the fingerprint only compares
// coefficients against their median, so a uniform scale is irrelevant.
func (s *FingerprintService) dct2d(grid [hashGridSize][hashGridSize]float64) [hashGridSize][hashGridSize]float64 {
	var rows, out [hashGridSize][hashGridSize]float64

	for y := 0; y < hashGridSize; y++ {
		for u := 0; u < hashGridSize; u++ {
			var sum float64
			for x := 0; x < hashGridSize; x++ {
				sum += grid[y][x] * s.cosines[u][x]
			}
			rows[y][u] = sum
		}
	}
	for u := 0; u < hashGridSize; u++ {
		for v := 0; v < hashGridSize; v++ {
			var sum float64
			for y := 0; y < hashGridSize; y++ {
				sum += rows[y][u] * s.cosines[v][y]
			}
			out[u][v] = sum
		}
	}
	return out
}

// median returns the middle value of vals. The slice is sorted in
// place; callers pass a scratch copy.
func median(vals []float64) float64 {
	sort.Float64s(vals)
	return vals[len(vals)/2]
}
