package sdfield

import (
	"sort"

	"github.com/chewxy/math32"
)

// CoverageSampler reads a coverage image's pixel value, already
// resolved at the image border: implementations clamp rather than
// read out of range, trading a one-pixel difference in edge behavior
// for memory safety.
type CoverageSampler func(x, y int) float32

// Binarizer holds one pixel's subpixel on/off classification: a
// SubPixelDivs x SubPixelDivs bit grid, row-major.
//
// Grounded on gogpu-gg's sdf_accelerator.go CPU rasterizer, which
// likewise turns an analytic coverage function into a discrete on/off
// sample set; here the coverage comes from bilinear interpolation of
// a 3x3 neighborhood instead of an SDF formula.
type Binarizer struct {
	grid [SubPixelDivs * SubPixelDivs]bool
}

// axisBlend picks which pair of the 3x3 support's columns (or rows)
// to interpolate between for a subpixel position f in [0,1), and the
// blend weight toward the second of the pair.
func axisBlend(f float32) (i0 int, t float32) {
	if f < 0.5 {
		return 0, f + 0.5
	}
	return 1, f - 0.5
}

func bilinear(support [3][3]float32, fx, fy float32) float32 {
	ix0, tx := axisBlend(fx)
	iy0, ty := axisBlend(fy)
	v00 := support[iy0][ix0]
	v01 := support[iy0][ix0+1]
	v10 := support[iy0+1][ix0]
	v11 := support[iy0+1][ix0+1]
	top := v00 + (v01-v00)*tx
	bot := v10 + (v11-v10)*tx
	return top + (bot-top)*ty
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Binarize builds the subpixel grid for the coverage pixel at (px,py):
// the D^2 subpixel positions are ranked by bilinear-interpolated
// coverage over the pixel's 3x3 neighborhood, and the top N are marked
// on, where N is the pixel's own coverage rescaled to [1, D^2-1].
func Binarize(sample CoverageSampler, px, py int) *Binarizer {
	var support [3][3]float32
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			support[dy+1][dx+1] = sample(px+dx, py+dy)
		}
	}

	const total = SubPixelDivs * SubPixelDivs
	var values [total]float32
	for sy := 0; sy < SubPixelDivs; sy++ {
		for sx := 0; sx < SubPixelDivs; sx++ {
			fx := (float32(sx) + 0.5) / SubPixelDivs
			fy := (float32(sy) + 0.5) / SubPixelDivs
			values[sy*SubPixelDivs+sx] = bilinear(support, fx, fy)
		}
	}

	coverage := support[1][1]
	n := clampInt(int(math32.Round(float32(total)*coverage/255)), 1, total-1)

	order := make([]int, total)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return values[order[a]] > values[order[b]] })

	b := &Binarizer{}
	for i := 0; i < n; i++ {
		b.grid[order[i]] = true
	}
	return b
}

// PixelParts returns the maximal horizontal runs of subpixels as
// rectangles in pixel-centered coordinates [-1/2,+1/2]^2. front=false
// yields the rects of the "on" set; front=true yields rects of its
// complement.
func (b *Binarizer) PixelParts(front bool) []Box2 {
	const D = SubPixelDivs
	var rects []Box2
	for sy := 0; sy < D; sy++ {
		for sx := 0; sx < D; {
			if b.grid[sy*D+sx] == front {
				sx++
				continue
			}
			start := sx
			for sx < D && b.grid[sy*D+sx] != front {
				sx++
			}
			lower := V2(float32(start)/D-0.5, float32(sy)/D-0.5)
			upper := V2(float32(sx)/D-0.5, float32(sy+1)/D-0.5)
			rects = append(rects, Box2{Lower: lower, Upper: upper})
		}
	}
	return rects
}
