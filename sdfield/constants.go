package sdfield

import "github.com/chewxy/math32"

const (
	// DistFactor scales a signed pixel distance into the [0,255] sample
	// range written to the output SDF texture.
	DistFactor = 1.0 / 20.0

	// SubPixelDivs is the subpixel grid side length (D) used by the
	// Binarizer: D^2 candidate subpixels per partially covered pixel.
	SubPixelDivs = 5

	// MaxSDFWidth and MaxSDFHeight bound a converter's output image,
	// including its sdf_ext border, and set the magnitude of the
	// "infinity point" used to seed exterior grid cells.
	MaxSDFWidth  = 4096
	MaxSDFHeight = 512
)

// DistLower is the signed distance (in pixel units) mapped to sample 0,
// i.e. -sqrt(2): comfortably beyond any single-pixel-neighborhood
// distance, so cells finalized from immediate neighbors never clamp.
var DistLower = -math32.Sqrt(2)

// infPoint is a canonical point so far outside any legitimate grid that
// the vector to it from any in-grid cell exceeds any real pair
// distance, used as the initial "no sample seen yet" sentinel.
var infPoint = V2(-MaxSDFWidth, -MaxSDFHeight)

// fulcovThreshold is the coverage fraction at or above which a pixel is
// treated as fully solid (and the complement, at or below which it is
// fully empty).
const fulcovThreshold = 1.0 - 0.5/float64(SubPixelDivs*SubPixelDivs)
