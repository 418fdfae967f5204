package sdfield

import (
	"fmt"

	"github.com/sony/mapray-wasm/internal/obslog"
)

// DimensionError reports a converter dimension that falls outside the
// bounds a grid build can support.
type DimensionError struct {
	What  string
	Value int
	Limit int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("sdfield: %s %d (limit %d)", e.What, e.Value, e.Limit)
}

// Converter owns a coverage buffer and an output SDF buffer for its
// entire lifetime, rebuilding the output in place each time BuildSDF
// is called.
//
// Grounded on gogpu-gg's text/msdf generator handle, which likewise
// holds onto a glyph's source and rendered buffers across repeated
// regeneration calls rather than reallocating a fresh handle per call.
type Converter struct {
	width, height int
	sdfExt        int
	coverage      []byte
	coveragePitch int
	output        []byte
	outputPitch   int
}

// NewConverter validates the requested coverage dimensions and padding
// against the grid's supported range and allocates the coverage
// buffer; the output buffer is allocated lazily by the first BuildSDF.
func NewConverter(width, height, sdfExt int) (*Converter, error) {
	if width < 1 {
		return nil, &DimensionError{What: "width must be positive, got", Value: width, Limit: 1}
	}
	if height < 1 {
		return nil, &DimensionError{What: "height must be positive, got", Value: height, Limit: 1}
	}
	if sdfExt < 0 {
		return nil, &DimensionError{What: "sdf_ext must be non-negative, got", Value: sdfExt, Limit: 0}
	}
	outW := width + 2*sdfExt
	outH := height + 2*sdfExt
	if outW > MaxSDFWidth {
		return nil, &DimensionError{What: "padded width", Value: outW, Limit: MaxSDFWidth}
	}
	if outH > MaxSDFHeight {
		return nil, &DimensionError{What: "padded height", Value: outH, Limit: MaxSDFHeight}
	}

	pitch := Align4(width)
	return &Converter{
		width: width, height: height, sdfExt: sdfExt,
		coverage:      make([]byte, pitch*height),
		coveragePitch: pitch,
	}, nil
}

// CoverageRect reports the coverage buffer's writable origin (always
// zero, since the converter owns a dedicated buffer) and its pixel
// dimensions, for a caller filling the coverage raster before a build.
func (c *Converter) CoverageRect() (originX, originY, width, height int) {
	return 0, 0, c.width, c.height
}

// CoverageBuffer returns the coverage raster backing store, row pitch
// included; callers write grayscale coverage samples into it directly
// before calling BuildSDF.
func (c *Converter) CoverageBuffer() ([]byte, int) {
	return c.coverage, c.coveragePitch
}

func (c *Converter) sample(x, y int) float32 {
	if x < 0 {
		x = 0
	} else if x >= c.width {
		x = c.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= c.height {
		y = c.height - 1
	}
	return float32(c.coverage[y*c.coveragePitch+x])
}

// BuildSDF runs the grid pipeline over the current coverage buffer and
// replaces the converter's output buffer with the result.
func (c *Converter) BuildSDF() []byte {
	obslog.Logger().Debug("building sdf", "width", c.width, "height", c.height, "sdf_ext", c.sdfExt)
	pixels, pitch := BuildSDF(c.sample, c.width, c.height, c.sdfExt)
	c.output = pixels
	c.outputPitch = pitch
	return pixels
}

// Output returns the most recently built SDF buffer and its row pitch,
// or nil if BuildSDF has not yet been called.
func (c *Converter) Output() ([]byte, int) {
	return c.output, c.outputPitch
}

// OutputSize reports the output SDF's pixel dimensions, including the
// sdf_ext border, matching what the next BuildSDF call will produce.
func (c *Converter) OutputSize() (width, height int) {
	return c.width + 2*c.sdfExt, c.height + 2*c.sdfExt
}
