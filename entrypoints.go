// Package mapray is the foreign-entry surface of the b3dtile and
// sdfield kernels: callback registration, a handle table over live
// tiles and converters, and one entry point per host-callable
// operation. It stops short of an actual WASM export shim; the host
// ABI that would call these functions is an external concern.
package mapray

import (
	"fmt"

	"github.com/sony/mapray-wasm/b3dtile"
	"github.com/sony/mapray-wasm/internal/obslog"
	"github.com/sony/mapray-wasm/sdfield"
)

// TileCreate allocates a tile of the given byte length, fills it via
// the installed binary-copy callback, and decodes it. size must be
// positive; handle reuse and other precondition violations are not
// this function's concern, since it always issues a fresh handle.
func TileCreate(size int) (Handle, error) {
	if size <= 0 {
		panic(fmt.Sprintf("mapray: tile_create size must be positive, got %d", size))
	}
	copyFn := getBinaryCopy()
	if copyFn == nil {
		panic("mapray: tile_create called before Initialize installed binary_copy")
	}

	buf := make([]byte, size)
	copyFn(buf)

	tile, err := b3dtile.NewTile(buf)
	if err != nil {
		return 0, err
	}
	return tiles.create(tile), nil
}

// TileDestroy frees a tile handle. Destroying an unknown or
// already-destroyed handle is a no-op.
func TileDestroy(h Handle) {
	tiles.destroy(h)
}

// TileGetDescendantDepth runs DescDepth on the tile named by h. limit
// must be at least 1.
func TileGetDescendantDepth(h Handle, x, y, z float32, limit int) int32 {
	tile, ok := tiles.get(h)
	if !ok {
		panic(fmt.Sprintf("mapray: unknown tile handle %d", h))
	}
	return int32(tile.DescendantDepth(b3dtile.V3(x, y, z), limit))
}

// TileClip runs Clip on the tile named by h against the axis-aligned
// box with lower corner (x,y,z) and edge length size, and emits the
// result through the installed clip-result callback. size must be
// positive.
func TileClip(h Handle, x, y, z, size float32) {
	if size <= 0 {
		panic(fmt.Sprintf("mapray: tile_clip size must be positive, got %v", size))
	}
	tile, ok := tiles.get(h)
	if !ok {
		panic(fmt.Sprintf("mapray: unknown tile handle %d", h))
	}
	emit := getClipResult()
	if emit == nil {
		panic("mapray: tile_clip called before Initialize installed clip_result")
	}

	lower := b3dtile.V3(x, y, z)
	box := b3dtile.Box{Lower: lower, Upper: b3dtile.V3(x+size, y+size, z+size)}

	result := tile.Clip(box)
	data := b3dtile.EncodeMeshSection(result)
	emit(result.NumVertices, result.NumTriangles, data)
}

// TileFindRayDistance runs FindRayDistance on the tile named by h and
// emits the result through the installed ray-result callback. The ray
// origin, direction, and limit are carried in float64 all the way
// through the solve: it runs on u16-scaled triangle coordinates, and
// truncating the host's inputs to float32 at this boundary would
// throw away the precision the solve needs.
func TileFindRayDistance(h Handle, px, py, pz, dx, dy, dz, limit float64, lrectOX, lrectOY, lrectOZ, lrectSize float32) {
	tile, ok := tiles.get(h)
	if !ok {
		panic(fmt.Sprintf("mapray: unknown tile handle %d", h))
	}
	emit := getRayResult()
	if emit == nil {
		panic("mapray: tile_find_ray_distance called before Initialize installed ray_result")
	}

	q := b3dtile.RV3(px, py, pz)
	r := b3dtile.RV3(dx, dy, dz)
	lrect := b3dtile.Box{
		Lower: b3dtile.V3(lrectOX, lrectOY, lrectOZ),
		Upper: b3dtile.V3(lrectOX+lrectSize, lrectOY+lrectSize, lrectOZ+lrectSize),
	}

	t := tile.FindRayDistance(q, r, limit, lrect)
	emit(t, 0, 0)
}

// ConverterCreate allocates an sdfield converter for a width x height
// coverage raster padded by sdf_ext pixels on each side.
func ConverterCreate(width, height, sdfExt int) (Handle, error) {
	conv, err := sdfield.NewConverter(width, height, sdfExt)
	if err != nil {
		obslog.Logger().Error("converter_create rejected", "error", err)
		return 0, err
	}
	return converters.create(conv), nil
}

// ConverterDestroy frees a converter handle. Destroying an unknown or
// already-destroyed handle is a no-op.
func ConverterDestroy(h Handle) {
	converters.destroy(h)
}

// ConverterGetWritePosition returns the converter's coverage buffer
// for the host to fill with width*height coverage bytes before
// calling ConverterBuildSDF.
func ConverterGetWritePosition(h Handle) []byte {
	conv, ok := converters.get(h)
	if !ok {
		panic(fmt.Sprintf("mapray: unknown converter handle %d", h))
	}
	buf, _ := conv.CoverageBuffer()
	return buf
}

// ConverterBuildSDF runs the sdfield Grid pipeline over the
// converter's current coverage buffer and returns the finished SDF
// image; the returned slice remains valid until the converter is
// destroyed or rebuilt.
func ConverterBuildSDF(h Handle) []byte {
	conv, ok := converters.get(h)
	if !ok {
		panic(fmt.Sprintf("mapray: unknown converter handle %d", h))
	}
	return conv.BuildSDF()
}
