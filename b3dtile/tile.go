package b3dtile

import "github.com/sony/mapray-wasm/internal/obslog"

// Tile owns a decoded tile buffer end to end: it parses the header
// once at construction and answers every spatial query against the
// same borrowed bytes for as long as the Tile is in use.
//
// Grounded on gogpu-gg's text/msdf/generator.go Generator, which
// likewise separates a validated one-time parse (Config.Validate)
// from the repeated operations run against it.
type Tile struct {
	buf    []byte
	header *TileHeader
}

// NewTile decodes buf's preamble and returns a Tile that borrows it.
// buf must not be modified or freed while the Tile is alive.
func NewTile(buf []byte) (*Tile, error) {
	header, err := ParseTileHeader(buf)
	if err != nil {
		obslog.Logger().Error("tile decode failed", "error", err)
		return nil, err
	}
	return &Tile{buf: buf, header: header}, nil
}

// Header exposes the tile's parsed preamble.
func (t *Tile) Header() *TileHeader { return t.header }

// DescendantDepth reports the deepest known descendants-subtree level
// containing p, capped at limit. See DescDepth.
func (t *Tile) DescendantDepth(p Vec3, limit int) int {
	return DescDepth(t.header.View(), p, limit)
}

// Clip clips the tile's triangle mesh against an ALCS box. See Clip.
func (t *Tile) Clip(box Box) *ClipResult {
	return Clip(t.header, box)
}

// FindRayDistance finds the nearest ray/triangle intersection. See
// FindRayDistance.
func (t *Tile) FindRayDistance(q, r RayVec3, limit float64, lrect Box) float64 {
	return FindRayDistance(t.header, q, r, limit, lrect)
}
