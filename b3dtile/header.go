package b3dtile

// Mesh preamble CONTENTS bits.
const (
	contentsNormals      = 0x01
	contentsColors       = 0x02
	contentsTriangleTree = 0x100
)

// TileHeader parses a tile's binary preamble once and caches counts,
// index widths, and the byte offsets of every array so queries never
// re-walk the layout.
//
// Grounded on gogpu-gg's text/msdf/generator.go Config pattern: a
// single validated parse step up front, then plain field access for
// the rest of the object's life.
type TileHeader struct {
	view BinaryView

	contents uint32

	NumVertices uint32
	NumTriangles uint32
	NumTBlocks  uint32

	vindexWide bool
	tindexWide bool
	bindexWide bool

	descTreeLen int

	positionsOff int
	trianglesOff int
	normalsOff   int // -1 if absent
	colorsOff    int // -1 if absent

	tblockTableOff int // -1 if no triangle tree
	rootNodeOff    int // -1 if no triangle tree
}

// ParseTileHeader decodes buf's preamble. It returns a DecodeError if
// any array's declared length would read past the end of buf.
func ParseTileHeader(buf []byte) (*TileHeader, error) {
	view := NewBinaryView(buf)

	if err := view.checkBounds(0, 4, "descendants subtree header"); err != nil {
		return nil, err
	}
	descTreeSize := view.U16(0)
	descTreeLen := int(descTreeSize) * WordSize
	if err := view.checkBounds(0, descTreeLen, "descendants subtree"); err != nil {
		return nil, err
	}

	preambleOff := descTreeLen
	if err := view.checkBounds(preambleOff, 12, "mesh preamble"); err != nil {
		return nil, err
	}
	contents := view.U32(preambleOff)
	numVertices := view.U32(preambleOff + 4)
	numTriangles := view.U32(preambleOff + 8)

	h := &TileHeader{
		view:           view,
		contents:       contents,
		NumVertices:    numVertices,
		NumTriangles:   numTriangles,
		descTreeLen:    descTreeLen,
		normalsOff:     -1,
		colorsOff:      -1,
		tblockTableOff: -1,
		rootNodeOff:    -1,
	}
	h.vindexWide = IndexWidth(numVertices) == 4

	offset := preambleOff + 12

	h.positionsOff = offset
	posLen := Align4(2 * 3 * int(numVertices))
	if err := view.checkBounds(offset, posLen, "positions"); err != nil {
		return nil, err
	}
	offset += posLen

	h.trianglesOff = offset
	vindexSize := 2
	if h.vindexWide {
		vindexSize = 4
	}
	triLen := Align4(vindexSize * 3 * int(numTriangles))
	if err := view.checkBounds(offset, triLen, "triangles"); err != nil {
		return nil, err
	}
	offset += triLen

	if contents&contentsNormals != 0 {
		h.normalsOff = offset
		normalsLen := Align4(3 * int(numVertices))
		if err := view.checkBounds(offset, normalsLen, "normals"); err != nil {
			return nil, err
		}
		offset += normalsLen
	}

	if contents&contentsColors != 0 {
		h.colorsOff = offset
		colorsLen := Align4(3 * int(numVertices))
		if err := view.checkBounds(offset, colorsLen, "colors"); err != nil {
			return nil, err
		}
		offset += colorsLen
	}

	if contents&contentsTriangleTree != 0 {
		if err := view.checkBounds(offset, 4, "NUM_TBLOCKS"); err != nil {
			return nil, err
		}
		h.NumTBlocks = view.U32(offset)
		offset += 4

		h.tindexWide = IndexWidth(numTriangles) == 4
		tindexSize := 2
		if h.tindexWide {
			tindexSize = 4
		}
		tblockLen := Align4(tindexSize * int(h.NumTBlocks))
		h.tblockTableOff = offset
		if err := view.checkBounds(offset, tblockLen, "TBLOCK_TABLE"); err != nil {
			return nil, err
		}
		offset += tblockLen

		h.bindexWide = IndexWidth(h.NumTBlocks) == 4
		h.rootNodeOff = offset
		if _, err := decodeTriBranch(view, offset); err != nil {
			return nil, err
		}
	}

	return h, nil
}

func (h *TileHeader) HasNormals() bool      { return h.normalsOff >= 0 }
func (h *TileHeader) HasColors() bool       { return h.colorsOff >= 0 }
func (h *TileHeader) HasTriangleTree() bool { return h.rootNodeOff >= 0 }

// BIndexWide reports the BINDEX width selected for this tile's block
// table: true for 4 bytes, false for 2.
func (h *TileHeader) BIndexWide() bool { return h.bindexWide }

// Position decodes vertex vid's normalized u16 position, 0 <= vid < NumVertices.
func (h *TileHeader) Position(vid uint32) [3]uint16 {
	off := h.positionsOff + int(vid)*6
	return [3]uint16{h.view.U16(off), h.view.U16(off + 2), h.view.U16(off + 4)}
}

// PositionVec3 decodes vertex vid's position into ALCS space [0,1)^3.
func (h *TileHeader) PositionVec3(vid uint32) Vec3 {
	p := h.Position(vid)
	const scale = 1.0 / 65535.0
	return V3(float32(p[0])*scale, float32(p[1])*scale, float32(p[2])*scale)
}

// PositionVec3ScaledU16 decodes vertex vid's position as a float32
// vector in the stored u16 units (no normalization), the space the
// clipper and ray solver both work in to match stored positions.
func (h *TileHeader) PositionVec3ScaledU16(vid uint32) Vec3 {
	p := h.Position(vid)
	return V3(float32(p[0]), float32(p[1]), float32(p[2]))
}

// Triangle decodes triangle tid's three vertex indices, 0 <= tid < NumTriangles.
func (h *TileHeader) Triangle(tid uint32) [3]uint32 {
	width := 2
	if h.vindexWide {
		width = 4
	}
	off := h.trianglesOff + int(tid)*3*width
	return [3]uint32{
		h.view.Index(off, h.vindexWide),
		h.view.Index(off+width, h.vindexWide),
		h.view.Index(off+2*width, h.vindexWide),
	}
}

// Normal decodes vertex vid's normal, valid only if HasNormals.
func (h *TileHeader) Normal(vid uint32) [3]int8 {
	off := h.normalsOff + int(vid)*3
	return [3]int8{h.view.I8(off), h.view.I8(off + 1), h.view.I8(off + 2)}
}

// Color decodes vertex vid's color, valid only if HasColors.
func (h *TileHeader) Color(vid uint32) [3]uint8 {
	off := h.colorsOff + int(vid)*3
	return [3]uint8{h.view.U8(off), h.view.U8(off + 1), h.view.U8(off + 2)}
}

// TBlockStart returns the first triangle index of block i, 0 <= i < NumTBlocks.
func (h *TileHeader) TBlockStart(i uint32) uint32 {
	width := 2
	if h.tindexWide {
		width = 4
	}
	return h.view.Index(h.tblockTableOff+int(i)*width, h.tindexWide)
}

// TBlockEnd returns the triangle index one past the end of block i:
// the next block's start, or NumTriangles for the last block.
func (h *TileHeader) TBlockEnd(i uint32) uint32 {
	if i+1 < h.NumTBlocks {
		return h.TBlockStart(i + 1)
	}
	return h.NumTriangles
}

// RootBranch decodes the triangle-octree's root node. Valid only if
// HasTriangleTree.
func (h *TileHeader) RootBranch() TriBranch {
	b, err := decodeTriBranch(h.view, h.rootNodeOff)
	if err != nil {
		// ParseTileHeader already validated the root decodes cleanly.
		panic(err)
	}
	return b
}

// View exposes the header's underlying buffer view for the octree
// traversal helpers.
func (h *TileHeader) View() BinaryView { return h.view }
