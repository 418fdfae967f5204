package b3dtile

import "github.com/sony/mapray-wasm/internal/intset"

// BlockSet is the result of a BCollector run: the deduplicated,
// first-visit-ordered list of triangle-block indices whose subtree
// intersects a clip box, plus the block table needed to resolve each
// index to a triangle range.
type BlockSet struct {
	Blocks     []uint32
	numTBlocks uint32
	synthetic  bool
	header     *TileHeader
}

// NumTBlocks returns the effective block count: the tile's own
// NUM_TBLOCKS, or 1 for a tree-less, non-empty tile's synthetic block.
func (s *BlockSet) NumTBlocks() uint32 { return s.numTBlocks }

// BlockRange returns the half-open triangle index range [start, end)
// for block i.
func (s *BlockSet) BlockRange(i uint32) (start, end uint32) {
	if s.synthetic {
		return 0, s.header.NumTriangles
	}
	return s.header.TBlockStart(i), s.header.TBlockEnd(i)
}

// CollectBlocks runs a depth-first descent of h's triangle octree,
// gathering the blocks whose leaf-subtree intersects clip. Tiles
// without a triangle tree fall back to a synthetic single-block view:
// empty tiles yield no blocks, non-empty ones a single block covering
// every triangle.
//
// Grounded on gogpu-gg's internal/clip/edge_clipper.go outcode-based
// early accept/reject, generalized from a single rect test to a
// recursive box-pruned tree walk.
func CollectBlocks(h *TileHeader, clip Box) *BlockSet {
	if !h.HasTriangleTree() {
		if h.NumTriangles == 0 {
			return &BlockSet{header: h}
		}
		return &BlockSet{Blocks: []uint32{0}, numTBlocks: 1, synthetic: true, header: h}
	}

	result := &BlockSet{numTBlocks: h.NumTBlocks, header: h}
	seen := intset.NewSet()
	view := h.View()

	var walk func(branch TriBranch, box Box)
	walk = func(branch TriBranch, box Box) {
		offset := branch.ChildStart
		for i := 0; i < 8; i++ {
			code := branch.ChildCode(i)
			if code == triNone {
				continue
			}

			childBox := box.Child(ChildWhich(i))

			switch code {
			case triBranch:
				child, err := decodeTriBranch(view, offset)
				if err != nil {
					panic(err)
				}
				if childBox.Intersects(clip) {
					walk(child, childBox)
				}
				offset += child.ByteLen()

			case triLeaf:
				leaf, err := decodeTriLeaf(view, offset, h.BIndexWide())
				if err != nil {
					panic(err)
				}
				if childBox.Intersects(clip) {
					for j := uint32(0); j < leaf.NumBlocks; j++ {
						idx := leaf.BIndex(view, j)
						if seen.Insert(idx) {
							result.Blocks = append(result.Blocks, idx)
						}
					}
				}
				offset += leaf.ByteLen()
			}
		}
	}

	walk(h.RootBranch(), UnitBox())
	return result
}
