package b3dtile

// Descendants-subtree child node codes, packed 2 bits each into a
// node's CHILDREN field. Distinct from the triangle-octree's codes:
// the two trees are independently encoded formats that happen to share
// a TREE_SIZE/CHILDREN header shape.
const (
	descEmptyVoid = 0
	descEmptyGeom = 1
	descBranch    = 2
	descLeaf      = 3
)

// DescDepth walks the tile's descendants subtree toward p, reporting
// the depth of the deepest descendant node known to contain it, capped
// at limit. limit < 1 is a precondition violation.
//
// Grounded on the slab/box descent style of jakecoffman-cp's bb.go
// SegmentQuery, adapted from a single geometric test into a tree walk
// driven by 2-bit packed child codes.
func DescDepth(view BinaryView, p Vec3, limit int) int {
	if limit < 1 {
		panic("b3dtile: DescDepth limit must be >= 1")
	}

	offset := 0
	level := 0

	for {
		children := view.U16(offset + 2)

		var idx int
		for i := 0; i < 3; i++ {
			c := p.Component(i) * 2
			if c >= 1 {
				c -= 1
				idx |= 1 << uint(i)
			}
			p = p.WithComponent(i, c)
		}

		code := int(children>>uint(2*idx)) & 0x3

		switch code {
		case descBranch:
			level++
			if level >= limit {
				return level
			}
			childOffset := offset + 4
			for j := 0; j < idx; j++ {
				jcode := int(children>>uint(2*j)) & 0x3
				if jcode == descBranch {
					siblingTreeSize := view.U16(childOffset)
					childOffset += int(siblingTreeSize) * WordSize
				}
			}
			offset = childOffset
		case descLeaf:
			return level + 1
		default: // descEmptyVoid, descEmptyGeom
			return level
		}
	}
}
