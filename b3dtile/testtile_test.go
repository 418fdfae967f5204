package b3dtile

import (
	"encoding/binary"
	"sort"
)

func appendU16(buf []byte, v uint16) []byte { return append(buf, byte(v), byte(v>>8)) }

func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func pad4(buf []byte) []byte {
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

// buildTile assembles a minimal tile buffer with an empty descendants
// subtree and the given mesh, laid out per the wire format. When
// leaves is non-nil it also emits a triangle-block tree whose root is
// a single branch node with one leaf child per entry (at the entry's
// childIndex), each leaf listing the single block index blockIdx.
type leafSpec struct {
	childIndex int
	blockIdx   uint32
}

func buildTile(pos [][3]uint16, tris [][3]uint32, numTBlocks uint32, tblockTable []uint32, leaves []leafSpec) []byte {
	var buf []byte
	buf = appendU16(buf, 1) // descendants TREE_SIZE (header-inclusive; empty root is one word)
	buf = appendU16(buf, 0) // descendants CHILDREN (all EMPTY_VOID)

	contents := uint32(0)
	if leaves != nil {
		contents |= 0x100
	}
	buf = appendU32(buf, contents)
	buf = appendU32(buf, uint32(len(pos)))
	buf = appendU32(buf, uint32(len(tris)))

	for _, p := range pos {
		buf = appendU16(buf, p[0])
		buf = appendU16(buf, p[1])
		buf = appendU16(buf, p[2])
	}
	buf = pad4(buf)

	wide := len(pos) > 65536
	for _, tri := range tris {
		for _, vid := range tri {
			if wide {
				buf = appendU32(buf, vid)
			} else {
				buf = appendU16(buf, uint16(vid))
			}
		}
	}
	buf = pad4(buf)

	if leaves == nil {
		return buf
	}

	buf = appendU32(buf, numTBlocks)
	for _, start := range tblockTable {
		buf = appendU16(buf, uint16(start))
	}
	buf = pad4(buf)

	sort.Slice(leaves, func(i, j int) bool { return leaves[i].childIndex < leaves[j].childIndex })

	var children uint16
	for _, l := range leaves {
		children |= uint16(triLeaf) << uint(2*l.childIndex)
	}

	var payload []byte
	for _, l := range leaves {
		payload = appendU32(payload, 1)
		payload = appendU16(payload, uint16(l.blockIdx))
		payload = pad4(payload)
	}

	treeSizeWords := 1 + len(payload)/WordSize
	buf = appendU16(buf, uint16(treeSizeWords))
	buf = appendU16(buf, children)
	buf = append(buf, payload...)

	return buf
}
