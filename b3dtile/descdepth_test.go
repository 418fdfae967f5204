package b3dtile

import "testing"

// buildDescTile wraps a hand-built descendants subtree in a minimal
// otherwise-empty tile buffer (zero vertices, zero triangles).
func buildDescTile(descTree []byte) []byte {
	buf := append([]byte{}, descTree...)
	buf = appendU32(buf, 0) // CONTENTS
	buf = appendU32(buf, 0) // NUM_VERTICES
	buf = appendU32(buf, 0) // NUM_TRIANGLES
	return buf
}

func TestDescDepthEmptyRoot(t *testing.T) {
	var tree []byte
	tree = appendU16(tree, 1) // TREE_SIZE (header-inclusive; no payload)
	tree = appendU16(tree, 0) // CHILDREN: all EMPTY_VOID

	buf := buildDescTile(tree)
	view := NewBinaryView(buf)

	if got := DescDepth(view, V3(0.1, 0.1, 0.1), 5); got != 0 {
		t.Fatalf("DescDepth on empty root = %d, want 0", got)
	}
}

func TestDescDepthOneBranchThenLeaf(t *testing.T) {
	// Root: child 0 (u=0,v=0,w=0, covering [0,0.5)^3) is a LEAF; all
	// other children are EMPTY_VOID.
	var tree []byte
	children := uint16(descLeaf) // child index 0
	tree = appendU16(tree, 1)    // TREE_SIZE (header-inclusive; a leaf terminal carries no payload)
	tree = appendU16(tree, children)

	buf := buildDescTile(tree)
	view := NewBinaryView(buf)

	if got := DescDepth(view, V3(0.1, 0.1, 0.1), 5); got != 1 {
		t.Fatalf("DescDepth through one leaf = %d, want 1", got)
	}
	if got := DescDepth(view, V3(0.9, 0.9, 0.9), 5); got != 0 {
		t.Fatalf("DescDepth for a point outside the leaf's octant = %d, want 0", got)
	}
}

func TestDescDepthSkipsYoungerBranchSiblings(t *testing.T) {
	// Root has two BRANCH children: index 0 and index 1. Child 0's
	// subtree must be skipped correctly to reach child 1's data.
	//
	// Child 0 (BRANCH): its own subtree is a single word, header-inclusive
	// (TREE_SIZE=1, CHILDREN=0, no further data).
	var child0 []byte
	child0 = appendU16(child0, 1) // TREE_SIZE: one word total, no payload
	child0 = appendU16(child0, 0) // CHILDREN: all empty

	// Child 1 (BRANCH): contains one LEAF at its own child index 0.
	var child1 []byte
	child1 = appendU16(child1, 1)
	child1 = appendU16(child1, uint16(descLeaf))

	var tree []byte
	children := uint16(descBranch) | uint16(descBranch)<<2 // child 0 = BRANCH, child 1 = BRANCH
	treeSizeWords := 1 + (len(child0)+len(child1))/WordSize
	tree = appendU16(tree, uint16(treeSizeWords))
	tree = appendU16(tree, children)
	tree = append(tree, child0...)
	tree = append(tree, child1...)

	buf := buildDescTile(tree)
	view := NewBinaryView(buf)

	// p in octant (u=1,v=0,w=0) -> child index 1 -> descends into
	// child1's own child 0 -> LEAF at level 2.
	p := V3(0.6, 0.1, 0.1)
	if got := DescDepth(view, p, 5); got != 2 {
		t.Fatalf("DescDepth past a skipped sibling = %d, want 2", got)
	}
}

func TestDescDepthLimitBelowOnePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for limit < 1")
		}
	}()
	buf := buildDescTile([]byte{1, 0, 0, 0})
	DescDepth(NewBinaryView(buf), V3(0, 0, 0), 0)
}
