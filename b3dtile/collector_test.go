package b3dtile

import "testing"

func buildCollectorTile() []byte {
	pos := [][3]uint16{{0, 0, 0}, {100, 0, 0}, {0, 100, 0}, {0, 0, 100}}
	tris := [][3]uint32{{0, 1, 2}, {1, 2, 3}}
	// block 0 = triangle 0, block 1 = triangle 1.
	leaves := []leafSpec{
		{childIndex: 0, blockIdx: 0},
		{childIndex: 1, blockIdx: 1},
		{childIndex: 4, blockIdx: 0}, // dedup target: same block as child 0
	}
	return buildTile(pos, tris, 2, []uint32{0, 1}, leaves)
}

func TestCollectBlocksDedupsAcrossLeaves(t *testing.T) {
	h, err := ParseTileHeader(buildCollectorTile())
	if err != nil {
		t.Fatalf("ParseTileHeader: %v", err)
	}

	result := CollectBlocks(h, UnitBox())
	if got := result.Blocks; len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("Blocks = %v, want [0 1] with block 0 appearing once", got)
	}
}

func TestCollectBlocksPrunesDisjointOctants(t *testing.T) {
	h, err := ParseTileHeader(buildCollectorTile())
	if err != nil {
		t.Fatalf("ParseTileHeader: %v", err)
	}

	// Child index 1 occupies x in [0.5,1), y,z in [0,0.5).
	clip := Box{Lower: V3(0.5, 0, 0), Upper: V3(1, 0.5, 0.5)}
	result := CollectBlocks(h, clip)
	if got := result.Blocks; len(got) != 1 || got[0] != 1 {
		t.Fatalf("Blocks = %v, want [1]", got)
	}
}

func TestCollectBlocksTreelessNonEmptySynthesizesSingleBlock(t *testing.T) {
	pos := [][3]uint16{{0, 0, 0}, {100, 0, 0}, {0, 100, 0}}
	tris := [][3]uint32{{0, 1, 2}}
	h, err := ParseTileHeader(buildTile(pos, tris, 0, nil, nil))
	if err != nil {
		t.Fatalf("ParseTileHeader: %v", err)
	}

	result := CollectBlocks(h, UnitBox())
	if got := result.Blocks; len(got) != 1 || got[0] != 0 {
		t.Fatalf("Blocks = %v, want synthetic [0]", got)
	}
	start, end := result.BlockRange(0)
	if start != 0 || end != 1 {
		t.Fatalf("synthetic block range = [%d,%d), want [0,1)", start, end)
	}
}

func TestCollectBlocksEmptyTileYieldsNoBlocks(t *testing.T) {
	h, err := ParseTileHeader(buildTile(nil, nil, 0, nil, nil))
	if err != nil {
		t.Fatalf("ParseTileHeader: %v", err)
	}
	if result := CollectBlocks(h, UnitBox()); len(result.Blocks) != 0 {
		t.Fatalf("Blocks = %v, want empty", result.Blocks)
	}
}
