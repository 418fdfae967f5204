package mapray

import "testing"

func putU16(buf []byte, v uint16) []byte { return append(buf, byte(v), byte(v>>8)) }
func putU32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
func padWord(buf []byte) []byte {
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

// buildMinimalTile encodes a treeless, attribute-less tile with an
// empty descendants subtree: just enough for the entry-point surface
// to exercise tile creation and queries end to end.
func buildMinimalTile(pos [][3]uint16, tris [][3]uint32) []byte {
	var buf []byte
	buf = putU16(buf, 1) // descendants TREE_SIZE: one word, header-inclusive
	buf = putU16(buf, 0) // descendants CHILDREN: all EMPTY_VOID

	buf = putU32(buf, 0) // CONTENTS
	buf = putU32(buf, uint32(len(pos)))
	buf = putU32(buf, uint32(len(tris)))

	for _, p := range pos {
		buf = putU16(buf, p[0])
		buf = putU16(buf, p[1])
		buf = putU16(buf, p[2])
	}
	buf = padWord(buf)

	for _, t := range tris {
		for _, vid := range t {
			buf = putU16(buf, uint16(vid))
		}
	}
	buf = padWord(buf)

	return buf
}

func resetCallbacks() {
	Initialize(nil, nil, nil)
}

func TestTileCreateDestroyLifecycle(t *testing.T) {
	defer resetCallbacks()

	pos := [][3]uint16{{0, 0, 0}, {60000, 0, 0}, {0, 60000, 0}}
	tris := [][3]uint32{{0, 1, 2}}
	buf := buildMinimalTile(pos, tris)

	Initialize(func(dst []byte) { copy(dst, buf) }, nil, nil)

	h, err := TileCreate(len(buf))
	if err != nil {
		t.Fatalf("TileCreate: %v", err)
	}
	if h == 0 {
		t.Fatalf("TileCreate returned the zero handle")
	}

	depth := TileGetDescendantDepth(h, 0.1, 0.1, 0.1, 3)
	if depth != 0 {
		t.Fatalf("TileGetDescendantDepth = %d, want 0 for an empty descendants subtree", depth)
	}

	TileDestroy(h)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic querying a destroyed handle")
		}
	}()
	TileGetDescendantDepth(h, 0.1, 0.1, 0.1, 3)
}

func TestTileClipEmitsThroughCallback(t *testing.T) {
	defer resetCallbacks()

	pos := [][3]uint16{{0, 0, 0}, {60000, 0, 0}, {0, 60000, 0}}
	tris := [][3]uint32{{0, 1, 2}}
	buf := buildMinimalTile(pos, tris)

	var gotVerts, gotTris uint32
	var gotData []byte
	Initialize(
		func(dst []byte) { copy(dst, buf) },
		func(nv, nt uint32, data []byte) { gotVerts, gotTris, gotData = nv, nt, data },
		nil,
	)

	h, err := TileCreate(len(buf))
	if err != nil {
		t.Fatalf("TileCreate: %v", err)
	}

	TileClip(h, 0, 0, 0, 1)

	if gotVerts != 3 || gotTris != 1 {
		t.Fatalf("clip_result reported (%d verts, %d tris), want (3,1)", gotVerts, gotTris)
	}
	if len(gotData) == 0 {
		t.Fatalf("clip_result delivered no data")
	}
}

func TestTileFindRayDistanceEmitsThroughCallback(t *testing.T) {
	defer resetCallbacks()

	pos := [][3]uint16{{0, 0, 0}, {32768, 0, 0}, {0, 32768, 0}}
	tris := [][3]uint32{{0, 1, 2}}
	buf := buildMinimalTile(pos, tris)

	var gotDistance float64
	called := false
	Initialize(
		func(dst []byte) { copy(dst, buf) },
		nil,
		func(distance, loID, hiID float64) { gotDistance, called = distance, true },
	)

	h, err := TileCreate(len(buf))
	if err != nil {
		t.Fatalf("TileCreate: %v", err)
	}

	TileFindRayDistance(h, 0.1, 0.1, 1, 0, 0, -1, 100, 0, 0, 0, 1)

	if !called {
		t.Fatalf("ray_result callback was never invoked")
	}
	if gotDistance >= 100 {
		t.Fatalf("distance = %v, want a hit below the limit", gotDistance)
	}
}

func TestConverterCreateDestroyLifecycle(t *testing.T) {
	defer resetCallbacks()

	h, err := ConverterCreate(4, 4, 1)
	if err != nil {
		t.Fatalf("ConverterCreate: %v", err)
	}

	dst := ConverterGetWritePosition(h)
	for i := range dst {
		dst[i] = 255
	}

	out := ConverterBuildSDF(h)
	if len(out) == 0 {
		t.Fatalf("ConverterBuildSDF returned an empty buffer")
	}

	ConverterDestroy(h)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic using a destroyed converter handle")
		}
	}()
	ConverterGetWritePosition(h)
}

func TestConverterCreateRejectsOversizedDimensions(t *testing.T) {
	if _, err := ConverterCreate(5000, 4, 1); err == nil {
		t.Fatalf("expected an error for an oversized converter width")
	}
}
