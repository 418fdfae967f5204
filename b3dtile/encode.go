package b3dtile

// EncodeMeshSection serializes a Clip result back into a mesh-section
// buffer with the same layout a TileHeader parses: CONTENTS,
// NUM_VERTICES, NUM_TRIANGLES, the positions array, the triangles
// array (VINDEX width recomputed from the result's own vertex count),
// and the optional normals/colors arrays. It carries no triangle-octree
// section; a clip result is a flat mesh, not a re-partitioned tile.
func EncodeMeshSection(r *ClipResult) []byte {
	var contents uint32
	if r.HasNormals {
		contents |= contentsNormals
	}
	if r.HasColors {
		contents |= contentsColors
	}

	buf := make([]byte, 0, 256)
	buf = putU32(buf, contents)
	buf = putU32(buf, r.NumVertices)
	buf = putU32(buf, r.NumTriangles)

	for _, p := range r.Positions {
		buf = putU16(buf, p[0])
		buf = putU16(buf, p[1])
		buf = putU16(buf, p[2])
	}
	buf = padWord(buf)

	vindexWide := IndexWidth(r.NumVertices) == 4
	for _, t := range r.Triangles {
		for _, vid := range t {
			if vindexWide {
				buf = putU32(buf, vid)
			} else {
				buf = putU16(buf, uint16(vid))
			}
		}
	}
	buf = padWord(buf)

	if r.HasNormals {
		for _, n := range r.Normals {
			buf = append(buf, byte(n[0]), byte(n[1]), byte(n[2]))
		}
		buf = padWord(buf)
	}
	if r.HasColors {
		for _, c := range r.Colors {
			buf = append(buf, c[0], c[1], c[2])
		}
		buf = padWord(buf)
	}

	return buf
}

func putU16(buf []byte, v uint16) []byte {
	return append(buf, byte(v), byte(v>>8))
}

func putU32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func padWord(buf []byte) []byte {
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	return buf
}
