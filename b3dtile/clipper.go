package b3dtile

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/sony/mapray-wasm/internal/intset"
)

// bPoint is a point in a clipped triangle's own barycentric space:
// a surface point equals (1-Mu1-Mu2)*A + Mu1*B + Mu2*C for the
// triangle's original corners A, B, C.
type bPoint struct{ Mu1, Mu2 float32 }

func (p bPoint) add(q bPoint) bPoint { return bPoint{p.Mu1 + q.Mu1, p.Mu2 + q.Mu2} }
func (p bPoint) sub(q bPoint) bPoint { return bPoint{p.Mu1 - q.Mu1, p.Mu2 - q.Mu2} }
func (p bPoint) mul(s float32) bPoint { return bPoint{p.Mu1 * s, p.Mu2 * s} }
func (p bPoint) dot(q bPoint) float32 { return p.Mu1*q.Mu1 + p.Mu2*q.Mu2 }

// halfSpace is one of the clip box's six bounding planes in world
// (u16-scaled) space: points with n.dot(x)+d >= 0 are inside.
type halfSpace struct {
	N Vec3
	D float32
}

func clipHalfSpaces(clip Box) [6]halfSpace {
	return [6]halfSpace{
		{N: V3(1, 0, 0), D: -clip.Lower.X},
		{N: V3(-1, 0, 0), D: clip.Upper.X},
		{N: V3(0, 1, 0), D: -clip.Lower.Y},
		{N: V3(0, -1, 0), D: clip.Upper.Y},
		{N: V3(0, 0, 1), D: -clip.Lower.Z},
		{N: V3(0, 0, -1), D: clip.Upper.Z},
	}
}

// cornerFlags returns the 6-bit out-of-box flag for a single corner:
// bits 0/1 are x lower/upper-out, 2/3 y, 4/5 z.
func cornerFlags(pos Vec3, clip Box) uint8 {
	var f uint8
	for i := 0; i < 3; i++ {
		if pos.Component(i) < clip.Lower.Component(i) {
			f |= 1 << uint(i*2)
		}
		if pos.Component(i) >= clip.Upper.Component(i) {
			f |= 1 << uint(i*2+1)
		}
	}
	return f
}

// trimByPlane clips a convex polygon (in barycentric space) against the
// half-space n.dot(v)+d >= 0, Sutherland-Hodgman style. It reports
// ok=false both when the polygon clips to nothing and when a numerical
// anomaly (mixed signs but no clean start/end edge) occurs; callers
// treat both the same way, by dropping the triangle.
//
// Grounded on the outcode-driven ClipLine in gogpu-gg's
// internal/clip/edge_clipper.go, generalized from a 2-point segment
// against a rect edge to an n-gon against an arbitrary half-plane.
func trimByPlane(poly []bPoint, n bPoint, d float32) ([]bPoint, bool) {
	count := len(poly)
	dist := make([]float32, count)
	minD, maxD := poly[0].dot(n)+d, poly[0].dot(n)+d
	for i, v := range poly {
		dist[i] = v.dot(n) + d
		if dist[i] < minD {
			minD = dist[i]
		}
		if dist[i] > maxD {
			maxD = dist[i]
		}
	}
	if minD >= 0 {
		return poly, true
	}
	if maxD <= 0 {
		return nil, false
	}

	sIdx, eIdx := -1, -1
	for i := 0; i < count; i++ {
		j := (i + 1) % count
		if dist[i] < 0 && dist[j] >= 0 {
			sIdx = i
		}
		if dist[i] > 0 && dist[j] <= 0 {
			eIdx = i
		}
	}
	if sIdx < 0 || eIdx < 0 {
		return nil, false
	}

	intersect := func(start, end bPoint) bPoint {
		v := end.sub(start)
		denom := v.dot(n)
		t := -(start.dot(n) + d) / denom
		return start.add(v.mul(t))
	}

	var out []bPoint
	sEndIdx := (sIdx + 1) % count
	if dist[sEndIdx] != 0 {
		out = append(out, intersect(poly[sIdx], poly[sEndIdx]))
	}
	idx := sEndIdx
	for {
		out = append(out, poly[idx])
		if idx == eIdx {
			break
		}
		idx = (idx + 1) % count
	}
	eEndIdx := (eIdx + 1) % count
	out = append(out, intersect(poly[eIdx], poly[eEndIdx]))

	return out, true
}

// ClipResult is a clip call's output: a mesh section laid out exactly
// like a tile's own (positions, triangles, optional normals/colors),
// sized to NumVertices/NumTriangles.
type ClipResult struct {
	NumVertices  uint32
	NumTriangles uint32
	Positions    [][3]uint16
	Triangles    [][3]uint32
	Normals      [][3]int8
	Colors       [][3]uint8
	HasNormals   bool
	HasColors    bool
}

type partialPoly struct {
	a, b, c   [3]uint16
	na, nb, nc [3]int8
	ca, cb, cc [3]uint8
	poly      []bPoint
}

// Clip clips h's triangle mesh against clipALCS, an axis-aligned box in
// ALCS space, returning a new mesh section. Candidate triangles are
// pruned by CollectBlocks; each survivor is classified fully-in,
// fully-out, or partial, and partial triangles are clipped in their
// own barycentric space for exact attribute interpolation.
func Clip(h *TileHeader, clipALCS Box) *ClipResult {
	clipU16 := Box{Lower: clipALCS.Lower.Mul(65535), Upper: clipALCS.Upper.Mul(65535)}
	for i := 0; i < 3; i++ {
		if clipALCS.Upper.Component(i) >= 1 {
			u := clipU16.Upper.Component(i)
			clipU16.Upper = clipU16.Upper.WithComponent(i, math.Nextafter32(u, float32(math.Inf(1))))
		}
	}
	half := clipHalfSpaces(clipU16)

	blocks := CollectBlocks(h, clipALCS)

	aMap := intset.New[uint32]()
	var aOrder []uint32
	var aTriangles [][3]uint32
	var partials []partialPoly

	remapVertex := func(vid uint32) uint32 {
		next := uint32(len(aOrder))
		stored, inserted := aMap.Insert(vid, next)
		if inserted {
			aOrder = append(aOrder, vid)
		}
		return stored
	}

	for _, bi := range blocks.Blocks {
		start, end := blocks.BlockRange(bi)
		for tid := start; tid < end; tid++ {
			tri := h.Triangle(tid)
			pos := [3]Vec3{h.PositionVec3ScaledU16(tri[0]), h.PositionVec3ScaledU16(tri[1]), h.PositionVec3ScaledU16(tri[2])}

			var orFlags, andFlags uint8
			andFlags = 0x3F
			for k := 0; k < 3; k++ {
				f := cornerFlags(pos[k], clipU16)
				orFlags |= f
				andFlags &= f
			}

			if orFlags == 0 {
				aTriangles = append(aTriangles, [3]uint32{
					remapVertex(tri[0]), remapVertex(tri[1]), remapVertex(tri[2]),
				})
				continue
			}
			if andFlags != 0 {
				continue
			}

			poly := []bPoint{{0, 0}, {1, 0}, {0, 1}}
			aborted := false
			for _, hs := range half {
				nb := bPoint{
					Mu1: pos[1].Sub(pos[0]).Dot(hs.N),
					Mu2: pos[2].Sub(pos[0]).Dot(hs.N),
				}
				if nb.Mu1 == 0 && nb.Mu2 == 0 {
					continue
				}
				db := pos[0].Dot(hs.N) + hs.D
				newPoly, ok := trimByPlane(poly, nb, db)
				if !ok {
					aborted = true
					break
				}
				poly = newPoly
			}
			if aborted || len(poly) < 3 {
				continue
			}

			pp := partialPoly{a: h.Position(tri[0]), b: h.Position(tri[1]), c: h.Position(tri[2]), poly: poly}
			if h.HasNormals() {
				pp.na, pp.nb, pp.nc = h.Normal(tri[0]), h.Normal(tri[1]), h.Normal(tri[2])
			}
			if h.HasColors() {
				pp.ca, pp.cb, pp.cc = h.Color(tri[0]), h.Color(tri[1]), h.Color(tri[2])
			}
			partials = append(partials, pp)
		}
	}

	result := &ClipResult{HasNormals: h.HasNormals(), HasColors: h.HasColors()}

	numA := uint32(len(aOrder))
	for _, vid := range aOrder {
		result.Positions = append(result.Positions, h.Position(vid))
		if h.HasNormals() {
			result.Normals = append(result.Normals, h.Normal(vid))
		}
		if h.HasColors() {
			result.Colors = append(result.Colors, h.Color(vid))
		}
	}
	result.Triangles = append(result.Triangles, aTriangles...)

	next := numA
	for _, pp := range partials {
		base := next
		for _, v := range pp.poly {
			w0, w1, w2 := 1-v.Mu1-v.Mu2, v.Mu1, v.Mu2
			result.Positions = append(result.Positions, interpPositionU16(pp.a, pp.b, pp.c, w0, w1, w2))
			if h.HasNormals() {
				result.Normals = append(result.Normals, interpNormalI8(pp.na, pp.nb, pp.nc, w0, w1, w2))
			}
			if h.HasColors() {
				result.Colors = append(result.Colors, interpColorU8(pp.ca, pp.cb, pp.cc, w0, w1, w2))
			}
			next++
		}
		for i := 2; i < len(pp.poly); i++ {
			result.Triangles = append(result.Triangles, [3]uint32{base, base + uint32(i-1), base + uint32(i)})
		}
	}

	result.NumVertices = next
	result.NumTriangles = uint32(len(result.Triangles))
	return result
}

func interpPositionU16(a, b, c [3]uint16, w0, w1, w2 float32) [3]uint16 {
	var out [3]uint16
	for i := 0; i < 3; i++ {
		v := w0*float32(a[i]) + w1*float32(b[i]) + w2*float32(c[i])
		out[i] = roundClampU16(v)
	}
	return out
}

func interpNormalI8(a, b, c [3]int8, w0, w1, w2 float32) [3]int8 {
	var out [3]int8
	for i := 0; i < 3; i++ {
		v := w0*float32(a[i]) + w1*float32(b[i]) + w2*float32(c[i])
		out[i] = roundClampI8(v)
	}
	return out
}

func interpColorU8(a, b, c [3]uint8, w0, w1, w2 float32) [3]uint8 {
	var out [3]uint8
	for i := 0; i < 3; i++ {
		v := w0*float32(a[i]) + w1*float32(b[i]) + w2*float32(c[i])
		out[i] = roundClampU8(v)
	}
	return out
}

func roundClampU16(v float32) uint16 {
	r := math32.Round(v)
	if r < 0 {
		return 0
	}
	if r > 65535 {
		return 65535
	}
	return uint16(r)
}

func roundClampI8(v float32) int8 {
	r := math32.Round(v)
	if r < -128 {
		return -128
	}
	if r > 127 {
		return 127
	}
	return int8(r)
}

func roundClampU8(v float32) uint8 {
	r := math32.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}
