package b3dtile

import (
	"sort"

	"github.com/sony/mapray-wasm/internal/intset"
)

// alcsToU16 is the scale between ALCS unit-cube coordinates and the
// u16-normalized space triangle positions are stored in.
const alcsToU16 = 65535

// RayVec3 is a ray position or direction in ALCS space, carried in
// float64 rather than Vec3's float32: once scaled by alcsToU16 the
// components feed a Gram determinant and barycentric division that
// square u16-range products, and float32's ~7-digit mantissa isn't
// enough precision for that to stay accurate on sliver triangles.
type RayVec3 struct {
	X, Y, Z float64
}

// RV3 is a convenience constructor.
func RV3(x, y, z float64) RayVec3 { return RayVec3{X: x, Y: y, Z: z} }

func (v RayVec3) Sub(w RayVec3) RayVec3 { return RayVec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }
func (v RayVec3) Mul(s float64) RayVec3 { return RayVec3{v.X * s, v.Y * s, v.Z * s} }
func (v RayVec3) Dot(w RayVec3) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

func (v RayVec3) Cross(w RayVec3) RayVec3 {
	return RayVec3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Component returns the i'th component (0=X, 1=Y, 2=Z).
func (v RayVec3) Component(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func rayVec3(v Vec3) RayVec3 { return RayVec3{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)} }

// rayBox is an axis-aligned box in the same float64 space as RayVec3.
type rayBox struct{ Lower, Upper RayVec3 }

func toRayBox(b Box) rayBox {
	return rayBox{Lower: rayVec3(b.Lower), Upper: rayVec3(b.Upper)}
}

// slabRange computes the entry/exit ray parameters for box via the
// slab method, clamped to [tMin, tMax]. ok is false if the ray misses
// box (or, for an axis-aligned ray, starts outside box along that
// axis) within that range.
//
// Grounded on jakecoffman-cp's bb.go SegmentQuery, generalized from 2D
// to 3D and from "hit or miss" to a reusable entry/exit interval.
func slabRange(q, r RayVec3, box rayBox, tMin, tMax float64) (enter, exit float64, ok bool) {
	enter, exit = tMin, tMax
	for i := 0; i < 3; i++ {
		qi, ri := q.Component(i), r.Component(i)
		lo, hi := box.Lower.Component(i), box.Upper.Component(i)
		if ri == 0 {
			if qi < lo || qi >= hi {
				return 0, 0, false
			}
			continue
		}
		t0 := (lo - qi) / ri
		t1 := (hi - qi) / ri
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > enter {
			enter = t0
		}
		if t1 < exit {
			exit = t1
		}
	}
	if enter > exit {
		return 0, 0, false
	}
	return enter, exit, true
}

// FindRayDistance returns the nearest ray/triangle intersection
// parameter t in (0, limit) for the ray q+t*r (both in ALCS space),
// restricted to the ALCS box lrect, or limit if none is found.
func FindRayDistance(h *TileHeader, q, r RayVec3, limit float64, lrect Box) float64 {
	qs := q.Mul(alcsToU16)
	rs := r.Mul(alcsToU16)
	lrectF := toRayBox(lrect)
	lrectU16 := rayBox{Lower: lrectF.Lower.Mul(alcsToU16), Upper: lrectF.Upper.Mul(alcsToU16)}

	lrectLowerDist, lrectUpperDist, ok := slabRange(qs, rs, lrectU16, 0, limit)
	if !ok {
		return limit
	}

	view := h.View()
	currentMin := limit
	seen := intset.NewSet()

	testTriangle := func(tid uint32) {
		tri := h.Triangle(tid)
		a0 := rayVec3(h.PositionVec3ScaledU16(tri[0]))
		a1p := rayVec3(h.PositionVec3ScaledU16(tri[1])).Sub(a0)
		a2p := rayVec3(h.PositionVec3ScaledU16(tri[2])).Sub(a0)
		qp := qs.Sub(a0)

		n := a1p.Cross(a2p)
		rn := rs.Dot(n)
		if rn >= 0 {
			return
		}
		t := -qp.Dot(n) / rn
		if t < lrectLowerDist || t > lrectUpperDist || t <= 0 || t >= currentMin {
			return
		}

		A := a1p.Dot(a1p)
		B := a1p.Dot(a2p)
		C := a2p.Dot(a2p)
		det := A*C - B*B
		if det == 0 {
			return
		}
		k := 1 / det

		kq := qp.Sub(rs.Mul(n.Dot(qp) / rn))

		mu1 := k * (C*a1p.Dot(kq) - B*a2p.Dot(kq))
		mu2 := k * (-B*a1p.Dot(kq) + A*a2p.Dot(kq))
		if mu1 < 0 || mu2 < 0 || 1-mu1-mu2 < 0 {
			return
		}
		currentMin = t
	}

	if !h.HasTriangleTree() {
		for tid := uint32(0); tid < h.NumTriangles; tid++ {
			testTriangle(tid)
		}
		return currentMin
	}

	processLeaf := func(leaf TriLeaf) bool {
		hit := false
		for j := uint32(0); j < leaf.NumBlocks; j++ {
			idx := leaf.BIndex(view, j)
			if !seen.Insert(idx) {
				continue
			}
			start, end := h.TBlockStart(idx), h.TBlockEnd(idx)
			for tid := start; tid < end; tid++ {
				before := currentMin
				testTriangle(tid)
				if currentMin < before {
					hit = true
				}
			}
		}
		return hit
	}

	type childEntry struct {
		isBranch bool
		offset   int
		box      Box
		enter    float64
	}

	var walkBranch func(branch TriBranch, box Box) bool
	walkBranch = func(branch TriBranch, box Box) bool {
		var entries []childEntry
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
				if childBox.Intersects(lrect) {
					childBoxF := toRayBox(childBox)
					childBoxU16 := rayBox{Lower: childBoxF.Lower.Mul(alcsToU16), Upper: childBoxF.Upper.Mul(alcsToU16)}
					if enter, _, ok := slabRange(qs, rs, childBoxU16, 0, limit); ok {
						entries = append(entries, childEntry{isBranch: true, offset: offset, box: childBox, enter: enter})
					}
				}
				offset += child.ByteLen()

			case triLeaf:
				leaf, err := decodeTriLeaf(view, offset, h.BIndexWide())
				if err != nil {
					panic(err)
				}
				if childBox.Intersects(lrect) {
					childBoxF := toRayBox(childBox)
					childBoxU16 := rayBox{Lower: childBoxF.Lower.Mul(alcsToU16), Upper: childBoxF.Upper.Mul(alcsToU16)}
					if enter, _, ok := slabRange(qs, rs, childBoxU16, 0, limit); ok {
						entries = append(entries, childEntry{isBranch: false, offset: offset, box: childBox, enter: enter})
					}
				}
				offset += leaf.ByteLen()
			}
		}

		sort.Slice(entries, func(i, j int) bool { return entries[i].enter < entries[j].enter })

		for _, e := range entries {
			var hit bool
			if e.isBranch {
				child, err := decodeTriBranch(view, e.offset)
				if err != nil {
					panic(err)
				}
				hit = walkBranch(child, e.box)
			} else {
				leaf, err := decodeTriLeaf(view, e.offset, h.BIndexWide())
				if err != nil {
					panic(err)
				}
				hit = processLeaf(leaf)
			}
			if hit {
				return true
			}
		}
		return false
	}

	walkBranch(h.RootBranch(), UnitBox())
	return currentMin
}
