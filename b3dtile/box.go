package b3dtile

// Box is an axis-aligned box in ALCS (or u16-normalized) space, closed on
// Lower and open on Upper: a point on the Upper face is considered
// outside.
//
// Grounded on gogpu-gg's Rect/Bounds helpers (text/msdf/types.go,
// internal/clip's Rect), adapted from 2D to 3D and from closed-interval
// to half-open since the tile's ALCS cube is itself half-open.
type Box struct {
	Lower, Upper Vec3
}

// UnitBox returns the tile's own ALCS bounding cube [0,1)^3. Exposed so
// callers can clip a tile against its own bounds without hand-rolling
// the cube.
func UnitBox() Box {
	return Box{Lower: V3(0, 0, 0), Upper: V3(1, 1, 1)}
}

// Intersects reports whether two boxes overlap, treating both as
// half-open: boxes that only share an Upper/Lower face do not intersect.
func (b Box) Intersects(o Box) bool {
	return b.Lower.X < o.Upper.X && o.Lower.X < b.Upper.X &&
		b.Lower.Y < o.Upper.Y && o.Lower.Y < b.Upper.Y &&
		b.Lower.Z < o.Upper.Z && o.Lower.Z < b.Upper.Z
}

// Contains reports whether p lies inside b under the half-open convention:
// Lower is inclusive, Upper is exclusive.
func (b Box) Contains(p Vec3) bool {
	return p.X >= b.Lower.X && p.X < b.Upper.X &&
		p.Y >= b.Lower.Y && p.Y < b.Upper.Y &&
		p.Z >= b.Lower.Z && p.Z < b.Upper.Z
}

// Center returns the midpoint of the box.
func (b Box) Center() Vec3 {
	return b.Lower.Add(b.Upper).Mul(0.5)
}

// Child returns the sub-box of b for octree child index (u,v,w) in
// {0,1}^3: half-size along each axis, offset by which[i]*halfsize. This
// is the box refinement step shared by DescDepth, BCollector, Clipper's
// box test and RaySolver's octree descent.
func (b Box) Child(which [3]int) Box {
	half := b.Upper.Sub(b.Lower).Mul(0.5)
	lower := b.Lower
	for i := 0; i < 3; i++ {
		if which[i] != 0 {
			lower = lower.WithComponent(i, lower.Component(i)+half.Component(i))
		}
	}
	upper := lower.Add(half)
	return Box{Lower: lower, Upper: upper}
}
