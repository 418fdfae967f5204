package b3dtile

import "github.com/chewxy/math32"

// Vec3 represents a 3D displacement or position in the tile's axis-local
// coordinate system (ALCS) or in u16-normalized position space, depending
// on context. Component math runs in float32: tile positions are quantized
// to 16 bits on the wire, so float64 precision buys nothing here and
// float32 keeps the working set small for a WASM heap.
//
// Grounded on Vec2 in gogpu-gg's vec.go, extended to three components.
type Vec3 struct {
	X, Y, Z float32
}

// V3 is a convenience constructor.
func V3(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

func (v Vec3) Dot(w Vec3) float32 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the 3D cross product v x w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

func (v Vec3) LengthSq() float32 { return v.Dot(v) }
func (v Vec3) Length() float32   { return math32.Sqrt(v.LengthSq()) }

// Component returns the i'th component (0=X, 1=Y, 2=Z), used by the
// octree traversal and slab-method ray/box code which index axes
// generically rather than unrolling x/y/z by hand.
func (v Vec3) Component(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// WithComponent returns a copy of v with its i'th component replaced.
func (v Vec3) WithComponent(i int, val float32) Vec3 {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}
