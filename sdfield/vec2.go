// Package sdfield converts a grayscale coverage raster into a signed
// distance field via subpixel binarization and a two-pass 8SSEDT
// sweep.
package sdfield

import "github.com/chewxy/math32"

// Vec2 is a 2D displacement in pixel units, used throughout the grid
// as the nearest-sample vector stored at each node.
//
// Grounded on Vec2 in gogpu-gg's vec.go; kept to the operations the
// distance transform actually needs rather than gogpu-gg's full
// 2D-graphics vector API (rotation, angle, perpendicular).
type Vec2 struct {
	X, Y float32
}

func V2(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(w Vec2) Vec2  { return Vec2{v.X + w.X, v.Y + w.Y} }
func (v Vec2) Sub(w Vec2) Vec2  { return Vec2{v.X - w.X, v.Y - w.Y} }
func (v Vec2) Mul(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Neg() Vec2        { return Vec2{-v.X, -v.Y} }

func (v Vec2) Dot(w Vec2) float32 { return v.X*w.X + v.Y*w.Y }
func (v Vec2) LengthSq() float32  { return v.Dot(v) }
func (v Vec2) Length() float32    { return math32.Sqrt(v.LengthSq()) }

func (v Vec2) Component(i int) float32 {
	if i == 0 {
		return v.X
	}
	return v.Y
}

// IsZero reports whether v is the exact zero vector, used to test the
// grid invariant that every node has v0 == 0 or v1 == 0.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Box2 is an axis-aligned box in 2D pixel-centered coordinates, used
// for the Binarizer's sub-rectangles.
type Box2 struct {
	Lower, Upper Vec2
}

// Clamp returns the point in b nearest to p, used to find the shortest
// vector from a grid node's center to a sub-rectangle.
func (b Box2) Clamp(p Vec2) Vec2 {
	clampAxis := func(v, lo, hi float32) float32 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	return V2(clampAxis(p.X, b.Lower.X, b.Upper.X), clampAxis(p.Y, b.Lower.Y, b.Upper.Y))
}
