package sdfield

import "github.com/chewxy/math32"

// Node is one grid cell: the shortest vector to the nearest foreground
// sample (V0) and to the nearest background sample (V1), both in
// pixel units relative to the cell's own center.
type Node struct {
	V0, V1 Vec2
}

// maxLegitDistSq bounds any real in-grid vector's squared length; the
// infinity-point sentinel always exceeds it by construction, so it
// doubles as the "still unseeded" test.
var maxLegitDistSq = float32(MaxSDFWidth*MaxSDFWidth + MaxSDFHeight*MaxSDFHeight)

func isInf(v Vec2) bool { return v.LengthSq() > maxLegitDistSq }

// Grid is the two-sided distance grid used to build one signed
// distance field. It is allocated fresh for each build and discarded
// once the output pixels are written.
//
// Grounded on gogpu-gg's text/msdf/generator.go Generate, which
// likewise allocates a scratch raster for one generation pass and
// processes it row by row.
type Grid struct {
	outW, outH int // output SDF dimensions, excluding the 1px dummy border
	sdfExt     int
	covW, covH int
	stride     int // outW+2, the allocated row width including the dummy border
	nodes      []Node
}

func newGrid(covW, covH, sdfExt int) *Grid {
	outW := covW + 2*sdfExt
	outH := covH + 2*sdfExt
	stride := outW + 2
	rows := outH + 2
	return &Grid{
		outW: outW, outH: outH, sdfExt: sdfExt,
		covW: covW, covH: covH,
		stride: stride,
		nodes:  make([]Node, stride*rows),
	}
}

func (g *Grid) idx(x, y int) int { return (y+1)*g.stride + (x + 1) }

func (g *Grid) at(x, y int) *Node { return &g.nodes[g.idx(x, y)] }

func (g *Grid) center(x, y int) Vec2 { return V2(float32(x)+0.5, float32(y)+0.5) }

// inMappedRegion reports whether (x,y), in grid-local coordinates,
// falls inside the caller's coverage raster as mapped into the padded
// output grid.
func (g *Grid) inMappedRegion(x, y int) bool {
	return x >= g.sdfExt && x < g.sdfExt+g.covW && y >= g.sdfExt && y < g.sdfExt+g.covH
}

func (g *Grid) infVec(x, y int) Vec2 {
	return infPoint.Sub(g.center(x, y))
}

func classify(coverage float32) (fulcov, empty bool) {
	c := float64(coverage) / 255
	return c >= fulcovThreshold, c <= 1-fulcovThreshold
}

// seed runs stages A through C: outer-border seeding, mapped-region
// seeding by pixel classification, and the inner boundary patch so
// edge cells facing the exterior, which is seeded as background, don't
// carry a spuriously infinite background vector.
func (g *Grid) seed(sample CoverageSampler) {
	for y := -1; y <= g.outH; y++ {
		for x := -1; x <= g.outW; x++ {
			if g.inMappedRegion(x, y) {
				continue
			}
			n := g.at(x, y)
			n.V0 = g.infVec(x, y)
			n.V1 = Vec2{}
		}
	}

	for cy := 0; cy < g.covH; cy++ {
		for cx := 0; cx < g.covW; cx++ {
			x, y := g.sdfExt+cx, g.sdfExt+cy
			coverage := sample(cx, cy)
			fulcov, empty := classify(coverage)
			n := g.at(x, y)
			switch {
			case fulcov:
				n.V0 = Vec2{}
				n.V1 = g.infVec(x, y)
			case empty:
				n.V0 = g.infVec(x, y)
				n.V1 = Vec2{}
			default:
				n.V0 = g.infVec(x, y)
				n.V1 = g.infVec(x, y)
			}
		}
	}

	for cy := 0; cy < g.covH; cy++ {
		for cx := 0; cx < g.covW; cx++ {
			x, y := g.sdfExt+cx, g.sdfExt+cy
			n := g.at(x, y)
			if !isInf(n.V1) {
				continue
			}
			apply := func(patch Vec2) {
				if !isInf(n.V1) && patch.LengthSq() >= n.V1.LengthSq() {
					return
				}
				n.V1 = patch
			}
			if cy == 0 {
				apply(V2(0, -0.5))
			}
			if cy == g.covH-1 {
				apply(V2(0, 0.5))
			}
			if cx == 0 {
				apply(V2(-0.5, 0))
			}
			if cx == g.covW-1 {
				apply(V2(0.5, 0))
			}
		}
	}
}

// relaxBoundary performs stage D: for every fulcov/empty pixel, push
// an exact shortest-vector candidate into its 3x3 neighborhood from
// the pixel's own unit boundary square.
func (g *Grid) relaxBoundary(sample CoverageSampler) {
	for cy := 0; cy < g.covH; cy++ {
		for cx := 0; cx < g.covW; cx++ {
			coverage := sample(cx, cy)
			fulcov, empty := classify(coverage)
			if !fulcov && !empty {
				continue
			}
			x, y := g.sdfExt+cx, g.sdfExt+cy
			center := g.center(x, y)
			square := Box2{Lower: center.Sub(V2(0.5, 0.5)), Upper: center.Add(V2(0.5, 0.5))}

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					neighbor := g.at(nx, ny)
					nc := g.center(nx, ny)
					cand := square.Clamp(nc).Sub(nc)
					if fulcov {
						if cand.LengthSq() < neighbor.V0.LengthSq() {
							neighbor.V0 = cand
						}
					} else {
						if cand.LengthSq() < neighbor.V1.LengthSq() {
							neighbor.V1 = cand
						}
					}
				}
			}
		}
	}
}

// relaxSubpixel performs stage E: for every gencov pixel, binarize it
// and push sub-rectangle shortest-vector candidates into its 3x3
// neighborhood.
func (g *Grid) relaxSubpixel(sample CoverageSampler) {
	for cy := 0; cy < g.covH; cy++ {
		for cx := 0; cx < g.covW; cx++ {
			coverage := sample(cx, cy)
			fulcov, empty := classify(coverage)
			if fulcov || empty {
				continue
			}
			x, y := g.sdfExt+cx, g.sdfExt+cy
			center := g.center(x, y)
			bz := Binarize(sample, cx, cy)

			update := func(rects []Box2, front bool) {
				for _, r := range rects {
					world := Box2{Lower: r.Lower.Add(center), Upper: r.Upper.Add(center)}
					for dy := -1; dy <= 1; dy++ {
						for dx := -1; dx <= 1; dx++ {
							nx, ny := x+dx, y+dy
							neighbor := g.at(nx, ny)
							nc := g.center(nx, ny)
							cand := world.Clamp(nc).Sub(nc)
							if front {
								if cand.LengthSq() < neighbor.V0.LengthSq() {
									neighbor.V0 = cand
								}
							} else {
								if cand.LengthSq() < neighbor.V1.LengthSq() {
									neighbor.V1 = cand
								}
							}
						}
					}
				}
			}
			update(bz.PixelParts(false), true)
			update(bz.PixelParts(true), false)
		}
	}
}

func relax(u, o *Node, ox, oy float32) {
	offset := V2(ox, oy)
	if cand := o.V0.Add(offset); cand.LengthSq() < u.V0.LengthSq() {
		u.V0 = cand
	}
	if cand := o.V1.Add(offset); cand.LengthSq() < u.V1.LengthSq() {
		u.V1 = cand
	}
}

// sweep performs stage F: the two-pass 8SSEDT relaxation over the
// full grid including its dummy border.
func (g *Grid) sweep() {
	// Top-down pass.
	for y := -1; y <= g.outH; y++ {
		for x := -1; x <= g.outW; x++ {
			u := g.at(x, y)
			if x-1 >= -1 {
				relax(u, g.at(x-1, y), -1, 0)
			}
			if y-1 >= -1 {
				if x-1 >= -1 {
					relax(u, g.at(x-1, y-1), -1, -1)
				}
				relax(u, g.at(x, y-1), 0, -1)
				if x+1 <= g.outW {
					relax(u, g.at(x+1, y-1), 1, -1)
				}
			}
		}
		for x := g.outW; x >= -1; x-- {
			u := g.at(x, y)
			if x+1 <= g.outW {
				relax(u, g.at(x+1, y), 1, 0)
			}
		}
	}

	// Bottom-up pass.
	for y := g.outH; y >= -1; y-- {
		for x := g.outW; x >= -1; x-- {
			u := g.at(x, y)
			if x+1 <= g.outW {
				relax(u, g.at(x+1, y), 1, 0)
			}
			if y+1 <= g.outH {
				if x+1 <= g.outW {
					relax(u, g.at(x+1, y+1), 1, 1)
				}
				relax(u, g.at(x, y+1), 0, 1)
				if x-1 >= -1 {
					relax(u, g.at(x-1, y+1), -1, 1)
				}
			}
		}
		for x := -1; x <= g.outW; x++ {
			u := g.at(x, y)
			if x-1 >= -1 {
				relax(u, g.at(x-1, y), -1, 0)
			}
		}
	}
}

// finalize performs the finalization step: compute each output
// pixel's signed distance sample and write it, row-flipped, into a
// 4-byte-aligned buffer.
func (g *Grid) finalize() (pixels []byte, rowPitch int) {
	rowPitch = Align4(g.outW)
	pixels = make([]byte, rowPitch*g.outH)

	for y := 0; y < g.outH; y++ {
		yOut := g.outH - 1 - y
		for x := 0; x < g.outW; x++ {
			n := g.at(x, y)
			d := n.V0.Length() - n.V1.Length()
			s := (d - DistLower) * DistFactor * 255
			if s < 0 {
				s = 0
			}
			if s > 255 {
				s = 255
			}
			pixels[yOut*rowPitch+x] = byte(math32.Round(s))
		}
	}
	return pixels, rowPitch
}

// Align4 rounds n up to the next multiple of 4.
func Align4(n int) int { return (n + 3) &^ 3 }

// BuildSDF runs the full grid pipeline (stages A-F) over a covW x covH
// coverage raster read through sample, with sdfExt padding pixels on
// each side, and returns the finished SDF image and its row pitch.
func BuildSDF(sample CoverageSampler, covW, covH, sdfExt int) (pixels []byte, rowPitch int) {
	g := newGrid(covW, covH, sdfExt)
	g.seed(sample)
	g.relaxBoundary(sample)
	g.relaxSubpixel(sample)
	g.sweep()
	return g.finalize()
}
