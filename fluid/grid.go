package fluid

import (
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/blas/blas32"
)

// obstacleThreshold is the mask value above which a cell counts as solid.
const obstacleThreshold = 0.5

// Grid is a row-major 2-D buffer of C interleaved float32 components per
// cell. Row 0 is the bottom row, so the vertical axis points up like a
// texture.
type Grid struct {
	W, H, C int
	Data    []float32
}

// NewGrid allocates a zeroed grid.
func NewGrid(w, h, c int) *Grid {
	return &Grid{W: w, H: h, C: c, Data: make([]float32, w*h*c)}
}

// Index returns the offset of component 0 of cell (i, j).
func (g *Grid) Index(i, j int) int {
	return (j*g.W + i) * g.C
}

// At returns component c of cell (i, j).
func (g *Grid) At(i, j, c int) float32 {
	return g.Data[g.Index(i, j)+c]
}

// Set stores v in component c of cell (i, j).
func (g *Grid) Set(i, j, c int, v float32) {
	g.Data[g.Index(i, j)+c] = v
}

// Solid reports whether cell (i, j) of a scalar mask is an obstacle.
func (g *Grid) Solid(i, j int) bool {
	return g.Data[j*g.W+i] > obstacleThreshold
}

func (g *Grid) vector() blas32.Vector {
	return blas32.Vector{N: len(g.Data), Inc: 1, Data: g.Data}
}

// Clear zero-fills the grid.
func (g *Grid) Clear() {
	clear(g.Data)
}

// CopyFrom overwrites g with the contents of src. Both grids must share a
// shape.
func (g *Grid) CopyFrom(src *Grid) {
	blas32.Copy(src.vector(), g.vector())
}

// Scale multiplies every component by a.
func (g *Grid) Scale(a float32) {
	blas32.Scal(a, g.vector())
}

// Norm returns the L2 norm over all components.
func (g *Grid) Norm() float32 {
	return blas32.Nrm2(g.vector())
}

// AbsSum returns the sum of absolute values over all components.
func (g *Grid) AbsSum() float32 {
	return blas32.Asum(g.vector())
}

// Sample bilinearly interpolates component c at texture coordinates
// (u, v), clamping to the edge cells.
func (g *Grid) Sample(u, v float32, c int) float32 {
	var out [4]float32
	g.sampleInto(u, v, out[:g.C])
	return out[c]
}

// sampleInto interpolates all components at (u, v) into out, which must
// hold g.C values.
func (g *Grid) sampleInto(u, v float32, out []float32) {
	x := clampf(u*float32(g.W)-0.5, 0, float32(g.W-1))
	y := clampf(v*float32(g.H)-0.5, 0, float32(g.H-1))

	x0 := int(math32.Floor(x))
	y0 := int(math32.Floor(y))
	x1 := min(x0+1, g.W-1)
	y1 := min(y0+1, g.H-1)
	fx := x - float32(x0)
	fy := y - float32(y0)

	i00 := g.Index(x0, y0)
	i10 := g.Index(x1, y0)
	i01 := g.Index(x0, y1)
	i11 := g.Index(x1, y1)
	for c := range out {
		a := g.Data[i00+c] + (g.Data[i10+c]-g.Data[i00+c])*fx
		b := g.Data[i01+c] + (g.Data[i11+c]-g.Data[i01+c])*fx
		out[c] = a + (b-a)*fy
	}
}

// clampf maps NaN to lo.
func clampf(v, lo, hi float32) float32 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
