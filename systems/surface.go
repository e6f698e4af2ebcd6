package systems

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MaxSurfaceVertices is the largest grid addressable with 16-bit indices.
const MaxSurfaceVertices = 1 << 16

// ErrInvalidSurface is returned for surface parameters that cannot form a grid.
var ErrInvalidSurface = errors.New("invalid surface parameters")

// Palette holds the three base colors blended by the surface shading.
type Palette struct {
	Low  color.RGBA // troughs
	High color.RGBA // crests
	Flow color.RGBA // mixed in by the flow term
}

// DefaultPalette returns the sky/cyan water palette.
func DefaultPalette() Palette {
	return Palette{
		Low:  color.RGBA{R: 0x0e, G: 0xa5, B: 0xe9, A: 0xff},
		High: color.RGBA{R: 0x06, G: 0xb6, B: 0xd4, A: 0xff},
		Flow: color.RGBA{R: 0x08, G: 0x91, B: 0xb2, A: 0xff},
	}
}

// SurfaceParams describes the animated plane.
type SurfaceParams struct {
	Width    float64 // extent along x
	Depth    float64 // extent along y
	Segments int     // cells per side; the grid has (Segments+1)² vertices

	Relief  []Wave // static terms (Rate is ignored)
	Ripples []Wave // time-varying terms
	Flow    []Wave // shading flow terms, evaluated in texcoord space

	Palette Palette
}

// DefaultSurfaceParams returns the flood-plain surface used by the background.
func DefaultSurfaceParams() SurfaceParams {
	return SurfaceParams{
		Width:    20,
		Depth:    20,
		Segments: 128,
		Relief: []Wave{
			{FreqR: 0.5, Amp: 0.3},
			{FreqX: 0.8, Amp: 0.2},
			{FreqY: 0.6, Amp: 0.15},
		},
		Ripples: []Wave{
			{FreqX: 2, Rate: 2, Amp: 0.1},
			{FreqY: 1.5, Rate: 1.5, Amp: 0.08},
			{FreqX: 1, FreqY: 1, Rate: 3, Amp: 0.05},
		},
		Flow: []Wave{
			{FreqX: 10, Rate: 2, Amp: 0.5},
			{FreqY: 8, Rate: 1.5, Phase: math.Pi / 2, Amp: 0.5},
		},
		Palette: DefaultPalette(),
	}
}

// Validate checks that params describe a drawable grid.
func (p SurfaceParams) Validate() error {
	if p.Segments < 1 {
		return fmt.Errorf("%w: segments %d < 1", ErrInvalidSurface, p.Segments)
	}
	if n := (p.Segments + 1) * (p.Segments + 1); n > MaxSurfaceVertices {
		return fmt.Errorf("%w: %d vertices exceeds %d", ErrInvalidSurface, n, MaxSurfaceVertices)
	}
	if !(p.Width > 0) || !(p.Depth > 0) || math.IsInf(p.Width, 0) || math.IsInf(p.Depth, 0) {
		return fmt.Errorf("%w: extent %gx%g", ErrInvalidSurface, p.Width, p.Depth)
	}
	return nil
}

// SurfaceMesh is a regular grid whose heights, normals and colors are a pure
// function of elapsed time. Topology is fixed at construction.
type SurfaceMesh struct {
	params SurfaceParams
	relief []Wave // Relief with Rate forced to zero
	cols   int    // vertices per row

	// Grid coordinates, kept in float64 so Update never reads back float32 state.
	xs, ys []float64
	us, vs []float64

	heights []float64

	vertices  []float32 // xyz
	normals   []float32 // xyz
	texcoords []float32 // uv
	colors    []uint8   // rgba
	indices   []uint16

	elapsed float64
}

// NewSurfaceMesh builds the grid and poses it at t = 0.
func NewSurfaceMesh(p SurfaceParams) (*SurfaceMesh, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	cols := p.Segments + 1
	n := cols * cols

	m := &SurfaceMesh{
		params:    p,
		relief:    make([]Wave, len(p.Relief)),
		cols:      cols,
		xs:        make([]float64, n),
		ys:        make([]float64, n),
		us:        make([]float64, n),
		vs:        make([]float64, n),
		heights:   make([]float64, n),
		vertices:  make([]float32, n*3),
		normals:   make([]float32, n*3),
		texcoords: make([]float32, n*2),
		colors:    make([]uint8, n*4),
		indices:   make([]uint16, 0, p.Segments*p.Segments*6),
	}
	for i, w := range p.Relief {
		w.Rate = 0
		m.relief[i] = w
	}

	segW := p.Width / float64(p.Segments)
	segD := p.Depth / float64(p.Segments)
	for row := 0; row < cols; row++ {
		for col := 0; col < cols; col++ {
			i := row*cols + col
			m.xs[i] = float64(col)*segW - p.Width/2
			m.ys[i] = p.Depth/2 - float64(row)*segD
			m.us[i] = float64(col) / float64(p.Segments)
			m.vs[i] = 1 - float64(row)/float64(p.Segments)

			m.vertices[i*3] = float32(m.xs[i])
			m.vertices[i*3+1] = float32(m.ys[i])
			m.texcoords[i*2] = float32(m.us[i])
			m.texcoords[i*2+1] = float32(m.vs[i])
		}
	}

	// Two counter-clockwise triangles per cell, front face toward +z.
	for row := 0; row < p.Segments; row++ {
		for col := 0; col < p.Segments; col++ {
			a := uint16(row*cols + col)
			b := a + 1
			c := uint16((row+1)*cols + col)
			d := c + 1
			m.indices = append(m.indices, a, c, b, c, d, b)
		}
	}

	m.Update(0)
	return m, nil
}

// Height returns the surface height at (x, y) and time t.
func (m *SurfaceMesh) Height(x, y, t float64) float64 {
	return Superpose(m.relief, x, y, 0) + Superpose(m.params.Ripples, x, y, t)
}

// Flow returns the shading flow term at texcoord (u, v) and time t.
func (m *SurfaceMesh) Flow(u, v, t float64) float64 {
	return Superpose(m.params.Flow, u, v, t)
}

// Shade blends the palette for a vertex at height h with flow term flow.
// Returned channels are in [0, 1].
func Shade(p Palette, h, flow float64) (r, g, b, a float64) {
	lowR, lowG, lowB := channels(p.Low)
	highR, highG, highB := channels(p.High)
	flowR, flowG, flowB := channels(p.Flow)

	t := clamp01(h + 0.5)
	r = mix(lowR, highR, t)
	g = mix(lowG, highG, t)
	b = mix(lowB, highB, t)

	f := flow * 0.3
	r = clamp01(mix(r, flowR, f))
	g = clamp01(mix(g, flowG, f))
	b = clamp01(mix(b, flowB, f))

	a = clamp01((0.6 + h*0.4) * (0.8 + flow*0.2))
	return r, g, b, a
}

func channels(c color.RGBA) (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// Update recomputes heights, normals and colors for elapsed time t.
// Nothing is accumulated between calls.
func (m *SurfaceMesh) Update(t float64) {
	m.elapsed = t

	for i := range m.heights {
		h := m.Height(m.xs[i], m.ys[i], t)
		m.heights[i] = h
		m.vertices[i*3+2] = float32(h)
	}

	m.computeNormals()

	for i := range m.heights {
		flow := m.Flow(m.us[i], m.vs[i], t)
		r, g, b, a := Shade(m.params.Palette, m.heights[i], flow)
		m.colors[i*4] = unitToByte(r)
		m.colors[i*4+1] = unitToByte(g)
		m.colors[i*4+2] = unitToByte(b)
		m.colors[i*4+3] = unitToByte(a)
	}
}

// computeNormals derives per-vertex normals from central differences of the
// current heights, one-sided at the grid edges.
func (m *SurfaceMesh) computeNormals() {
	last := m.cols - 1
	for row := 0; row < m.cols; row++ {
		up, down := max(row-1, 0), min(row+1, last)
		for col := 0; col < m.cols; col++ {
			left, right := max(col-1, 0), min(col+1, last)

			l, r := row*m.cols+left, row*m.cols+right
			u, d := up*m.cols+col, down*m.cols+col

			tx := r3.Vec{X: m.xs[r] - m.xs[l], Z: m.heights[r] - m.heights[l]}
			ty := r3.Vec{Y: m.ys[u] - m.ys[d], Z: m.heights[u] - m.heights[d]}
			n := r3.Unit(r3.Cross(tx, ty))

			i := (row*m.cols + col) * 3
			m.normals[i] = float32(n.X)
			m.normals[i+1] = float32(n.Y)
			m.normals[i+2] = float32(n.Z)
		}
	}
}

// Elapsed returns the time of the last Update.
func (m *SurfaceMesh) Elapsed() float64 { return m.elapsed }

// Params returns the parameters the mesh was built from.
func (m *SurfaceMesh) Params() SurfaceParams { return m.params }

// Columns returns the number of vertices per grid row.
func (m *SurfaceMesh) Columns() int { return m.cols }

// VertexCount returns the number of vertices in the grid.
func (m *SurfaceMesh) VertexCount() int { return len(m.heights) }

// TriangleCount returns the number of triangles in the grid.
func (m *SurfaceMesh) TriangleCount() int { return len(m.indices) / 3 }

// Vertex returns the position of vertex i.
func (m *SurfaceMesh) Vertex(i int) (x, y, z float32) {
	return m.vertices[i*3], m.vertices[i*3+1], m.vertices[i*3+2]
}

// Normal returns the normal of vertex i.
func (m *SurfaceMesh) Normal(i int) (x, y, z float32) {
	return m.normals[i*3], m.normals[i*3+1], m.normals[i*3+2]
}

// Color returns the RGBA color of vertex i.
func (m *SurfaceMesh) Color(i int) color.RGBA {
	return color.RGBA{R: m.colors[i*4], G: m.colors[i*4+1], B: m.colors[i*4+2], A: m.colors[i*4+3]}
}

// Vertices returns the xyz position buffer. Callers must not modify it.
func (m *SurfaceMesh) Vertices() []float32 { return m.vertices }

// Normals returns the xyz normal buffer. Callers must not modify it.
func (m *SurfaceMesh) Normals() []float32 { return m.normals }

// Texcoords returns the uv buffer. Callers must not modify it.
func (m *SurfaceMesh) Texcoords() []float32 { return m.texcoords }

// Colors returns the rgba color buffer. Callers must not modify it.
func (m *SurfaceMesh) Colors() []uint8 { return m.colors }

// Indices returns the triangle index buffer. Callers must not modify it.
func (m *SurfaceMesh) Indices() []uint16 { return m.indices }
