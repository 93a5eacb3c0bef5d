package thermal

import "math"

// Coord identifies a single cell in the cube grid.
type Coord struct {
	X, Y, Z int
}

// directions holds the six axis-aligned neighbor offsets. There is no
// wraparound: offsets that leave the grid are skipped per cell, which
// makes the cube surface a perfectly insulated boundary.
var directions = [6]Coord{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Field is a fixed-size 3D grid of cell temperatures in Kelvin, backed
// by a flat slice in x-major order. Snapshots recorded into a run's
// history must never be mutated afterwards; use Clone to derive the
// next state.
type Field struct {
	size  int
	cells []float64
}

// NewField returns a size^3 field with every cell at ambient.
func NewField(size int, ambient float64) *Field {
	f := &Field{
		size:  size,
		cells: make([]float64, size*size*size),
	}
	if ambient != 0 {
		for i := range f.cells {
			f.cells[i] = ambient
		}
	}
	return f
}

// Size returns the cube edge length in cells.
func (f *Field) Size() int { return f.size }

// Len returns the total number of cells.
func (f *Field) Len() int { return len(f.cells) }

func (f *Field) index(c Coord) int {
	return (c.X*f.size+c.Y)*f.size + c.Z
}

func (f *Field) coordAt(i int) Coord {
	z := i % f.size
	y := (i / f.size) % f.size
	x := i / (f.size * f.size)
	return Coord{x, y, z}
}

// Contains reports whether c lies inside the cube.
func (f *Field) Contains(c Coord) bool {
	return c.X >= 0 && c.X < f.size &&
		c.Y >= 0 && c.Y < f.size &&
		c.Z >= 0 && c.Z < f.size
}

// At returns the temperature of the cell at c.
func (f *Field) At(c Coord) float64 { return f.cells[f.index(c)] }

// Set assigns the temperature of the cell at c.
func (f *Field) Set(c Coord, t float64) { f.cells[f.index(c)] = t }

// AtIndex returns the temperature of the cell at flat index i.
func (f *Field) AtIndex(i int) float64 { return f.cells[i] }

// SetIndex assigns the temperature of the cell at flat index i.
func (f *Field) SetIndex(i int, t float64) { f.cells[i] = t }

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	c := &Field{
		size:  f.size,
		cells: make([]float64, len(f.cells)),
	}
	copy(c.cells, f.cells)
	return c
}

// IsFinite reports whether every cell holds a finite value.
func (f *Field) IsFinite() bool {
	for _, v := range f.cells {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Min returns the coldest cell temperature.
func (f *Field) Min() float64 {
	min := f.cells[0]
	for _, v := range f.cells[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the hottest cell temperature.
func (f *Field) Max() float64 {
	max := f.cells[0]
	for _, v := range f.cells[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Sum returns the total of all cell temperatures. With uniform cell
// mass this is proportional to the thermal energy held by the cube.
func (f *Field) Sum() float64 {
	sum := 0.0
	for _, v := range f.cells {
		sum += v
	}
	return sum
}

// Mean returns the average cell temperature.
func (f *Field) Mean() float64 {
	return f.Sum() / float64(len(f.cells))
}

// SliceZ extracts the plane at the given z as rows[y][x], the shape the
// renderers consume.
func (f *Field) SliceZ(z int) [][]float64 {
	rows := make([][]float64, f.size)
	for y := 0; y < f.size; y++ {
		rows[y] = make([]float64, f.size)
		for x := 0; x < f.size; x++ {
			rows[y][x] = f.At(Coord{x, y, z})
		}
	}
	return rows
}

// CloseTo reports whether every cell of f is within tolerance of the
// corresponding cell of other, using an isclose-style comparison:
// |a-b| <= atol + rtol*|b|.
func (f *Field) CloseTo(other *Field, atol, rtol float64) bool {
	if f.size != other.size {
		return false
	}
	for i, v := range f.cells {
		if math.Abs(v-other.cells[i]) > atol+rtol*math.Abs(other.cells[i]) {
			return false
		}
	}
	return true
}
