package fractal

// Array is the per-pixel output of one render pass, shaped (Width, Height).
// Cells hold iteration counts, orbit visit counts or convergence counts depending on the variant.
type Array struct {
	Width, Height int
	Cells         []float64
}

func NewArray(width, height int) *Array {
	return &Array{Width: width, Height: height, Cells: make([]float64, width*height)}
}

func (a *Array) index(i, j int) int {
	if i < 0 || i >= a.Width || j < 0 || j >= a.Height {
		panic("fractal: array index out of range")
	}
	return i*a.Height + j
}

// At returns the value of cell (i,j).
func (a *Array) At(i, j int) float64 { return a.Cells[a.index(i, j)] }

func (a *Array) Set(i, j int, v float64) { a.Cells[a.index(i, j)] = v }

// Inc increments cell (i,j) by one.
func (a *Array) Inc(i, j int) { a.Cells[a.index(i, j)]++ }

// Max returns the largest cell value, or 0 for an empty array.
func (a *Array) Max() float64 {
	var m float64
	for _, v := range a.Cells {
		if v > m {
			m = v
		}
	}
	return m
}
