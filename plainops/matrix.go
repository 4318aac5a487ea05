package plainops

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

func NumRows(m *mat.Dense) int {
	rows, _ := m.Dims()
	return rows
}

func NumCols(m *mat.Dense) int {
	_, cols := m.Dims()
	return cols
}

func RandMatrix(r, c int) *mat.Dense {
	rng := rand.New(rand.NewSource(42))
	m := make([]float64, r*c)
	for i := range m {
		m[i] = rng.Float64()
	}
	return mat.NewDense(r, c, m)
}

//returns a matrix useful for debug. E.g if r,c = 3,3 -> returns
// | 1 2 3 |
// | 4 5 6 |
// | 7 8 9 |
func MatrixForDebug(r, c int) *mat.Dense {
	m := make([]float64, r*c)
	for i := range m {
		m[i] = float64(i) + 1.0
	}
	return mat.NewDense(r, c, m)
}

// Eye returns a new identity matrix of size n×n.
func Eye(n int) *mat.Dense {
	d := make([]float64, n*n)
	for i := 0; i < n*n; i += n + 1 {
		d[i] = 1
	}
	return mat.NewDense(n, n, d)
}

//flattens m row-major
func RowFlatten(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	v := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v[i*cols+j] = m.At(i, j)
		}
	}
	return v
}

//rotates v of k positions to the left or to the right if k < 0
func RotateRealArray(v []float64, k int) []float64 {
	if k == 0 || len(v) == 0 {
		return v
	}
	var r int
	if k < 0 {
		r = len(v) + k%len(v)
	} else {
		r = k % len(v)
	}
	return append(append([]float64{}, v[r:]...), v[:r]...)
}

//replicates v with n copies
func ReplicateRealArray(v []float64, n int) []float64 {
	vr := make([]float64, n*len(v))
	for i := range vr {
		vr[i] = v[i%len(v)]
	}
	return vr
}

func ComplexToReal(v []complex128) []float64 {
	c := make([]float64, len(v))
	for i := range v {
		c[i] = real(v[i])
	}
	return c
}

func RealToComplex(v []float64) []complex128 {
	c := make([]complex128, len(v))
	for i := range v {
		c[i] = complex(v[i], 0.0)
	}
	return c
}
