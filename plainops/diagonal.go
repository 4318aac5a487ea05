package plainops

import (
	"gonum.org/v1/gonum/mat"
)

// Diagonal extracts the l-th generalized diagonal of the square matrix U,
// i.e. the vector U[i, (i+l) mod N] for i in [0,N). It is built as the
// concatenation of the upper diagonal diag(U,l) and the wrapped lower
// diagonal diag(U,l-N).
func Diagonal(U *mat.Dense, l int) ([]float64, error) {
	rows, cols := U.Dims()
	if rows != cols {
		return nil, &ShapeError{Rows: rows, Cols: cols}
	}
	n := rows
	if l < 0 || l >= n {
		return nil, &IndexError{Offset: l, N: n}
	}
	d := make([]float64, 0, n)
	for i := 0; i < n-l; i++ {
		d = append(d, U.At(i, i+l))
	}
	for i := 0; i < l; i++ {
		d = append(d, U.At(n-l+i, i))
	}
	if len(d) != n {
		return nil, &IndexError{Offset: l, N: n}
	}
	return d, nil
}

// NonZeroDiagonals returns every generalized diagonal of U that is not
// identically zero, keyed by its offset. Zero diagonals contribute nothing
// to the rotate-and-multiply sum and are skipped by the evaluators.
func NonZeroDiagonals(U *mat.Dense) (map[int][]float64, error) {
	rows, cols := U.Dims()
	if rows != cols {
		return nil, &ShapeError{Rows: rows, Cols: cols}
	}
	diags := make(map[int][]float64)
	for l := 0; l < rows; l++ {
		d, err := Diagonal(U, l)
		if err != nil {
			return nil, err
		}
		isZero := true
		for _, v := range d {
			if v != 0 {
				isZero = false
				break
			}
		}
		if !isZero {
			diags[l] = d
		}
	}
	return diags, nil
}

// ApplyDiagonals evaluates sum_l u_l .* rho(m;l) in plain floating-point
// arithmetic, where rho is the cyclic left rotation. For diags extracted
// from a square U with len(m) rows this equals U*m exactly, which makes it
// the unencrypted oracle for the evaluators. Diagonal vectors shorter than
// m are treated as zero-padded, the way the encoder pads them to the slot
// count.
func ApplyDiagonals(diags map[int][]float64, m []float64) []float64 {
	res := make([]float64, len(m))
	//fixed offset order so that runs with and without skipped zero
	//diagonals sum in the same sequence
	for l := 0; l < len(m); l++ {
		u, ok := diags[l]
		if !ok {
			continue
		}
		rot := RotateRealArray(m, l)
		for j := 0; j < len(u) && j < len(res); j++ {
			res[j] += u[j] * rot[j]
		}
	}
	return res
}
