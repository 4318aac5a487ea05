package plainops

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDiagonalClosedForm(t *testing.T) {
	n := 4
	U := MatrixForDebug(n, n)
	for l := 0; l < n; l++ {
		d, err := Diagonal(U, l)
		require.NoError(t, err)
		require.Len(t, d, n)
		for i := 0; i < n; i++ {
			require.Equal(t, U.At(i, (i+l)%n), d[i], "offset %d entry %d", l, i)
		}
	}
}

func TestDiagonalNonSquare(t *testing.T) {
	U := MatrixForDebug(3, 4)
	_, err := Diagonal(U, 0)
	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))

	_, err = NonZeroDiagonals(U)
	require.True(t, errors.As(err, &shapeErr))
}

func TestDiagonalOffsetOutOfBounds(t *testing.T) {
	U := MatrixForDebug(4, 4)
	var idxErr *IndexError
	_, err := Diagonal(U, 4)
	require.True(t, errors.As(err, &idxErr))
	_, err = Diagonal(U, -1)
	require.True(t, errors.As(err, &idxErr))
}

//sum_l u_l .* rho(m;l) == U*m, in plain floating point
func TestRotateMultiplyIdentity(t *testing.T) {
	for _, n := range []int{2, 5, 8, 16} {
		U := RandMatrix(n, n)
		rng := rand.New(rand.NewSource(1))
		m := make([]float64, n)
		for i := range m {
			m[i] = rng.NormFloat64()
		}

		diags, err := NonZeroDiagonals(U)
		require.NoError(t, err)
		got := ApplyDiagonals(diags, m)

		var want mat.VecDense
		want.MulVec(U, mat.NewVecDense(n, m))
		for i := 0; i < n; i++ {
			require.InDelta(t, want.AtVec(i), got[i], 1e-12, "dimension %d entry %d", n, i)
		}
	}
}

//the skip-if-zero optimization must not change the result at all
func TestSkippedDiagonalsAgreeExactly(t *testing.T) {
	n := 8
	U := mat.NewDense(n, n, nil)
	U.Set(0, 1, 1)
	U.Set(0, 3, 1)
	U.Set(0, 5, 1)
	U.Set(0, 7, 1)

	m := []float64{0, 1, 2, 3, 4, 5, 6, 7}

	skipped, err := NonZeroDiagonals(U)
	require.NoError(t, err)
	require.Len(t, skipped, 4)

	full := make(map[int][]float64)
	for l := 0; l < n; l++ {
		d, err := Diagonal(U, l)
		require.NoError(t, err)
		full[l] = d
	}

	got := ApplyDiagonals(skipped, m)
	want := ApplyDiagonals(full, m)
	require.Equal(t, want, got)

	require.Equal(t, 16.0, got[0])
	for i := 1; i < n; i++ {
		require.Equal(t, 0.0, got[i])
	}
}
