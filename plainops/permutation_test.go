package plainops

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const testSlots = 8192

//duplicated families are block-diagonal with two copies of the closed form
func checkDuplicated(t *testing.T, E *mat.Dense, d int, target func(i, j int) int) {
	t.Helper()
	n := d * d
	rows, cols := E.Dims()
	require.Equal(t, 2*n, rows)
	require.Equal(t, 2*n, cols)

	want := closedForm(d, target)
	for r := 0; r < 2*n; r++ {
		for c := 0; c < 2*n; c++ {
			if r/n == c/n {
				require.Equal(t, want.At(r%n, c%n), E.At(r, c), "entry (%d,%d)", r, c)
			} else {
				require.Equal(t, 0.0, E.At(r, c), "entry (%d,%d) outside duplicated blocks", r, c)
			}
		}
	}
}

//per-step families stay at block size
func checkBlock(t *testing.T, E *mat.Dense, d int, target func(i, j int) int) {
	t.Helper()
	n := d * d
	rows, cols := E.Dims()
	require.Equal(t, n, rows)
	require.Equal(t, n, cols)

	want := closedForm(d, target)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			require.Equal(t, want.At(r, c), E.At(r, c), "entry (%d,%d)", r, c)
		}
	}
}

func closedForm(d int, target func(i, j int) int) *mat.Dense {
	n := d * d
	want := mat.NewDense(n, n, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			want.Set(d*i+j, target(i, j), 1)
		}
	}
	return want
}

func TestPermutationClosedForms(t *testing.T) {
	for _, d := range []int{2, 4, 8} {
		sigma, err := RowShift(d, testSlots)
		require.NoError(t, err)
		checkDuplicated(t, sigma, d, func(i, j int) int { return d*i + (i+j)%d })

		tau, err := ColShift(d, testSlots)
		require.NoError(t, err)
		checkDuplicated(t, tau, d, func(i, j int) int { return d*((i+j)%d) + j })

		for k := 0; k < d; k++ {
			phi, err := RowShiftBy(k, d, testSlots)
			require.NoError(t, err)
			checkBlock(t, phi, d, func(i, j int) int { return d*i + (j+k)%d })

			psi, err := ColShiftBy(k, d, testSlots)
			require.NoError(t, err)
			checkBlock(t, psi, d, func(i, j int) int { return d*((i+k)%d) + j })

			require.False(t, IsZero(phi))
			require.False(t, IsZero(psi))
		}
	}
}

func TestPermutationCapacity(t *testing.T) {
	var capErr *CapacityError
	_, err := RowShift(128, testSlots) // 128^2 > 8192/2
	require.True(t, errors.As(err, &capErr))
	_, err = ColShiftBy(1, 128, testSlots)
	require.True(t, errors.As(err, &capErr))
}

//plain evaluation of the four-permutation product decomposition:
//A*B == sum_k RowShiftBy(k)(RowShift(A)) .* ColShiftBy(k)(ColShift(B))
func TestPermutationProductIdentity(t *testing.T) {
	for _, d := range []int{2, 4} {
		n := d * d
		L := 8 * n //stand-in for the slot vector
		A := RandMatrix(d, d)
		B := MatrixForDebug(d, d)

		//packed operands, tiled over the whole vector like the encoder does
		a := ReplicateRealArray(RowFlatten(A), L/n)
		b := ReplicateRealArray(RowFlatten(B), L/n)

		apply := func(U *mat.Dense, v []float64) []float64 {
			diags, err := NonZeroDiagonals(U)
			require.NoError(t, err)
			return ApplyDiagonals(diags, v)
		}

		sigma, err := RowShift(d, testSlots)
		require.NoError(t, err)
		tau, err := ColShift(d, testSlots)
		require.NoError(t, err)

		a0 := apply(sigma, a)
		b0 := apply(tau, b)

		//the duplicated families leave two adjacent copies for the
		//per-step wrap-around to read
		for j := 0; j < n; j++ {
			require.InDelta(t, a0[j], a0[n+j], 1e-12)
			require.InDelta(t, b0[j], b0[n+j], 1e-12)
		}

		acc := make([]float64, L)
		for j := range acc {
			acc[j] = a0[j] * b0[j]
		}
		for k := 1; k < d; k++ {
			phi, err := RowShiftBy(k, d, testSlots)
			require.NoError(t, err)
			psi, err := ColShiftBy(k, d, testSlots)
			require.NoError(t, err)
			if IsZero(phi) || IsZero(psi) {
				continue
			}
			ak := apply(phi, a0)
			bk := apply(psi, b0)
			for j := range acc {
				acc[j] += ak[j] * bk[j]
			}
		}

		var AB mat.Dense
		AB.Mul(A, B)
		want := RowFlatten(&AB)
		for j := 0; j < n; j++ {
			require.InDelta(t, want[j], acc[j], 1e-9, "d=%d entry %d", d, j)
		}
	}
}

func TestRotationsFor(t *testing.T) {
	d := 4
	sigma, err := RowShift(d, testSlots)
	require.NoError(t, err)
	tau, err := ColShift(d, testSlots)
	require.NoError(t, err)

	rots, err := RotationsFor(sigma, tau)
	require.NoError(t, err)
	require.NotEmpty(t, rots)
	for i, r := range rots {
		require.Greater(t, r, 0, "rotation by zero needs no key")
		require.Less(t, r, 2*d*d)
		if i > 0 {
			require.Greater(t, r, rots[i-1], "sorted and deduplicated")
		}
	}

	//every rotation must correspond to a non-zero diagonal of one input
	sigmaDiags, err := NonZeroDiagonals(sigma)
	require.NoError(t, err)
	tauDiags, err := NonZeroDiagonals(tau)
	require.NoError(t, err)
	for _, r := range rots {
		_, inSigma := sigmaDiags[r]
		_, inTau := tauDiags[r]
		require.True(t, inSigma || inTau, "rotation %d", r)
	}
}
