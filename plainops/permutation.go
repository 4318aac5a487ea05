package plainops

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// The four structural permutation families below decompose a d x d matrix
// product into linear transformations of the packed operands:
//
//	A*B = sum_k RowShiftBy(k)(RowShift(A)) .* ColShiftBy(k)(ColShift(B))
//
// Each family is a 0/1 matrix over the d^2 packed entries. RowShift and
// ColShift are duplicated via kron(I_2, .) and truncated to the slot
// capacity, so that their outputs carry two adjacent copies of the
// permuted block. The per-step families stay at block size: their wrapped
// diagonals then read the second copy, which realizes the cyclic
// wrap-around inside an otherwise zero-padded slot vector.

// RowShift maps entry (d*i+j) to (d*i + (i+j) mod d).
func RowShift(d, slots int) (*mat.Dense, error) {
	return buildPermutation(d, slots, true, func(i, j int) (int, int) {
		return d*i + j, d*i + (i+j)%d
	})
}

// ColShift maps entry (d*i+j) to (d*((i+j) mod d) + j).
func ColShift(d, slots int) (*mat.Dense, error) {
	return buildPermutation(d, slots, true, func(i, j int) (int, int) {
		return d*i + j, d*((i+j)%d) + j
	})
}

// RowShiftBy maps entry (d*i+j) to (d*i + (j+k) mod d), for k in [1,d).
func RowShiftBy(k, d, slots int) (*mat.Dense, error) {
	return buildPermutation(d, slots, false, func(i, j int) (int, int) {
		return d*i + j, d*i + (j+k)%d
	})
}

// ColShiftBy maps entry (d*i+j) to (d*((i+k) mod d) + j), for k in [1,d).
func ColShiftBy(k, d, slots int) (*mat.Dense, error) {
	return buildPermutation(d, slots, false, func(i, j int) (int, int) {
		return d*i + j, d*((i+k)%d) + j
	})
}

func buildPermutation(d, slots int, duplicate bool, target func(i, j int) (int, int)) (*mat.Dense, error) {
	n := d * d
	if n > slots/2 {
		return nil, &CapacityError{Dim: n, Slots: slots}
	}
	U := mat.NewDense(n, n, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			r, c := target(i, j)
			U.Set(r, c, 1.0)
		}
	}
	if duplicate {
		return embed(U, slots), nil
	}
	return U, nil
}

//kron(I_2, U), truncated to the slot capacity
func embed(U *mat.Dense, slots int) *mat.Dense {
	n, _ := U.Dims()
	t := 2 * n
	if t > slots {
		t = slots
	}
	E := mat.NewDense(t, t, nil)
	for i := 0; i < t; i++ {
		for j := 0; j < t; j++ {
			if i/n == j/n {
				E.Set(i, j, U.At(i%n, j%n))
			}
		}
	}
	return E
}

// IsZero reports whether every entry of U is zero, in which case a linear
// transformation by U contributes no structure and can be skipped.
func IsZero(U *mat.Dense) bool {
	rows, cols := U.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if U.At(i, j) != 0 {
				return false
			}
		}
	}
	return true
}

// RotationsFor collects the offsets of the non-zero generalized diagonals
// of the given square matrices, sorted and deduplicated. These are the
// rotation indices for which Galois keys must be provisioned before the
// matrices can be applied to a ciphertext.
func RotationsFor(ms ...*mat.Dense) ([]int, error) {
	seen := make(map[int]bool)
	for _, m := range ms {
		diags, err := NonZeroDiagonals(m)
		if err != nil {
			return nil, err
		}
		for l := range diags {
			if l != 0 { //rotation by zero needs no key
				seen[l] = true
			}
		}
	}
	rotations := make([]int, 0, len(seen))
	for l := range seen {
		rotations = append(rotations, l)
	}
	sort.Ints(rotations)
	return rotations, nil
}
