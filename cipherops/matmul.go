package cipherops

import (
	"sync"

	"github.com/tuneinsight/lattigo/v3/ckks"
	"gonum.org/v1/gonum/mat"

	"github.com/hemat/hemat/plainops"
)

/*
	Matrix-product evaluator.

	For d x d matrices A and B packed row-major into ciphertexts, the
	product is decomposed into four permutation families applied through
	the linear-transform evaluator:

		A*B = sum_k RowShiftBy(k)(RowShift(A)) .* ColShiftBy(k)(ColShift(B))

	Every elementwise product is followed by a relinearization and a
	rescale, and the accumulation aligns level and scale before each
	addition. See https://eprint.iacr.org/2018/1041.pdf.
*/

// MatMulRotations returns the rotation indices a Box must be provisioned
// with before MatMul can be evaluated for block size d.
func MatMulRotations(d, slots int) ([]int, error) {
	ms, err := matmulPermutations(d, slots)
	if err != nil {
		return nil, err
	}
	return plainops.RotationsFor(ms...)
}

// MatMul computes the encrypted product A*B of the d x d matrices packed
// in ctA and ctB. The inputs are not modified. The result is packed with
// the same row-major tiled convention as the inputs, three levels below
// them, at the default scale.
//
// Requires d^2 <= slots/2 and a Box holding relinearization keys and the
// MatMulRotations rotation keys.
func MatMul(ctA, ctB *ckks.Ciphertext, d int, box Box) (*ckks.Ciphertext, error) {
	slots := box.Params.Slots()
	if d*d > slots/2 {
		return nil, &plainops.CapacityError{Dim: d * d, Slots: slots}
	}

	sigma, err := plainops.RowShift(d, slots)
	if err != nil {
		return nil, err
	}
	tau, err := plainops.ColShift(d, slots)
	if err != nil {
		return nil, err
	}

	A0, err := LinTrans(sigma, ctA, true, box)
	if err != nil {
		return nil, err
	}
	B0, err := LinTrans(tau, ctB, true, box)
	if err != nil {
		return nil, err
	}

	acc, err := mulRelinRescale(A0, B0, box)
	if err != nil {
		return nil, err
	}

	for k := 1; k < d; k++ {
		phi, psi, err := stepPermutations(k, d, slots)
		if err != nil {
			return nil, err
		}
		if phi == nil {
			continue
		}
		Ak, err := LinTrans(phi, A0, true, box)
		if err != nil {
			return nil, err
		}
		Bk, err := LinTrans(psi, B0, true, box)
		if err != nil {
			return nil, err
		}
		term, err := mulRelinRescale(Ak, Bk, box)
		if err != nil {
			return nil, err
		}
		if acc, err = alignAdd(acc, term, box); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// MatMulParallel computes the same result as MatMul with the per-step
// terms evaluated by a bounded pool of workers. Terms are accumulated in
// arrival order, which does not affect the decrypted value.
func MatMulParallel(ctA, ctB *ckks.Ciphertext, d, poolSize int, box Box) (*ckks.Ciphertext, error) {
	if poolSize <= 1 {
		return MatMul(ctA, ctB, d, box)
	}

	slots := box.Params.Slots()
	if d*d > slots/2 {
		return nil, &plainops.CapacityError{Dim: d * d, Slots: slots}
	}

	sigma, err := plainops.RowShift(d, slots)
	if err != nil {
		return nil, err
	}
	tau, err := plainops.ColShift(d, slots)
	if err != nil {
		return nil, err
	}

	A0, err := LinTransParallel(sigma, ctA, true, poolSize, box)
	if err != nil {
		return nil, err
	}
	B0, err := LinTransParallel(tau, ctB, true, poolSize, box)
	if err != nil {
		return nil, err
	}

	tasks := make(chan int)
	terms := make(chan *ckks.Ciphertext, d)
	errs := make(chan error, d)

	var wg sync.WaitGroup
	for w := 0; w < poolSize; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wbox := BoxShallowCopy(box)
			for k := range tasks {
				phi, psi, err := stepPermutations(k, d, slots)
				if err != nil {
					errs <- err
					continue
				}
				if phi == nil {
					continue
				}
				Ak, err := LinTrans(phi, A0, true, wbox)
				if err != nil {
					errs <- err
					continue
				}
				Bk, err := LinTrans(psi, B0, true, wbox)
				if err != nil {
					errs <- err
					continue
				}
				term, err := mulRelinRescale(Ak, Bk, wbox)
				if err != nil {
					errs <- err
					continue
				}
				terms <- term
			}
		}()
	}
	for k := 1; k < d; k++ {
		tasks <- k
	}
	close(tasks)
	wg.Wait()
	close(terms)
	close(errs)

	if err := <-errs; err != nil {
		return nil, err
	}

	acc, err := mulRelinRescale(A0, B0, box)
	if err != nil {
		return nil, err
	}
	for term := range terms {
		if acc, err = alignAdd(acc, term, box); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

//ciphertext-ciphertext elementwise product: multiply, relinearize, rescale.
//One level lower, scale back to baseline
func mulRelinRescale(x, y *ckks.Ciphertext, box Box) (*ckks.Ciphertext, error) {
	eval := box.Evaluator
	res := eval.MulRelinNew(x, y)
	if err := eval.Rescale(res, box.Params.DefaultScale(), res); err != nil {
		return nil, err
	}
	return res, nil
}

//step-k shift pair, nil when the pair contributes no non-zero structure
func stepPermutations(k, d, slots int) (phi, psi *mat.Dense, err error) {
	if phi, err = plainops.RowShiftBy(k, d, slots); err != nil {
		return nil, nil, err
	}
	if psi, err = plainops.ColShiftBy(k, d, slots); err != nil {
		return nil, nil, err
	}
	if plainops.IsZero(phi) || plainops.IsZero(psi) {
		return nil, nil, nil
	}
	return phi, psi, nil
}

func matmulPermutations(d, slots int) ([]*mat.Dense, error) {
	sigma, err := plainops.RowShift(d, slots)
	if err != nil {
		return nil, err
	}
	tau, err := plainops.ColShift(d, slots)
	if err != nil {
		return nil, err
	}
	ms := []*mat.Dense{sigma, tau}
	for k := 1; k < d; k++ {
		phi, psi, err := stepPermutations(k, d, slots)
		if err != nil {
			return nil, err
		}
		if phi == nil {
			continue
		}
		ms = append(ms, phi, psi)
	}
	return ms, nil
}
