package cipherops

import (
	"sync"

	"github.com/tuneinsight/lattigo/v3/ckks"
	"gonum.org/v1/gonum/mat"

	"github.com/hemat/hemat/plainops"
)

/*
	Linear-transform evaluator.

	An arbitrary linear map L: m -> U*m over the packed slots is expressed
	as a sum of elementwise products between rotations of the input and the
	generalized diagonals of U:

		U*m = sum_{0<=l<N} u_l .* rho(m;l)

	Each surviving term costs one rotation and one plaintext multiply; zero
	diagonals are skipped. The diagonals are encoded at the ciphertext's
	current scale and level, so every addition in the accumulation sees
	matching metadata.
*/

// LinTrans applies the square matrix U to the vector packed in ct and
// returns a new ciphertext; ct is left untouched. When finalize is set the
// accumulated result is relinearized and rescaled back to the default
// scale, which is the form expected by a following ciphertext-ciphertext
// multiplication. Otherwise scale and level are left as accumulated.
//
// The evaluator must hold Galois keys for every non-zero diagonal offset
// of U (see plainops.RotationsFor).
func LinTrans(U *mat.Dense, ct *ckks.Ciphertext, finalize bool, box Box) (*ckks.Ciphertext, error) {
	diags, err := plainops.NonZeroDiagonals(U)
	if err != nil {
		return nil, err
	}

	params := box.Params
	eval := box.Evaluator
	ecd := box.Encoder
	level, scale := ct.Level(), ct.Scale

	var acc *ckks.Ciphertext
	for l := 0; l < plainops.NumRows(U); l++ {
		u, ok := diags[l]
		if !ok {
			continue
		}
		pt := ckks.NewPlaintext(params, level, scale)
		ecd.EncodeSlots(u, pt, params.LogSlots())

		ctl := ct
		if l != 0 {
			ctl = eval.RotateNew(ct, l)
		}
		term := eval.MulNew(ctl, pt)
		if acc == nil {
			acc = term
		} else {
			eval.Add(acc, term, acc)
		}
	}
	if acc == nil {
		//U is the zero matrix: multiply by an all-zero diagonal to keep
		//the output metadata identical to the regular path
		pt := ckks.NewPlaintext(params, level, scale)
		ecd.EncodeSlots(make([]float64, params.Slots()), pt, params.LogSlots())
		acc = eval.MulNew(ct, pt)
	}

	if finalize {
		if err := finalizeScale(acc, box); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// LinTransParallel computes the same result as LinTrans with the
// per-diagonal terms evaluated by a bounded pool of workers sharing the
// key material, followed by a single accumulation. The decrypted value is
// identical up to rounding since the summation is commutative.
func LinTransParallel(U *mat.Dense, ct *ckks.Ciphertext, finalize bool, poolSize int, box Box) (*ckks.Ciphertext, error) {
	if poolSize <= 1 {
		return LinTrans(U, ct, finalize, box)
	}

	diags, err := plainops.NonZeroDiagonals(U)
	if err != nil {
		return nil, err
	}
	if len(diags) == 0 {
		return LinTrans(U, ct, finalize, box)
	}

	params := box.Params
	level, scale := ct.Level(), ct.Scale

	type linTask struct {
		l    int
		diag []float64
	}
	tasks := make(chan linTask)
	terms := make(chan *ckks.Ciphertext, len(diags))

	var wg sync.WaitGroup
	for w := 0; w < poolSize; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wbox := BoxShallowCopy(box)
			for task := range tasks {
				pt := ckks.NewPlaintext(params, level, scale)
				wbox.Encoder.EncodeSlots(task.diag, pt, params.LogSlots())
				ctl := ct
				if task.l != 0 {
					ctl = wbox.Evaluator.RotateNew(ct, task.l)
				}
				terms <- wbox.Evaluator.MulNew(ctl, pt)
			}
		}()
	}
	for l, u := range diags {
		tasks <- linTask{l: l, diag: u}
	}
	close(tasks)
	wg.Wait()
	close(terms)

	var acc *ckks.Ciphertext
	for term := range terms {
		if acc == nil {
			acc = term
		} else {
			box.Evaluator.Add(acc, term, acc)
		}
	}

	if finalize {
		if err := finalizeScale(acc, box); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

//relinearize if the multiplications grew the ciphertext, then rescale back
//to the default scale
func finalizeScale(ct *ckks.Ciphertext, box Box) error {
	if ct.Degree() > 1 {
		box.Evaluator.Relinearize(ct, ct)
	}
	return box.Evaluator.Rescale(ct, box.Params.DefaultScale(), ct)
}
