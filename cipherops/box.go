package cipherops

import (
	"github.com/tuneinsight/lattigo/v3/ckks"
	"github.com/tuneinsight/lattigo/v3/rlwe"
)

// ScaleTolDefault is the largest relative scale mismatch that alignAdd is
// allowed to reconcile with a metadata-only scale override before an
// addition. Rescaling by primes close to the default scale leaves the
// operands with near-equal but not bit-identical scales; gaps beyond this
// bound are treated as a bookkeeping fault instead of being papered over.
const ScaleTolDefault = 1.0 / (1 << 20)

// Box bundles the scheme collaborators needed to perform encrypted
// operations, like a crypto-ToolBox. Key material is immutable once the
// Box is built and can be shared across goroutines.
type Box struct {
	Params    ckks.Parameters
	Encoder   ckks.Encoder
	Evaluator ckks.Evaluator
	Encryptor ckks.Encryptor
	Decryptor ckks.Decryptor

	// ScaleTol is the relative tolerance applied when near-equal scales
	// are forced equal before an addition. Zero means ScaleTolDefault.
	ScaleTol float64

	sk  *rlwe.SecretKey
	rlk *rlwe.RelinearizationKey
}

// NewBox generates a fresh key set for params and wires up the
// encoder/encryptor/decryptor/evaluator around it. The returned Box has no
// rotation keys; use WithRotations once the rotation set is known.
func NewBox(params ckks.Parameters) Box {
	kgen := ckks.NewKeyGenerator(params)
	sk := kgen.GenSecretKey()
	rlk := kgen.GenRelinearizationKey(sk, 2)

	return Box{
		Params:    params,
		Encoder:   ckks.NewEncoder(params),
		Evaluator: ckks.NewEvaluator(params, rlwe.EvaluationKey{Rlk: rlk}),
		Encryptor: ckks.NewEncryptor(params, sk),
		Decryptor: ckks.NewDecryptor(params, sk),
		ScaleTol:  ScaleTolDefault,
		sk:        sk,
		rlk:       rlk,
	}
}

// WithRotations returns a Box whose evaluator additionally carries Galois
// keys for the given rotation indices.
func (box Box) WithRotations(rotations []int) Box {
	kgen := ckks.NewKeyGenerator(box.Params)
	rtks := kgen.GenRotationKeysForRotations(rotations, false, box.sk)
	box.Evaluator = ckks.NewEvaluator(box.Params, rlwe.EvaluationKey{Rlk: box.rlk, Rtks: rtks})
	return box
}

//shallow copy for worker goroutines: fresh encoder/evaluator buffers, shared keys
func BoxShallowCopy(box Box) Box {
	return Box{
		Params:    box.Params,
		Encoder:   ckks.NewEncoder(box.Params),
		Evaluator: box.Evaluator.ShallowCopy(),
		Encryptor: box.Encryptor,
		Decryptor: box.Decryptor,
		ScaleTol:  box.ScaleTol,
		sk:        box.sk,
		rlk:       box.rlk,
	}
}

func (box Box) scaleTol() float64 {
	if box.ScaleTol == 0 {
		return ScaleTolDefault
	}
	return box.ScaleTol
}
