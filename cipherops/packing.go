package cipherops

import (
	"github.com/tuneinsight/lattigo/v3/ckks"
	"gonum.org/v1/gonum/mat"

	"github.com/hemat/hemat/plainops"
)

// EncodeMatrix flattens M row-major, tiles the flattened sequence over all
// available slots so that rotations wrap correctly at the logical block
// boundary, and encodes it at the given level and scale.
func EncodeMatrix(M *mat.Dense, level int, scale float64, box Box) (*ckks.Plaintext, error) {
	params := box.Params
	ecd := box.Encoder

	v := plainops.RowFlatten(M)
	slots := params.Slots()
	if len(v) > slots {
		return nil, &plainops.CapacityError{Dim: len(v), Slots: slots}
	}
	tiled := plainops.ReplicateRealArray(v, slots/len(v))

	pt := ckks.NewPlaintext(params, level, scale)
	ecd.EncodeSlots(tiled, pt, params.LogSlots())
	return pt, nil
}

// EncryptMatrix packs M into a single ciphertext: row-major flatten, tile
// to fill the slots, encode at the given level and scale, encrypt.
func EncryptMatrix(M *mat.Dense, level int, scale float64, box Box) (*ckks.Ciphertext, error) {
	pt, err := EncodeMatrix(M, level, scale, box)
	if err != nil {
		return nil, err
	}
	return box.Encryptor.EncryptNew(pt), nil
}

// DecryptMatrix inverts EncryptMatrix: decrypt, decode, truncate to the
// first rows*cols values and reshape. With no intervening operation the
// round-trip reproduces the original matrix within scheme precision.
func DecryptMatrix(ct *ckks.Ciphertext, rows, cols int, box Box) *mat.Dense {
	pt := box.Decryptor.DecryptNew(ct)
	values := box.Encoder.DecodeSlots(pt, box.Params.LogSlots())
	return mat.NewDense(rows, cols, plainops.ComplexToReal(values[:rows*cols]))
}
