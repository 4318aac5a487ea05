package cipherops

import (
	"fmt"
	"math"

	"github.com/tuneinsight/lattigo/v3/ckks"
)

// LevelMismatchError signals that two operands of an additive step could
// not be brought to a common level and scale. The modulus chain is
// one-directional, so there is no recovery path: the computation aborts.
type LevelMismatchError struct {
	Reason string
}

func (e *LevelMismatchError) Error() string {
	return "cannot align operands for addition: " + e.Reason
}

// alignAdd adds term into acc, mod-switching the higher operand down to
// the lower level (never up) and forcing near-equal scales to be declared
// equal within the Box tolerance. Both inputs are consumed.
func alignAdd(acc, term *ckks.Ciphertext, box Box) (*ckks.Ciphertext, error) {
	eval := box.Evaluator

	if acc.Level() > term.Level() {
		eval.DropLevel(acc, acc.Level()-term.Level())
	} else if term.Level() > acc.Level() {
		eval.DropLevel(term, term.Level()-acc.Level())
	}

	if acc.Scale != term.Scale {
		gap := math.Abs(acc.Scale-term.Scale) / acc.Scale
		if gap > box.scaleTol() {
			return nil, &LevelMismatchError{
				Reason: fmt.Sprintf("scales %f and %f differ by %e, tolerance %e", acc.Scale, term.Scale, gap, box.scaleTol()),
			}
		}
		term.Scale = acc.Scale
	}

	eval.Add(acc, term, acc)
	return acc, nil
}
