package cipherops

import (
	"fmt"
	"math"

	"github.com/tuneinsight/lattigo/v3/ckks"

	"github.com/hemat/hemat/plainops"
)

type DebugStats struct {
	MinPrec  float64
	AvgPrec  float64
	MaxPrec  float64
	MaxValue float64
}

// PrintDebug decrypts ct, prints precision statistics against the expected
// values and returns them. Test and experiment helper.
func PrintDebug(ct *ckks.Ciphertext, valuesWant []complex128, box Box) DebugStats {
	encoder := box.Encoder
	params := box.Params

	valuesTest := encoder.DecodeSlots(box.Decryptor.DecryptNew(ct), params.LogSlots())[:len(valuesWant)]

	precStats := ckks.GetPrecisionStats(params, encoder, nil, valuesWant, valuesTest, params.LogSlots(), 0)
	fmt.Println(precStats.String())

	maxTest := 0.0
	for _, v := range plainops.ComplexToReal(valuesTest) {
		if math.Abs(v) > maxTest {
			maxTest = math.Abs(v)
		}
	}

	return DebugStats{
		MinPrec:  precStats.MinPrecision.Real,
		AvgPrec:  precStats.MeanPrecision.Real,
		MaxPrec:  precStats.MaxPrecision.Real,
		MaxValue: maxTest,
	}
}
