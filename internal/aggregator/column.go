package aggregator

import (
	"math"
	"math/bits"

	"github.com/agbru/digestagg/internal/digest"
	apperrors "github.com/agbru/digestagg/internal/errors"
)

const (
	phaseFold       = "fold"
	phaseCorrection = "correction"
)

// SumByColumns returns the modular sum of digests computed limb-position
// first: limb 0 of every digest, then limb 1, and so on. The overflow count
// of each column is the carry fed into the next one.
//
// The result is identical to Sum. The only possible error is a
// CarryOverflowError, which requires on the order of 2^64 digests.
func SumByColumns(digests []digest.Digest) (digest.Digest, error) {
	var res digest.Digest
	var carry uint64
	for i := range res {
		sum, overflows, err := foldColumn(digests, i, carry)
		if err != nil {
			return digest.Digest{}, err
		}
		res[i], carry = sum, overflows
	}
	return res, nil
}

// foldColumn adds limb idx of every digest to init. It returns the wrapped
// sum and how many times the running sum wrapped around.
func foldColumn(digests []digest.Digest, idx int, init uint64) (sum, overflows uint64, err error) {
	sum = init
	for i := range digests {
		var c uint64
		sum, c = bits.Add64(sum, digests[i][idx], 0)
		if c != 0 {
			if overflows, err = bumpCarry(overflows, idx, phaseFold); err != nil {
				return 0, 0, err
			}
		}
	}
	return sum, overflows, nil
}

// bumpCarry increments an overflow counter, refusing to wrap it.
func bumpCarry(c uint64, limb int, phase string) (uint64, error) {
	if c == math.MaxUint64 {
		return 0, apperrors.CarryOverflowError{Limb: limb, Phase: phase}
	}
	return c + 1, nil
}

// Column is the Strategy wrapper around SumByColumns.
type Column struct{}

// Name returns the registry key of the strategy.
func (Column) Name() string { return "column" }

// Aggregate implements Strategy.
func (Column) Aggregate(digests []digest.Digest) (digest.Digest, error) {
	return SumByColumns(digests)
}
