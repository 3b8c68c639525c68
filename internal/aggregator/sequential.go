package aggregator

import (
	"math/bits"

	"github.com/agbru/digestagg/internal/digest"
)

// Sum returns the modular sum of digests using digest-major ripple-carry
// addition. An empty input returns the zero digest.
func Sum(digests []digest.Digest) digest.Digest {
	var acc digest.Digest
	for i := range digests {
		addInto(&acc, &digests[i])
	}
	return acc
}

// addInto adds d to acc in place, limb 0 upward. The carry out of the last
// limb is dropped.
func addInto(acc, d *digest.Digest) {
	var carry uint64
	for i := range acc {
		acc[i], carry = bits.Add64(acc[i], d[i], carry)
	}
}

// Sequential is the Strategy wrapper around Sum.
type Sequential struct{}

// Name returns the registry key of the strategy.
func (Sequential) Name() string { return "sequential" }

// Aggregate implements Strategy. It never fails.
func (Sequential) Aggregate(digests []digest.Digest) (digest.Digest, error) {
	return Sum(digests), nil
}
