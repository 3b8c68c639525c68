// Package generator produces pseudo-random digest sets for tests, benchmarks
// and the CLI, together with an independently computed expected aggregate.
package generator

import (
	"math/big"
	"math/rand/v2"

	"github.com/agbru/digestagg/internal/digest"
)

// DefaultCount is the size of the digest set produced by DataPoint callers
// that do not need a specific count.
const DefaultCount = 1000

// Generator draws digests from a seeded PCG source. The same seed always
// yields the same sequence. A Generator is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator seeded with seed.
func New(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Digest returns one digest with every limb drawn uniformly.
func (g *Generator) Digest() digest.Digest {
	var d digest.Digest
	for i := range d {
		d[i] = g.rng.Uint64()
	}
	return d
}

// Random returns n uniformly random digests. Non-positive n yields an empty
// slice.
func (g *Generator) Random(n int) []digest.Digest {
	if n <= 0 {
		return []digest.Digest{}
	}
	out := make([]digest.Digest, n)
	for i := range out {
		out[i] = g.Digest()
	}
	return out
}

// DataPoint returns n random digests and their expected aggregate, computed
// with math/big rather than any of the aggregation strategies.
func (g *Generator) DataPoint(n int) ([]digest.Digest, digest.Digest) {
	digests := g.Random(n)
	return digests, Expected(digests)
}

// Expected sums digests as arbitrary-precision integers and reduces the
// total modulo 2^(64*digest.Width). It serves as the reference oracle.
func Expected(digests []digest.Digest) digest.Digest {
	total := new(big.Int)
	for i := range digests {
		total.Add(total, digests[i].BigInt())
	}
	return digest.FromBigInt(total)
}

// Repeat returns n copies of d.
func Repeat(d digest.Digest, n int) []digest.Digest {
	if n <= 0 {
		return []digest.Digest{}
	}
	out := make([]digest.Digest, n)
	for i := range out {
		out[i] = d
	}
	return out
}

// SequenceGamma is the multiplier of Sequence.
const SequenceGamma uint64 = 0x9E3779B97F4A7C15

// Sequence returns n digests whose limbs follow a fixed formula,
// limb j of digest i being (i+1)*(j+1)*SequenceGamma mod 2^64. Unlike Random
// it does not depend on any random source, so golden files built from it
// stay valid across Go releases.
func Sequence(n int) []digest.Digest {
	if n <= 0 {
		return []digest.Digest{}
	}
	out := make([]digest.Digest, n)
	for i := range out {
		for j := range out[i] {
			out[i][j] = uint64(i+1) * uint64(j+1) * SequenceGamma
		}
	}
	return out
}
