// Package aggregator sums collections of digests with wide modular addition.
//
// Three interchangeable strategies produce bit-identical results:
//
//   - Sequential adds one digest at a time with a full-width ripple carry.
//   - Column walks limb positions in order, folding every digest's limb into
//     a running sum and counting overflows as the carry for the next limb.
//   - ParallelColumn splits limb positions into contiguous shards, folds each
//     shard concurrently with carry-in assumed zero, then repairs the carry
//     chain in a single forward pass.
//
// All results are taken modulo 2^(64*digest.Width); the carry out of the most
// significant limb is discarded.
package aggregator
