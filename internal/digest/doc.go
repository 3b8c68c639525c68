// Package digest defines the fixed-width value type aggregated by the
// aggregator package: a 4032-bit unsigned integer stored as 63 little-endian
// 64-bit limbs.
package digest
