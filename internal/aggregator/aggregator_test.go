package aggregator

import (
	"math"
	"math/bits"
	"testing"

	"github.com/agbru/digestagg/internal/digest"
	"github.com/agbru/digestagg/internal/generator"
)

// allStrategies returns one instance of every strategy, the parallel one
// with the reference worker count.
func allStrategies(t *testing.T) []Strategy {
	t.Helper()
	parallel, err := NewParallelColumn(DefaultWorkers)
	if err != nil {
		t.Fatalf("NewParallelColumn(%d): %v", DefaultWorkers, err)
	}
	return []Strategy{Sequential{}, Column{}, parallel}
}

// limbs builds a digest from (index, value) pairs.
func limbs(pairs ...uint64) digest.Digest {
	var d digest.Digest
	for i := 0; i+1 < len(pairs); i += 2 {
		d[pairs[i]] = pairs[i+1]
	}
	return d
}

func TestAggregate_KnownValues(t *testing.T) {
	t.Parallel()
	per := digest.Width / DefaultWorkers

	var allOnes digest.Digest
	for i := range allOnes {
		allOnes[i] = math.MaxUint64
	}

	tests := []struct {
		name    string
		digests []digest.Digest
		want    digest.Digest
	}{
		{
			name:    "empty input is the zero digest",
			digests: nil,
			want:    digest.Zero(),
		},
		{
			name:    "single digest is returned unchanged",
			digests: []digest.Digest{limbs(0, 11, 30, 22, 62, 33)},
			want:    limbs(0, 11, 30, 22, 62, 33),
		},
		{
			name:    "three copies of limb0=2",
			digests: generator.Repeat(limbs(0, 2), 3),
			want:    limbs(0, 6),
		},
		{
			name:    "five copies of limb0=2^63 carries two into limb 1",
			digests: generator.Repeat(limbs(0, 1<<63), 5),
			want:    limbs(0, 1<<63, 1, 2),
		},
		{
			name:    "single-limb overflow propagates",
			digests: []digest.Digest{limbs(0, math.MaxUint64), limbs(0, 1)},
			want:    limbs(1, 1),
		},
		{
			name:    "overflow at the end of the first shard",
			digests: []digest.Digest{limbs(uint64(per-1), math.MaxUint64), limbs(uint64(per-1), 1)},
			want:    limbs(uint64(per), 1),
		},
		{
			name:    "overflow at the end of the second shard",
			digests: []digest.Digest{limbs(uint64(2*per-1), math.MaxUint64), limbs(uint64(2*per-1), 3)},
			want:    limbs(uint64(2*per-1), 2, uint64(2*per), 1),
		},
		{
			name: "carry chain crossing a shard boundary",
			digests: []digest.Digest{
				limbs(uint64(per-1), math.MaxUint64, uint64(per), math.MaxUint64),
				limbs(uint64(per-1), 1),
			},
			want: limbs(uint64(per+1), 1),
		},
		{
			name:    "most significant overflow is discarded",
			digests: []digest.Digest{limbs(digest.Width-1, math.MaxUint64), limbs(digest.Width-1, 5)},
			want:    limbs(digest.Width-1, 4),
		},
		{
			name:    "full-width wraparound",
			digests: []digest.Digest{allOnes, limbs(0, 1)},
			want:    digest.Zero(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for _, s := range allStrategies(t) {
				got, err := s.Aggregate(tt.digests)
				if err != nil {
					t.Fatalf("%s: unexpected error: %v", s.Name(), err)
				}
				if got != tt.want {
					t.Errorf("%s: got %s, want %s", s.Name(), got, tt.want)
				}
			}
		})
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	digests := generator.New(3).Random(20)
	snapshot := append([]digest.Digest(nil), digests...)

	for _, s := range allStrategies(t) {
		if _, err := s.Aggregate(digests); err != nil {
			t.Fatalf("%s: %v", s.Name(), err)
		}
		for i := range digests {
			if digests[i] != snapshot[i] {
				t.Fatalf("%s mutated input digest %d", s.Name(), i)
			}
		}
	}
}

func TestAggregate_MatchesOracle(t *testing.T) {
	t.Parallel()
	for _, n := range []int{1, 2, 10, 257, generator.DefaultCount} {
		digests, expected := generator.New(uint64(n)).DataPoint(n)
		for _, s := range allStrategies(t) {
			got, err := s.Aggregate(digests)
			if err != nil {
				t.Fatalf("%s n=%d: %v", s.Name(), n, err)
			}
			if got != expected {
				t.Errorf("%s n=%d: result does not match math/big oracle", s.Name(), n)
			}
		}
	}
}

func TestAggregate_ScalarMultiple(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n uint64
		v uint64
	}{
		{3, 2},
		{1, math.MaxUint64},
		{2, math.MaxUint64},
		{1000, math.MaxUint64 - 12345},
		{4096, 1 << 62},
	}
	for _, tt := range tests {
		d := limbs(0, tt.v)
		digests := generator.Repeat(d, int(tt.n))

		// hi:lo = n*v exactly.
		var want digest.Digest
		want[1], want[0] = bits.Mul64(tt.n, tt.v)

		for _, s := range allStrategies(t) {
			got, err := s.Aggregate(digests)
			if err != nil {
				t.Fatalf("%s: %v", s.Name(), err)
			}
			if got != want {
				t.Errorf("%s: %d x %d: got limb0=%d limb1=%d, want limb0=%d limb1=%d",
					s.Name(), tt.n, tt.v, got[0], got[1], want[0], want[1])
			}
		}
	}
}

func TestSequentialAddInto(t *testing.T) {
	t.Parallel()
	acc := limbs(0, math.MaxUint64, 1, math.MaxUint64)
	one := limbs(0, 1)
	addInto(&acc, &one)
	if acc != limbs(2, 1) {
		t.Errorf("ripple carry failed: got %s", acc)
	}
}

func TestStrategyNames(t *testing.T) {
	t.Parallel()
	want := []string{"sequential", "column", "parallel"}
	for i, s := range allStrategies(t) {
		if s.Name() != want[i] {
			t.Errorf("strategy %d: got name %q, want %q", i, s.Name(), want[i])
		}
	}
}
