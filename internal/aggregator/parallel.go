package aggregator

import (
	"fmt"
	"math/bits"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/digestagg/internal/digest"
	apperrors "github.com/agbru/digestagg/internal/errors"
)

// DefaultWorkers is the number of shards used when no worker count is
// configured.
const DefaultWorkers = 3

// Shard is the half-open range of limb indices [Start, End) owned by one
// worker.
type Shard struct {
	Start int
	End   int
}

// Len returns the number of limbs in the shard.
func (s Shard) Len() int { return s.End - s.Start }

// Partition splits [0, width) into workers contiguous shards of width/workers
// limbs each. The last shard absorbs the remainder, so when workers exceeds
// width every shard but the last is empty.
func Partition(width, workers int) ([]Shard, error) {
	if workers < 1 {
		return nil, apperrors.ValidationError{
			Field:   "workers",
			Message: fmt.Sprintf("must be at least 1, got %d", workers),
		}
	}
	if width < 0 {
		return nil, apperrors.ValidationError{
			Field:   "width",
			Message: fmt.Sprintf("must be non-negative, got %d", width),
		}
	}
	per := width / workers
	shards := make([]Shard, workers)
	for k := range shards {
		start := k * per
		end := start + per
		if k == workers-1 {
			end = width
		}
		shards[k] = Shard{Start: start, End: end}
	}
	return shards, nil
}

// ParallelSumByColumns returns the same value as SumByColumns, computed by
// workers goroutines.
//
// Each worker folds its shard with a carry-in of zero for every limb, which
// yields a local sum and overflow count per limb. Once all workers have
// joined, a forward pass adds each limb's corrected carry into the next
// limb's local sum. Adding the carry after the fold instead of before it
// gives the same value; the late addition may wrap once more, in which case
// that limb's carry grows by one. The carry is a count of overflows and stays
// far below 2^64, so it cannot wrap a limb twice.
//
// A worker that panics is reported as a WorkerError. Any failure discards all
// partial results.
func ParallelSumByColumns(digests []digest.Digest, workers int) (digest.Digest, error) {
	shards, err := Partition(digest.Width, workers)
	if err != nil {
		return digest.Digest{}, err
	}

	var sums, carries [digest.Width]uint64
	var g errgroup.Group
	for k, sh := range shards {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = apperrors.WorkerError{Shard: k, Cause: fmt.Errorf("panic: %v", r)}
				}
			}()
			return foldShard(digests, sh, sums[:], carries[:])
		})
	}
	if err := g.Wait(); err != nil {
		return digest.Digest{}, err
	}

	var res digest.Digest
	if err := correctCarries(sums[:], carries[:], res[:]); err != nil {
		return digest.Digest{}, err
	}
	return res, nil
}

// foldShard folds every limb of sh with a zero carry-in. Workers write only
// to their own index range of sums and carries.
//
// It is a variable so tests can inject a failing worker.
var foldShard = func(digests []digest.Digest, sh Shard, sums, carries []uint64) error {
	for i := sh.Start; i < sh.End; i++ {
		s, c, err := foldColumn(digests, i, 0)
		if err != nil {
			return err
		}
		sums[i], carries[i] = s, c
	}
	return nil
}

// correctCarries ripples the true carry chain through locally folded limbs,
// strictly in increasing index order, writing the final limbs to out. The
// carry produced by the last limb is discarded.
func correctCarries(sums, carries, out []uint64) error {
	if len(sums) == 0 {
		return nil
	}
	out[0] = sums[0]
	carry := carries[0]
	for i := 1; i < len(sums); i++ {
		sum, c := bits.Add64(sums[i], carry, 0)
		next := carries[i]
		if c != 0 {
			var err error
			if next, err = bumpCarry(next, i, phaseCorrection); err != nil {
				return err
			}
		}
		out[i] = sum
		carry = next
	}
	return nil
}

// ParallelColumn is the Strategy wrapper around ParallelSumByColumns.
type ParallelColumn struct {
	workers int
}

// NewParallelColumn returns a ParallelColumn strategy using the given number
// of workers. Any count of at least one is accepted, including counts larger
// than digest.Width.
func NewParallelColumn(workers int) (*ParallelColumn, error) {
	if _, err := Partition(digest.Width, workers); err != nil {
		return nil, err
	}
	return &ParallelColumn{workers: workers}, nil
}

// Workers returns the configured worker count.
func (p *ParallelColumn) Workers() int { return p.workers }

// Name returns the registry key of the strategy.
func (*ParallelColumn) Name() string { return "parallel" }

// Aggregate implements Strategy.
func (p *ParallelColumn) Aggregate(digests []digest.Digest) (digest.Digest, error) {
	return ParallelSumByColumns(digests, p.workers)
}
