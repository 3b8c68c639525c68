package config

import (
	"runtime"

	"github.com/agbru/digestagg/internal/digest"
)

// Worker count resolution chain (highest priority first):
//   1. CLI flag (-workers)
//   2. Environment variable (DIGESTAGG_WORKERS)
//   3. Configuration file (workers = N)
//   4. Hardware estimation (this file), when the resolved value is 0
//   5. aggregator.DefaultWorkers

// EstimateWorkers picks a parallel worker count from the CPU count. More
// workers than limbs only adds empty shards, so the estimate never exceeds
// digest.Width.
func EstimateWorkers() int {
	return estimateWorkers(runtime.NumCPU())
}

func estimateWorkers(numCPU int) int {
	return min(max(numCPU, 1), digest.Width)
}
