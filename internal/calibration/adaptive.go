// This file derives the worker counts to measure from the hardware.

package calibration

import (
	"runtime"

	"github.com/agbru/digestagg/internal/digest"
)

// ─────────────────────────────────────────────────────────────────────────────
// Adaptive Worker Candidates
// ─────────────────────────────────────────────────────────────────────────────

// GenerateWorkerCandidates returns the worker counts to measure on this
// machine, in ascending order.
//
// The rationale:
// - Single-core: only one worker, sharding has no benefit
// - 2-4 cores: every count up to the core count
// - 8+ cores: sparser steps up to the core count
// - 16+ cores: include the one-limb-per-worker extreme
func GenerateWorkerCandidates() []int {
	return workerCandidates(runtime.NumCPU())
}

func workerCandidates(numCPU int) []int {
	var candidates []int
	switch {
	case numCPU <= 1:
		candidates = []int{1}
	case numCPU <= 4:
		candidates = []int{1, 2, 3, 4}
	case numCPU <= 8:
		candidates = []int{1, 2, 3, 4, 6, 8}
	case numCPU <= 16:
		candidates = []int{1, 2, 3, 4, 8, 12, 16}
	default:
		candidates = []int{1, 2, 3, 4, 8, 16, 21, 32, digest.Width}
	}
	return candidates
}

// GenerateQuickWorkerCandidates returns a smaller set for a fast run.
func GenerateQuickWorkerCandidates() []int {
	return quickWorkerCandidates(runtime.NumCPU())
}

func quickWorkerCandidates(numCPU int) []int {
	if numCPU <= 1 {
		return []int{1}
	}
	quick := []int{1, 3}
	if n := min(numCPU, digest.Width); n > 3 {
		quick = append(quick, n)
	}
	return quick
}
