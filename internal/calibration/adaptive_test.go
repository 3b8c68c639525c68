package calibration

import (
	"slices"
	"testing"

	"github.com/agbru/digestagg/internal/digest"
)

func TestWorkerCandidates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		numCPU int
		want   []int
	}{
		{0, []int{1}},
		{1, []int{1}},
		{2, []int{1, 2, 3, 4}},
		{4, []int{1, 2, 3, 4}},
		{8, []int{1, 2, 3, 4, 6, 8}},
		{16, []int{1, 2, 3, 4, 8, 12, 16}},
		{128, []int{1, 2, 3, 4, 8, 16, 21, 32, digest.Width}},
	}
	for _, tt := range tests {
		got := workerCandidates(tt.numCPU)
		if !slices.Equal(got, tt.want) {
			t.Errorf("workerCandidates(%d) = %v, want %v", tt.numCPU, got, tt.want)
		}
	}
}

func TestGenerateWorkerCandidates(t *testing.T) {
	t.Parallel()
	candidates := GenerateWorkerCandidates()
	if len(candidates) == 0 || candidates[0] != 1 {
		t.Fatalf("expected candidates to start at 1, got %v", candidates)
	}
	if !slices.IsSorted(candidates) {
		t.Errorf("candidates must be ascending: %v", candidates)
	}
	for _, w := range candidates {
		if w < 1 || w > digest.Width {
			t.Errorf("candidate %d out of range [1, %d]", w, digest.Width)
		}
	}
}

func TestQuickWorkerCandidates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		numCPU int
		want   []int
	}{
		{1, []int{1}},
		{2, []int{1, 3}},
		{3, []int{1, 3}},
		{8, []int{1, 3, 8}},
		{256, []int{1, 3, digest.Width}},
	}
	for _, tt := range tests {
		if got := quickWorkerCandidates(tt.numCPU); !slices.Equal(got, tt.want) {
			t.Errorf("quickWorkerCandidates(%d) = %v, want %v", tt.numCPU, got, tt.want)
		}
	}
	if len(GenerateQuickWorkerCandidates()) == 0 {
		t.Error("quick candidates must not be empty")
	}
}
