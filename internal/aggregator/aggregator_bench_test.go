package aggregator

import (
	"fmt"
	"testing"

	"github.com/agbru/digestagg/internal/generator"
)

func BenchmarkSum(b *testing.B) {
	digests := generator.New(1).Random(generator.DefaultCount)
	b.ReportAllocs()
	for b.Loop() {
		_ = Sum(digests)
	}
}

func BenchmarkSumByColumns(b *testing.B) {
	digests := generator.New(1).Random(generator.DefaultCount)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := SumByColumns(digests); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParallelSumByColumns(b *testing.B) {
	digests := generator.New(1).Random(generator.DefaultCount)
	for _, workers := range []int{1, DefaultWorkers, 8} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := ParallelSumByColumns(digests, workers); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
