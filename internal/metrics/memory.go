// Package metrics records what an aggregation run cost: Prometheus counters
// and histograms per strategy, and Go runtime memory statistics.
package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	TotalAlloc   uint64 // cumulative bytes allocated
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
}

// MemoryDelta is what happened between two snapshots.
type MemoryDelta struct {
	Allocated    uint64 // bytes allocated in between
	PeakHeap     uint64 // larger of the two heap readings
	GCCycles     uint32
	PauseTotalNs uint64
}

// Delta compares two snapshots taken in order.
func Delta(before, after MemorySnapshot) MemoryDelta {
	return MemoryDelta{
		Allocated:    after.TotalAlloc - before.TotalAlloc,
		PeakHeap:     max(before.HeapAlloc, after.HeapAlloc),
		GCCycles:     after.NumGC - before.NumGC,
		PauseTotalNs: after.PauseTotalNs - before.PauseTotalNs,
	}
}
