// Package sysmon reports the host facts shown next to aggregation results:
// system-wide CPU and memory usage, and the CPU features relevant to
// multi-word addition.
package sysmon

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	MemTotal   uint64  // bytes
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.MemTotal = vmem.Total
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("CPU %.1f%%, memory %.1f%%", s.CPUPercent, s.MemPercent)
}

// feature pairs a CPU feature name with its detection flag.
type feature struct {
	name    string
	present bool
}

// CPUFeatures lists the detected instruction set extensions that speed up
// carry propagation and wide loads. The result is empty on CPUs without any
// of them.
func CPUFeatures() []string {
	return presentFeatures([]feature{
		{"adx", xcpu.X86.HasADX},
		{"bmi2", xcpu.X86.HasBMI2},
		{"avx2", xcpu.X86.HasAVX2},
		{"avx512f", xcpu.X86.HasAVX512F},
		{"asimd", xcpu.ARM64.HasASIMD},
		{"atomics", xcpu.ARM64.HasATOMICS},
	})
}

func presentFeatures(all []feature) []string {
	var names []string
	for _, f := range all {
		if f.present {
			names = append(names, f.name)
		}
	}
	return names
}

// CPUFeatureString joins CPUFeatures with spaces, or returns "none".
func CPUFeatureString() string {
	features := CPUFeatures()
	if len(features) == 0 {
		return "none"
	}
	return strings.Join(features, " ")
}
