// Package sysmon provides system-wide CPU and memory usage sampling for the
// verbose run summary.
package sysmon

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage together with
// the process goroutine count at sampling time.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	Load1      float64 // 1-minute load average, 0 where unsupported
	Goroutines int
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	s := Stats{Goroutines: runtime.NumGoroutine()}
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	avg, err := load.Avg()
	if err == nil && avg != nil {
		s.Load1 = avg.Load1
	}
	return s
}

// String formats the snapshot for a single summary line.
func (s Stats) String() string {
	return fmt.Sprintf("cpu=%.1f%% mem=%.1f%% load1=%.2f goroutines=%d",
		s.CPUPercent, s.MemPercent, s.Load1, s.Goroutines)
}
