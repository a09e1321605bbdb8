package resource

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	// DefaultMaxMemoryPercent is the memory-used ceiling: at or above it the
	// monitor refuses to size beyond the minimum worker count.
	DefaultMaxMemoryPercent = 75.0

	// DefaultMinFreeMemoryMB is the memory floor kept in reserve for the OS
	// and everything that is not us.
	DefaultMinFreeMemoryMB = 512

	// DefaultCostPerWorkerMB is the estimated memory cost of one concurrent
	// page-render unit. Browser tabs run 150-300 MB; 200 is the midpoint.
	DefaultCostPerWorkerMB = 200

	// DefaultMaxWorkers caps concurrency regardless of host size; beyond
	// this, target sites tend to rate-limit or block.
	DefaultMaxWorkers = 10

	// DefaultMinWorkers is the degraded-mode concurrency.
	DefaultMinWorkers = 1

	// cpuSampleInterval is how long Snapshot blocks to measure CPU load.
	// Diagnostics only; OptimalWorkers never pays this cost.
	cpuSampleInterval = 100 * time.Millisecond
)

// memStats is the slice of memory telemetry the sizing decision consumes.
type memStats struct {
	usedPercent float64
	availableMB uint64
}

// Monitor derives a safe concurrent worker count from host memory and CPU.
// The zero value is not usable; construct with NewMonitor. Monitor holds no
// mutable state and is safe to query repeatedly from the orchestrating flow.
type Monitor struct {
	maxMemoryPercent float64
	minFreeMemoryMB  uint64
	costPerWorkerMB  uint64
	maxWorkers       int
	minWorkers       int

	// Sampler seams, replaced in tests to simulate host pressure.
	sampleMem  func() (memStats, error)
	sampleCPUs func() (int, error)
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithMaxMemoryPercent sets the memory-used ceiling (default 75.0).
func WithMaxMemoryPercent(pct float64) MonitorOption {
	return func(m *Monitor) {
		if pct > 0 {
			m.maxMemoryPercent = pct
		}
	}
}

// WithMinFreeMemoryMB sets the reserved memory floor in MB (default 512).
func WithMinFreeMemoryMB(mb uint64) MonitorOption {
	return func(m *Monitor) {
		m.minFreeMemoryMB = mb
	}
}

// WithCostPerWorkerMB sets the estimated per-worker memory cost (default 200).
func WithCostPerWorkerMB(mb uint64) MonitorOption {
	return func(m *Monitor) {
		if mb > 0 {
			m.costPerWorkerMB = mb
		}
	}
}

// WithMaxWorkers sets the absolute worker ceiling (default 10).
func WithMaxWorkers(n int) MonitorOption {
	return func(m *Monitor) {
		if n > 0 {
			m.maxWorkers = n
		}
	}
}

// WithMinWorkers sets the degraded-mode worker count (default 1).
func WithMinWorkers(n int) MonitorOption {
	return func(m *Monitor) {
		if n > 0 {
			m.minWorkers = n
		}
	}
}

// NewMonitor creates a Monitor with the given options applied over defaults.
// If the options leave maxWorkers below minWorkers, maxWorkers is raised so
// OptimalWorkers can always honor its [min, max] bound.
func NewMonitor(opts ...MonitorOption) *Monitor {
	m := &Monitor{
		maxMemoryPercent: DefaultMaxMemoryPercent,
		minFreeMemoryMB:  DefaultMinFreeMemoryMB,
		costPerWorkerMB:  DefaultCostPerWorkerMB,
		maxWorkers:       DefaultMaxWorkers,
		minWorkers:       DefaultMinWorkers,
		sampleMem:        sampleVirtualMemory,
		sampleCPUs:       sampleLogicalCPUs,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.maxWorkers < m.minWorkers {
		m.maxWorkers = m.minWorkers
	}
	return m
}

// OptimalWorkers returns a safe concurrent worker count, always within
// [MinWorkers, MaxWorkers]:
//
//   - memory used at or above the ceiling → MinWorkers
//   - available memory under the floor → MinWorkers
//   - otherwise min(memoryBudget, cpuCount*2, MaxWorkers), at least
//     MinWorkers, where memoryBudget spends everything above the floor at
//     the per-worker cost and cpuCount*2 reflects I/O-bound work
//
// Sampling failure degrades to MinWorkers rather than failing the run.
func (m *Monitor) OptimalWorkers() int {
	stats, err := m.sampleMem()
	if err != nil {
		return m.minWorkers
	}

	if stats.usedPercent >= m.maxMemoryPercent {
		return m.minWorkers
	}
	if stats.availableMB < m.minFreeMemoryMB {
		return m.minWorkers
	}

	usableMB := stats.availableMB - m.minFreeMemoryMB
	workers := int(usableMB / m.costPerWorkerMB)

	cpus, err := m.sampleCPUs()
	if err != nil || cpus <= 0 {
		cpus = 2
	}
	if cpuBudget := cpus * 2; cpuBudget < workers {
		workers = cpuBudget
	}

	if workers > m.maxWorkers {
		workers = m.maxWorkers
	}
	if workers < m.minWorkers {
		workers = m.minWorkers
	}
	return workers
}

// MinWorkers returns the configured minimum worker count.
func (m *Monitor) MinWorkers() int { return m.minWorkers }

// MaxWorkers returns the configured maximum worker count.
func (m *Monitor) MaxWorkers() int { return m.maxWorkers }

// Snapshot is a point-in-time view of host pressure, for diagnostics.
type Snapshot struct {
	// CPUPercent is total CPU utilization over a short sampling window.
	CPUPercent float64
	// MemoryPercent is the used-memory percentage.
	MemoryPercent float64
	// AvailableMB is memory available for new work, in MB.
	AvailableMB uint64
	// OptimalWorkers is the worker count the monitor would pick right now.
	OptimalWorkers int
}

// Snapshot samples current host pressure. Failed samples leave their fields
// zero; the snapshot is for logging, never for control flow.
func (m *Monitor) Snapshot() Snapshot {
	snap := Snapshot{OptimalWorkers: m.OptimalWorkers()}

	if stats, err := m.sampleMem(); err == nil {
		snap.MemoryPercent = stats.usedPercent
		snap.AvailableMB = stats.availableMB
	}
	if pcts, err := cpu.Percent(cpuSampleInterval, false); err == nil && len(pcts) > 0 {
		snap.CPUPercent = pcts[0]
	}
	return snap
}

// sampleVirtualMemory reads host memory telemetry via gopsutil.
func sampleVirtualMemory() (memStats, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return memStats{}, err
	}
	return memStats{
		usedPercent: vm.UsedPercent,
		availableMB: vm.Available / (1024 * 1024),
	}, nil
}

// sampleLogicalCPUs reads the logical CPU count via gopsutil, falling back
// to the Go runtime when the platform probe fails.
func sampleLogicalCPUs() (int, error) {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.NumCPU(), nil
	}
	return n, nil
}
