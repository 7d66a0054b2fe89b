package metrics

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

// ResourceSampler reports the resident memory (MB) and CPU utilisation
// (percent) of the process being benchmarked.
type ResourceSampler interface {
	Sample() (memMB float64, cpuPercent float64, err error)
}

// ProcessSampler samples the current process via gopsutil.
type ProcessSampler struct {
	proc *process.Process
}

func NewProcessSampler() (*ProcessSampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("attach to process: %w", err)
	}
	// the first Percent(0) call only records a baseline
	if _, err := proc.Percent(0); err != nil {
		return nil, fmt.Errorf("prime cpu counter: %w", err)
	}
	return &ProcessSampler{proc: proc}, nil
}

// Sample returns RSS in MiB and CPU percent used since the previous call.
func (s *ProcessSampler) Sample() (float64, float64, error) {
	mem, err := s.proc.MemoryInfo()
	if err != nil {
		return 0, 0, fmt.Errorf("memory info: %w", err)
	}
	cpu, err := s.proc.Percent(0)
	if err != nil {
		return 0, 0, fmt.Errorf("cpu percent: %w", err)
	}
	return float64(mem.RSS) / 1024 / 1024, cpu, nil
}
