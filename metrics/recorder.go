package metrics

import "math"

// Recorder keeps the raw memory/CPU series of a run next to their running
// maxima. The spike series never decrease and spike[0] == raw[0].
type Recorder struct {
	MemoryUsage  []float64
	MemorySpikes []float64
	CPUUsage     []float64
	CPUSpikes    []float64
}

func (r *Recorder) Observe(memMB, cpuPercent float64) {
	r.MemoryUsage = append(r.MemoryUsage, memMB)
	r.MemorySpikes = appendSpike(r.MemorySpikes, memMB)
	r.CPUUsage = append(r.CPUUsage, cpuPercent)
	r.CPUSpikes = appendSpike(r.CPUSpikes, cpuPercent)
}

func (r *Recorder) Len() int {
	return len(r.MemoryUsage)
}

// PeakMemory is the max of the raw memory series, NaN when nothing was sampled.
func (r *Recorder) PeakMemory() float64 {
	return peak(r.MemoryUsage)
}

// PeakCPU is the max of the raw CPU series, NaN when nothing was sampled.
func (r *Recorder) PeakCPU() float64 {
	return peak(r.CPUUsage)
}

func appendSpike(spikes []float64, v float64) []float64 {
	if n := len(spikes); n > 0 && spikes[n-1] > v {
		return append(spikes, spikes[n-1])
	}
	return append(spikes, v)
}

func peak(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	m := series[0]
	for _, v := range series[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
