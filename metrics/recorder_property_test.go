package metrics

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_SpikeSeries checks the spike invariants for arbitrary sample
// sequences: non-decreasing, never below the raw value, seeded by the first
// sample, and topped by the raw peak.
func TestProperty_SpikeSeries(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("spike series is a running maximum of the raw series", prop.ForAll(
		func(mem []float64, cpu []float64) bool {
			n := len(mem)
			if len(cpu) < n {
				n = len(cpu)
			}
			if n == 0 {
				return true
			}

			var r Recorder
			for i := 0; i < n; i++ {
				r.Observe(mem[i], cpu[i])
			}

			if r.MemorySpikes[0] != r.MemoryUsage[0] || r.CPUSpikes[0] != r.CPUUsage[0] {
				return false
			}
			for i := 0; i < n; i++ {
				if r.MemorySpikes[i] < r.MemoryUsage[i] || r.CPUSpikes[i] < r.CPUUsage[i] {
					return false
				}
				if i > 0 && (r.MemorySpikes[i] < r.MemorySpikes[i-1] || r.CPUSpikes[i] < r.CPUSpikes[i-1]) {
					return false
				}
			}
			return r.MemorySpikes[n-1] == r.PeakMemory() && r.CPUSpikes[n-1] == r.PeakCPU()
		},
		gen.SliceOf(gen.Float64Range(0, 4096)),
		gen.SliceOf(gen.Float64Range(0, 800)),
	))

	properties.TestingRun(t)
}
