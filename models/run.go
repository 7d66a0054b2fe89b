package models

import (
	"encoding/json"
	"math"
	"time"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunResult is the summary of one benchmark execution. It is built once,
// after the final flush, and never mutated.
type RunResult struct {
	RunID        string    `json:"run_id,omitempty"`
	DB           string    `json:"db"`
	Mode         string    `json:"mode"`
	Variant      string    `json:"variant"`
	Language     string    `json:"language"`
	TotalRows    int       `json:"total_rows"`
	TotalTimeSec float64   `json:"total_time_sec"`
	RowsPerSec   float64   `json:"rows_per_sec"`
	PeakMemoryMB float64   `json:"peak_memory_mb"`
	PeakCPU      float64   `json:"peak_cpu_percent"`
	MemoryUsage  []float64 `json:"memory_usage"`
	MemorySpikes []float64 `json:"memory_spikes"`
	CPUUsage     []float64 `json:"cpu_usage"`
	CPUSpikes    []float64 `json:"cpu_spikes"`
	BatchSize    int       `json:"batch_size"`
	Batches      int       `json:"batches"`
	StartedAt    time.Time `json:"started_at"`
}

// MarshalJSON writes non-finite floats (the peaks of an empty run) as null,
// since encoding/json refuses NaN.
func (r RunResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		RunID        string     `json:"run_id,omitempty"`
		DB           string     `json:"db"`
		Mode         string     `json:"mode"`
		Variant      string     `json:"variant"`
		Language     string     `json:"language"`
		TotalRows    int        `json:"total_rows"`
		TotalTimeSec *float64   `json:"total_time_sec"`
		RowsPerSec   *float64   `json:"rows_per_sec"`
		PeakMemoryMB *float64   `json:"peak_memory_mb"`
		PeakCPU      *float64   `json:"peak_cpu_percent"`
		MemoryUsage  []*float64 `json:"memory_usage"`
		MemorySpikes []*float64 `json:"memory_spikes"`
		CPUUsage     []*float64 `json:"cpu_usage"`
		CPUSpikes    []*float64 `json:"cpu_spikes"`
		BatchSize    int        `json:"batch_size"`
		Batches      int        `json:"batches"`
		StartedAt    time.Time  `json:"started_at"`
	}{
		RunID:        r.RunID,
		DB:           r.DB,
		Mode:         r.Mode,
		Variant:      r.Variant,
		Language:     r.Language,
		TotalRows:    r.TotalRows,
		TotalTimeSec: NullableFloat(r.TotalTimeSec),
		RowsPerSec:   NullableFloat(r.RowsPerSec),
		PeakMemoryMB: NullableFloat(r.PeakMemoryMB),
		PeakCPU:      NullableFloat(r.PeakCPU),
		MemoryUsage:  finiteSlice(r.MemoryUsage),
		MemorySpikes: finiteSlice(r.MemorySpikes),
		CPUUsage:     finiteSlice(r.CPUUsage),
		CPUSpikes:    finiteSlice(r.CPUSpikes),
		BatchSize:    r.BatchSize,
		Batches:      r.Batches,
		StartedAt:    r.StartedAt,
	})
}

// NullableFloat returns nil for NaN and ±Inf.
func NullableFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func finiteSlice(vs []float64) []*float64 {
	out := make([]*float64, len(vs))
	for i, v := range vs {
		out[i] = NullableFloat(v)
	}
	return out
}

// BenchRun is one row of the run history table.
type BenchRun struct {
	ID           string     `json:"id" db:"id"`
	DB           string     `json:"db" db:"db"`
	Mode         string     `json:"mode" db:"mode"`
	Variant      string     `json:"variant" db:"variant"`
	Language     string     `json:"language" db:"language"`
	TableName    string     `json:"table_name" db:"table_name"`
	Status       RunStatus  `json:"status" db:"status"`
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	FinishedAt   *time.Time `json:"finished_at" db:"finished_at"`
	TotalRows    int        `json:"total_rows" db:"total_rows"`
	TotalTimeSec float64    `json:"total_time_sec" db:"total_time_sec"`
	RowsPerSec   float64    `json:"rows_per_sec" db:"rows_per_sec"`
	PeakMemoryMB *float64   `json:"peak_memory_mb" db:"peak_memory_mb"`
	PeakCPU      *float64   `json:"peak_cpu_percent" db:"peak_cpu_percent"`
	ResultPath   string     `json:"result_path" db:"result_path"`
	Error        string     `json:"error" db:"error"`
}
