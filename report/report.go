package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bulk_bench/models"
)

// Write stores result as indented JSON at dir/file, creating dir if needed,
// and returns the written path.
func Write(dir, file string, result *models.RunResult) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}

	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return path, nil
}

// Read loads a result file written by Write. Null floats come back as 0.
func Read(path string) (*models.RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var result models.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &result, nil
}

func PrintSummary(w io.Writer, result *models.RunResult) {
	fmt.Fprintln(w, "\n✅ DONE")
	fmt.Fprintf(w, "Time: %.2fs\n", result.TotalTimeSec)
	fmt.Fprintf(w, "Rows/sec: %.0f\n", result.RowsPerSec)
	fmt.Fprintf(w, "Peak RAM: %.2f MB\n", result.PeakMemoryMB)
	fmt.Fprintf(w, "Peak CPU: %.2f%%\n", result.PeakCPU)
}
