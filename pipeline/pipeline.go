package pipeline

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"bulk_bench/config"
	"bulk_bench/metrics"
	"bulk_bench/models"
	"bulk_bench/report"
	"bulk_bench/source"
	"bulk_bench/storage"
)

type State string

const (
	StateInit       State = "init"
	StateConnecting State = "connecting"
	StateTruncating State = "truncating"
	StateStreaming  State = "streaming"
	StateFlushing   State = "flushing"
	StateFinalFlush State = "final-flush"
	StateReporting  State = "reporting"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// SinkOpener connects to the target database.
type SinkOpener func(ctx context.Context) (storage.Sink, error)

// Pipeline runs one benchmark: CSV rows are batched, inserted, and the
// process is sampled after each batch. Everything happens on the calling
// goroutine; a Pipeline is not safe for concurrent Runs.
type Pipeline struct {
	cfg     *config.Config
	open    SinkOpener
	sampler metrics.ResourceSampler
	out     io.Writer

	runID      string
	state      State
	resultPath string

	recorder metrics.Recorder
	total    int
	batches  int
}

func New(cfg *config.Config, open SinkOpener, sampler metrics.ResourceSampler, out io.Writer) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		open:    open,
		sampler: sampler,
		out:     out,
		state:   StateInit,
	}
}

func (p *Pipeline) SetRunID(id string) {
	p.runID = id
}

func (p *Pipeline) State() State {
	return p.state
}

// ResultPath is the file written by the last successful Run.
func (p *Pipeline) ResultPath() string {
	return p.resultPath
}

// Run executes the benchmark once. Any error is fatal and carries the
// models.Stage it came from.
func (p *Pipeline) Run(ctx context.Context) (*models.RunResult, error) {
	p.recorder = metrics.Recorder{}
	p.total, p.batches, p.resultPath = 0, 0, ""
	p.state = StateInit

	src, err := source.Open(p.cfg.CSVPath)
	if err != nil {
		return nil, p.fail(models.StageReading, err)
	}
	defer src.Close()

	p.setState(StateConnecting)
	sink, err := p.open(ctx)
	if err != nil {
		return nil, p.fail(models.StageConnecting, err)
	}
	defer sink.Close()

	p.setState(StateTruncating)
	if err := sink.Truncate(ctx); err != nil {
		return nil, p.fail(models.StageTruncating, err)
	}

	p.setState(StateStreaming)
	batcher := NewBatcher(p.cfg.BatchSize)
	progress := metrics.NewProgress(p.out, p.cfg.ProgressEvery)
	startedAt := time.Now()

	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, p.fail(models.StageReading, err)
		}

		if batcher.Add(rec) {
			if err := p.flush(ctx, sink, batcher, progress); err != nil {
				return nil, err
			}
		}
	}

	p.setState(StateFinalFlush)
	if batcher.Len() > 0 {
		if err := p.flush(ctx, sink, batcher, progress); err != nil {
			return nil, err
		}
	}

	elapsed := time.Since(startedAt).Seconds()

	p.setState(StateReporting)
	result := p.buildResult(sink.Label(), startedAt, elapsed)

	path, err := report.Write(p.cfg.ResultsDir, p.cfg.ResultFile, result)
	if err != nil {
		return nil, p.fail(models.StageWriting, err)
	}
	p.resultPath = path
	report.PrintSummary(p.out, result)

	p.setState(StateDone)
	return result, nil
}

func (p *Pipeline) flush(ctx context.Context, sink storage.Sink, b *Batcher, progress *metrics.Progress) error {
	prev := p.state
	p.state = StateFlushing

	if err := sink.InsertBatch(ctx, b.Records()); err != nil {
		return p.fail(models.StageInserting, err)
	}
	p.total += b.Len()
	p.batches++
	b.Reset()

	mem, cpu, err := p.sampler.Sample()
	if err != nil {
		log.Printf("Warning: resource sample after batch %d failed: %v", p.batches, err)
		mem, cpu = 0, 0
	}
	p.recorder.Observe(mem, cpu)
	progress.Update(p.total)

	p.state = prev
	return nil
}

func (p *Pipeline) buildResult(sinkLabel string, startedAt time.Time, elapsed float64) *models.RunResult {
	rowsPerSec := 0.0
	if p.total > 0 && elapsed > 0 {
		rowsPerSec = float64(p.total) / elapsed
	}

	dbLabel := p.cfg.Labels.DB
	if dbLabel == "" {
		dbLabel = sinkLabel
	}

	return &models.RunResult{
		RunID:        p.runID,
		DB:           dbLabel,
		Mode:         p.cfg.Labels.Mode,
		Variant:      p.cfg.Labels.Variant,
		Language:     p.cfg.Labels.Language,
		TotalRows:    p.total,
		TotalTimeSec: elapsed,
		RowsPerSec:   rowsPerSec,
		PeakMemoryMB: p.recorder.PeakMemory(),
		PeakCPU:      p.recorder.PeakCPU(),
		MemoryUsage:  p.recorder.MemoryUsage,
		MemorySpikes: p.recorder.MemorySpikes,
		CPUUsage:     p.recorder.CPUUsage,
		CPUSpikes:    p.recorder.CPUSpikes,
		BatchSize:    p.cfg.BatchSize,
		Batches:      p.batches,
		StartedAt:    startedAt,
	}
}

func (p *Pipeline) setState(s State) {
	p.state = s
	log.Printf("Pipeline state: %s", s)
}

func (p *Pipeline) fail(stage models.Stage, err error) error {
	log.Printf("Pipeline failed while %s (state %s): %v", stage, p.state, err)
	p.state = StateFailed
	return models.WrapStage(stage, err)
}
