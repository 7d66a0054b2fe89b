package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"bulk_bench/config"
	"bulk_bench/logging"
	"bulk_bench/metrics"
	"bulk_bench/models"
	"bulk_bench/pipeline"
	"bulk_bench/storage"
	"github.com/google/uuid"
)

var (
	showHistory = flag.Int("history", 0, "Print the last N recorded runs and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath, os.Stderr)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	if *showHistory > 0 {
		if err := printHistory(cfg, *showHistory); err != nil {
			log.Fatalf("Failed to read history: %v", err)
		}
		return
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Printf("Benchmark failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	runID := uuid.NewString()
	log.Printf("Run %s: %s -> %s table %s (%s), batch size %d",
		runID, cfg.CSVPath, cfg.Driver, cfg.TableName, maskConnectionString(cfg.ConnectionString), cfg.BatchSize)

	var history *storage.HistoryStore
	if cfg.HistoryPath != "" {
		h, err := storage.NewHistoryStore(cfg.HistoryPath)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer h.Close()
		history = h

		err = history.CreateRun(&models.BenchRun{
			ID:        runID,
			DB:        cfg.Labels.DB,
			Mode:      cfg.Labels.Mode,
			Variant:   cfg.Labels.Variant,
			Language:  cfg.Labels.Language,
			TableName: cfg.TableName,
			Status:    models.RunStatusRunning,
			StartedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	result, resultPath, err := benchmark(ctx, cfg, runID)
	if err != nil {
		if history != nil {
			if herr := history.FailRun(runID, err); herr != nil {
				log.Printf("Warning: could not record failed run: %v", herr)
			}
		}
		return err
	}

	if cfg.S3.Bucket != "" {
		if err := publish(ctx, cfg, runID, resultPath); err != nil {
			err = models.WrapStage(models.StageWriting, err)
			if history != nil {
				history.FailRun(runID, err)
			}
			return err
		}
	}

	if history != nil {
		if err := history.CompleteRun(runID, result, resultPath); err != nil {
			return models.WrapStage(models.StageWriting, fmt.Errorf("record result: %w", err))
		}
	}
	return nil
}

func benchmark(ctx context.Context, cfg *config.Config, runID string) (*models.RunResult, string, error) {
	sampler, err := metrics.NewProcessSampler()
	if err != nil {
		return nil, "", err
	}

	open := func(ctx context.Context) (storage.Sink, error) {
		return storage.Open(ctx, cfg.Driver, cfg.ConnectionString, cfg.TableName)
	}

	p := pipeline.New(cfg, open, sampler, os.Stdout)
	p.SetRunID(runID)

	result, err := p.Run(ctx)
	if err != nil {
		return nil, "", err
	}
	log.Printf("Wrote %s", p.ResultPath())
	return result, p.ResultPath(), nil
}

func publish(ctx context.Context, cfg *config.Config, runID, resultPath string) error {
	uploader, err := storage.NewS3Uploader(ctx, storage.S3Config{
		Bucket:          cfg.S3.Bucket,
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		Prefix:          cfg.S3.Prefix,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	})
	if err != nil {
		return err
	}

	f, err := os.Open(resultPath)
	if err != nil {
		return fmt.Errorf("open result: %w", err)
	}
	defer f.Close()

	key := uploader.ResultKey(runID, cfg.ResultFile)
	if err := uploader.Upload(ctx, key, f, "application/json"); err != nil {
		return err
	}
	log.Printf("Uploaded result to s3://%s/%s", cfg.S3.Bucket, key)
	return nil
}

func printHistory(cfg *config.Config, limit int) error {
	if cfg.HistoryPath == "" {
		return fmt.Errorf("BENCH_HISTORY_PATH is not set")
	}
	history, err := storage.NewHistoryStore(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer history.Close()

	runs, err := history.RecentRuns(limit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Println(formatRun(r))
	}
	return nil
}

func formatRun(r models.BenchRun) string {
	peak := "n/a"
	if r.PeakMemoryMB != nil {
		peak = fmt.Sprintf("%.2f MB", *r.PeakMemoryMB)
	}
	line := fmt.Sprintf("%s  %s  %-9s %s/%s/%s/%s  rows=%d  %.0f rows/s  peak=%s",
		r.StartedAt.Format(time.RFC3339), r.ID, r.Status, r.DB, r.Mode, r.Variant, r.Language,
		r.TotalRows, r.RowsPerSec, peak)
	if r.Error != "" {
		line += "  error=" + r.Error
	}
	return line
}

// maskConnectionString hides the password in URL-style and MySQL-style DSNs.
func maskConnectionString(connStr string) string {
	start := 0
	if i := strings.Index(connStr, "://"); i >= 0 {
		start = i + 3
	}

	atIdx := strings.LastIndex(connStr, "@")
	if atIdx < start {
		return connStr
	}
	colonIdx := strings.Index(connStr[start:atIdx], ":")
	if colonIdx < 0 {
		return connStr
	}
	colonIdx += start
	if colonIdx+1 == atIdx {
		return connStr
	}
	return connStr[:colonIdx+1] + "****" + connStr[atIdx:]
}
