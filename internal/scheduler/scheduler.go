// Package scheduler re-ingests the configured inventory spreadsheet on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/crucial707/hci-inventory/internal/ingest"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/robfig/cron/v3"
)

// Ingester is the part of ingest.Engine the job needs.
type Ingester interface {
	IngestFile(ctx context.Context, name string, r io.Reader, actor string) (ingest.Result, error)
}

// FileJob ingests one spreadsheet path as SYSTEM. A run is skipped when the
// file has not changed since the last successful run.
type FileJob struct {
	Path     string
	Ingester Ingester

	mu      sync.Mutex
	lastMod time.Time
}

// Run ingests the file. ran is false when the run was skipped.
func (j *FileJob) Run(ctx context.Context) (res ingest.Result, ran bool, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	info, err := os.Stat(j.Path)
	if err != nil {
		return ingest.Result{}, false, err
	}
	if !j.lastMod.IsZero() && !info.ModTime().After(j.lastMod) {
		return ingest.Result{}, false, nil
	}

	f, err := os.Open(j.Path)
	if err != nil {
		return ingest.Result{}, false, err
	}
	defer f.Close()

	res, err = j.Ingester.IngestFile(ctx, filepath.Base(j.Path), f, models.ActorSystem)
	if err != nil {
		return ingest.Result{}, true, err
	}
	j.lastMod = info.ModTime()
	return res, true, nil
}

// Start schedules job at the standard five-field cron expression expr and
// stops the scheduler when ctx is cancelled.
func Start(ctx context.Context, expr string, job *FileJob) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		res, ran, err := job.Run(ctx)
		switch {
		case err != nil:
			slog.Error("scheduler: ingestion failed", "path", job.Path, "error", err)
		case !ran:
			slog.Debug("scheduler: file unchanged, skipping", "path", job.Path)
		default:
			slog.Info("scheduler: ingested", "path", job.Path, "added", res.Added, "updated", res.Updated)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scheduler: invalid cron expression %q: %w", expr, err)
	}
	c.Start()
	slog.Info("scheduler: started", "path", job.Path, "cron", expr)

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return c, nil
}
