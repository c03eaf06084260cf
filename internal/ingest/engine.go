package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/crucial707/hci-inventory/internal/metrics"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/crucial707/hci-inventory/internal/repo"
)

// Result counts what one ingestion batch changed.
type Result struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// Message is the summary shown to the uploader.
func (r Result) Message() string {
	return fmt.Sprintf("Success: Added %d, Updated %d items.", r.Added, r.Updated)
}

// Engine merges inventory sheets into the item table.
type Engine struct {
	DB *sql.DB
}

func NewEngine(db *sql.DB) *Engine {
	return &Engine{DB: db}
}

// IngestFile parses an uploaded spreadsheet and ingests it. See Ingest.
func (e *Engine) IngestFile(ctx context.Context, name string, r io.Reader, actor string) (Result, error) {
	table, err := ReadFile(name, r)
	if err != nil {
		metrics.IncIngestBatches("error")
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidSheet, err)
	}
	rows, err := ParseRows(table)
	if err != nil {
		metrics.IncIngestBatches("error")
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidSheet, err)
	}
	return e.Ingest(ctx, rows, actor)
}

// Ingest upserts rows by model in a single transaction: an existing item has
// every attribute replaced, an unknown model is inserted. One audit entry with
// the added/updated counts is written under actor, or SYSTEM when actor is
// empty. Any failure rolls back the whole batch.
func (e *Engine) Ingest(ctx context.Context, rows []Row, actor string) (Result, error) {
	if actor == "" {
		actor = models.ActorSystem
	}

	items := make([]models.InventoryItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.Item()
		if err != nil {
			metrics.IncIngestBatches("error")
			return Result{}, fmt.Errorf("%w: %w", ErrInvalidSheet, err)
		}
		items = append(items, item)
	}

	res, err := e.apply(ctx, items, actor)
	if err != nil {
		metrics.IncIngestBatches("error")
		slog.Error("inventory ingestion failed", "actor", actor, "rows", len(items), "error", err)
		return Result{}, err
	}

	metrics.IncIngestBatches("ok")
	metrics.AddIngestRows(res.Added, res.Updated)
	slog.Info("inventory ingested", "actor", actor, "added", res.Added, "updated", res.Updated)
	return res, nil
}

func (e *Engine) apply(ctx context.Context, items []models.InventoryItem, actor string) (Result, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	itemRepo := repo.NewItemRepo(tx)
	var res Result
	for _, item := range items {
		id, found, err := itemRepo.FindIDByModel(ctx, item.Model)
		if err != nil {
			return Result{}, fmt.Errorf("look up model %q: %w", item.Model, err)
		}
		if found {
			if err := itemRepo.Replace(ctx, id, item); err != nil {
				return Result{}, fmt.Errorf("update model %q: %w", item.Model, err)
			}
			res.Updated++
			continue
		}
		if _, err := itemRepo.Insert(ctx, item); err != nil {
			return Result{}, fmt.Errorf("insert model %q: %w", item.Model, err)
		}
		res.Added++
	}

	details := models.IngestDetails{Added: res.Added, Updated: res.Updated}
	if err := repo.NewAuditRepo(tx).Log(ctx, models.AuditInventoryUpload, actor, details); err != nil {
		return Result{}, fmt.Errorf("write audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("commit: %w", err)
	}
	return res, nil
}
