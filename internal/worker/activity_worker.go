package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/attenda/attenda-backend/internal/config"
	"github.com/attenda/attenda-backend/internal/metrics"
	"github.com/attenda/attenda-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	BatchSize    = 50
	BatchTimeout = 2 * time.Second
	PollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

var activityColumns = []string{"user_id", "action", "details", "created_at"}

// rowWriter is the part of *pgxpool.Pool the worker writes through.
type rowWriter interface {
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ActivityWorker drains the activity queue into activity_logs in batches.
type ActivityWorker struct {
	db  rowWriter
	rdb *redis.Client
	log zerolog.Logger
}

func NewActivityWorker(db rowWriter, rdb *redis.Client, log zerolog.Logger) *ActivityWorker {
	return &ActivityWorker{
		db:  db,
		rdb: rdb,
		log: log.With().Str("component", "activity_worker").Logger(),
	}
}

// Start blocks until ctx is cancelled, then flushes what it still holds.
func (w *ActivityWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ActivityWorker started")

	buffer := make([]model.ActivityEntry, 0, BatchSize)
	lastFlushTime := time.Now()

	for {
		if len(buffer) > 0 && (len(buffer) >= BatchSize || time.Since(lastFlushTime) >= BatchTimeout) {
			w.flushSafe(ctx, buffer)
			buffer = buffer[:0]
			lastFlushTime = time.Now()
		}

		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		// BLPop returns immediately if data exists, otherwise after PollTimeout.
		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.PersistActivityQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				continue // the select above handles shutdown
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			sleepCtx(ctx, 3*time.Second)
			continue
		}
		if len(result) < 2 {
			continue
		}

		var entry model.ActivityEntry
		if err := json.Unmarshal([]byte(result[1]), &entry); err != nil {
			// Malformed payloads can never succeed.
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed activity entry")
			continue
		}
		buffer = append(buffer, entry)
	}
}

// flushSafe persists batch: bulk COPY first, row by row on failure,
// and rows that still fail go back on the queue.
func (w *ActivityWorker) flushSafe(ctx context.Context, batch []model.ActivityEntry) {
	failed := w.flush(ctx, batch)
	if len(failed) > 0 {
		w.requeue(ctx, failed)
	}
}

// flush returns the entries that could not be written.
func (w *ActivityWorker) flush(ctx context.Context, batch []model.ActivityEntry) []model.ActivityEntry {
	err := w.bulkInsert(ctx, batch)
	if err == nil {
		metrics.ActivityLogsPersisted.Add(float64(len(batch)))
		return nil
	}
	w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk insert failed, attempting row-by-row recovery")
	return w.fallbackInsert(ctx, batch)
}

func activityRow(e model.ActivityEntry) []any {
	var details any
	if len(e.Details) > 0 {
		details = string(e.Details)
	}
	ts := time.Now()
	if e.Timestamp > 0 {
		ts = time.Unix(e.Timestamp, 0)
	}
	return []any{e.UserID, e.Action, details, ts}
}

func (w *ActivityWorker) bulkInsert(ctx context.Context, batch []model.ActivityEntry) error {
	rows := make([][]any, 0, len(batch))
	for _, e := range batch {
		rows = append(rows, activityRow(e))
	}
	_, err := w.db.CopyFrom(ctx, pgx.Identifier{"activity_logs"}, activityColumns, pgx.CopyFromRows(rows))
	return err
}

func (w *ActivityWorker) fallbackInsert(ctx context.Context, batch []model.ActivityEntry) []model.ActivityEntry {
	var requeue []model.ActivityEntry
	written := 0

	for _, e := range batch {
		_, err := w.db.Exec(ctx,
			`INSERT INTO activity_logs (user_id, action, details, created_at)
			 VALUES ($1, $2, $3::jsonb, $4)`,
			activityRow(e)...,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				// The row itself is bad (e.g. user deleted meanwhile); retrying cannot help.
				w.log.Error().Err(err).Str("action", e.Action).Msg("Dropping activity entry rejected by Postgres")
				continue
			}
			w.log.Error().Err(err).Str("action", e.Action).Msg("Insert failed, requeueing")
			requeue = append(requeue, e)
			continue
		}
		written++
	}

	metrics.ActivityLogsPersisted.Add(float64(written))
	return requeue
}

func (w *ActivityWorker) requeue(ctx context.Context, items []model.ActivityEntry) {
	pipe := w.rdb.Pipeline()
	for _, e := range items {
		data, _ := json.Marshal(e)
		pipe.RPush(ctx, config.WorkerKey.PersistActivityQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Int("count", len(items)).Msg("CRITICAL: Failed to requeue activity entries. Data loss occurred.")
		return
	}
	w.log.Info().Int("count", len(items)).Msg("Requeued failed activity entries")
	// Back off so a hard-down database is not hammered.
	sleepCtx(ctx, 2*time.Second)
}

func (w *ActivityWorker) shutdown(buffer []model.ActivityEntry) {
	w.log.Info().Int("pending", len(buffer)).Msg("Worker stopping, flushing remaining buffer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(buffer) > 0 {
		w.flushSafe(shutdownCtx, buffer)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
