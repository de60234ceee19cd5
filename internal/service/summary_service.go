package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"nutritrack/internal/cache"
	"nutritrack/internal/models"
	"nutritrack/internal/observability"
	"nutritrack/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// SummaryPublisher pushes a freshly recomputed summary to its owner.
type SummaryPublisher interface {
	PublishSummary(ctx context.Context, summary *models.DailySummary) error
}

// SummaryService is the aggregation engine: it rebuilds a user's daily
// summary from the raw log tables and serves cached summary reads.
type SummaryService struct {
	store     repository.Store
	cache     *cache.Cache
	publisher SummaryPublisher
	clock     Clock
}

// NewSummaryService wires the engine. cache and publisher may be nil.
func NewSummaryService(store repository.Store, c *cache.Cache, publisher SummaryPublisher, clock Clock) *SummaryService {
	return &SummaryService{
		store:     store,
		cache:     c,
		publisher: publisher,
		clock:     orSystemClock(clock),
	}
}

// RecomputeDailySummary rebuilds the (userID, date) summary and returns it.
func (s *SummaryService) RecomputeDailySummary(ctx context.Context, userID uint, date string) (*models.DailySummary, error) {
	return s.Recompute(ctx, observability.TriggerManual, userID, date)
}

// Recompute is RecomputeDailySummary labelled with the trigger that caused it.
//
// The summary row is created if absent and locked, then the three day sums are
// written over it, all in one transaction. Concurrent recomputes of the same
// key serialize on the row lock and the last one to commit wins with a fully
// recomputed row.
func (s *SummaryService) Recompute(ctx context.Context, trigger string, userID uint, date string) (*models.DailySummary, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, span := observability.GetTraceLayer().TraceService(ctx, "summary", "Recompute",
		attribute.Int64("user.id", int64(userID)),
		attribute.String("summary.date", date),
		attribute.String("summary.trigger", trigger),
	)

	var summary *models.DailySummary
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		row, err := tx.Summaries().EnsureLocked(ctx, userID, date)
		if err != nil {
			return err
		}
		totals, err := tx.Summaries().SumDay(ctx, userID, date)
		if err != nil {
			return err
		}
		if err := tx.Summaries().Overwrite(ctx, row, totals); err != nil {
			return err
		}
		summary = row
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		observability.SummaryRecomputeFailures.WithLabelValues(trigger).Inc()
		return nil, asAppError(err)
	}

	observability.SummaryRecomputes.WithLabelValues(trigger).Inc()
	observability.SummaryRecomputeDuration.Observe(time.Since(start).Seconds())
	s.afterRecompute(ctx, trigger, summary)
	return summary, nil
}

// afterRecompute writes the summary through to the cache and publishes it.
// Both are best effort. The cache keeps whichever recompute committed last.
// Read-triggered recomputes change nothing a subscriber has not seen, so
// they are not published.
func (s *SummaryService) afterRecompute(ctx context.Context, trigger string, summary *models.DailySummary) {
	key := cache.SummaryKey(summary.UserID, summary.SummaryDate)
	if _, err := s.cache.SetJSONVersioned(ctx, key, summary, summary.UpdatedAt.UnixMicro(), cache.SummaryTTL); err != nil {
		observability.GlobalLogger().WarnContext(ctx, "summary cache write failed",
			slog.Uint64("user_id", uint64(summary.UserID)),
			slog.String("date", summary.SummaryDate),
			slog.String("error", err.Error()),
		)
	}
	if s.publisher == nil || trigger == observability.TriggerRead {
		return
	}
	if err := s.publisher.PublishSummary(ctx, summary); err != nil {
		observability.GlobalLogger().WarnContext(ctx, "summary publish failed",
			slog.Uint64("user_id", uint64(summary.UserID)),
			slog.String("error", err.Error()),
		)
	}
}

// MarkStale handles a recompute that failed after its log mutation committed:
// the failure is logged and the cached summary for the key is dropped so the
// next read rebuilds it.
func (s *SummaryService) MarkStale(ctx context.Context, ref models.LogRef, trigger string, cause error) {
	observability.GlobalLogger().WarnContext(ctx, "daily summary left stale",
		slog.Uint64("user_id", uint64(ref.UserID)),
		slog.String("date", ref.LogDate),
		slog.String("trigger", trigger),
		slog.String("error", cause.Error()),
	)
	if err := s.cache.Invalidate(ctx, cache.SummaryKey(ref.UserID, ref.LogDate)); err != nil {
		observability.GlobalLogger().WarnContext(ctx, "summary cache invalidate failed", slog.String("error", err.Error()))
	}
}

// GetDailySummary returns the summary for (userID, date), building it when no
// row exists yet. date defaults to today. A day without logs yields zeros.
func (s *SummaryService) GetDailySummary(ctx context.Context, userID uint, date string) (*models.DailySummary, error) {
	date, err := DateOrToday(date, s.clock)
	if err != nil {
		return nil, err
	}

	return cache.Aside(ctx, s.cache, cache.SummaryKey(userID, date), cache.SummaryTTL,
		func(ctx context.Context) (*models.DailySummary, error) {
			row, err := s.store.Summaries().Get(ctx, userID, date)
			if err == nil {
				return row, nil
			}
			if !models.IsNotFound(err) {
				return nil, err
			}
			if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
				return nil, err
			}
			return s.Recompute(ctx, observability.TriggerRead, userID, date)
		})
}

// asAppError keeps AppErrors as they are and wraps anything else as internal.
func asAppError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}
