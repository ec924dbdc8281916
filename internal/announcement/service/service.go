// Package service implements the announcement generator: a periodic scan for
// nearly-sold-out conferences published as a single cached message. The value
// is informational; it reads committed state without a transaction and
// tolerates being slightly stale.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"confhub/internal/cache"
	"confhub/internal/conference"
	"confhub/internal/platform/metrics"
	dErrors "confhub/pkg/domain-errors"
)

const (
	// NearSoldOutThreshold is the inclusive upper bound on seatsAvailable for
	// a conference to appear in the announcement. Sold-out conferences
	// (seatsAvailable == 0) are excluded: they can no longer be attended.
	NearSoldOutThreshold = 5

	announcementTemplate = "Last chance to attend! The following conferences are nearly sold out: %s"
)

type Service struct {
	confs   conference.Store
	cache   cache.Cache
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewService(confs conference.Store, c cache.Cache, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		confs:   confs,
		cache:   c,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("confhub/announcement"),
	}
}

// Recompute scans for nearly-sold-out conferences and republishes the
// announcement. An empty result clears the cache entry: absence, not an
// empty string, is the "no announcement" state.
func (s *Service) Recompute(ctx context.Context) (string, error) {
	ctx, span := s.tracer.Start(ctx, "announcement.Recompute")
	defer span.End()

	s.metrics.AnnouncementRuns.Inc()

	confs, err := s.confs.ListNearlySoldOut(ctx, NearSoldOutThreshold)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "scan conferences")
	}

	if len(confs) == 0 {
		if err := s.cache.Delete(ctx, cache.AnnouncementKey); err != nil {
			s.logger.WarnContext(ctx, "clear announcement failed", "error", err.Error())
		}
		return "", nil
	}

	names := make([]string, len(confs))
	for i, c := range confs {
		names[i] = c.Name
	}
	announcement := fmt.Sprintf(announcementTemplate, strings.Join(names, ", "))

	if err := s.cache.Set(ctx, cache.AnnouncementKey, announcement); err != nil {
		// Best-effort publish; the next scheduled run republishes.
		s.logger.WarnContext(ctx, "publish announcement failed", "error", err.Error())
	}
	return announcement, nil
}

// Get returns the cached announcement, or "" when none is published. Pure
// cache read; never touches the conference store.
func (s *Service) Get(ctx context.Context) (string, error) {
	val, found, err := s.cache.Get(ctx, cache.AnnouncementKey)
	if err != nil {
		s.logger.WarnContext(ctx, "announcement cache read failed", "error", err.Error())
		found = false
	}
	if !found {
		s.metrics.CacheMisses.WithLabelValues("announcement").Inc()
		return "", nil
	}
	return val, nil
}

// StartScheduler publishes the announcement once immediately, then
// republishes on a fixed interval until ctx is cancelled. Run failures are
// logged and the next tick retries.
func (s *Service) StartScheduler(ctx context.Context, interval time.Duration) error {
	if _, err := s.Recompute(ctx); err != nil {
		s.logger.ErrorContext(ctx, "initial announcement run failed", "error", err.Error())
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Recompute(ctx); err != nil {
				s.logger.ErrorContext(ctx, "scheduled announcement run failed", "error", err.Error())
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
