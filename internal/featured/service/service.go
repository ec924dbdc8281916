// Package service implements the featured-speaker aggregator. It recomputes
// derived data only; re-running with the same sessions publishes the same
// value, so at-least-once job delivery is safe.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"confhub/internal/cache"
	"confhub/internal/conference"
	"confhub/internal/platform/metrics"
	"confhub/internal/session"
	dErrors "confhub/pkg/domain-errors"
	"confhub/pkg/platform/sentinel"
)

// FeaturedThreshold is the minimum session count for a speaker to be
// featured within one conference.
const FeaturedThreshold = 2

// NoFeaturedMessage is returned on the read path when no featured speaker is
// cached for the conference.
const NoFeaturedMessage = "There are 0 featured speakers"

type Service struct {
	sessions session.Store
	confs    conference.Store
	cache    cache.Cache
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

func NewService(
	sessions session.Store,
	confs conference.Store,
	c cache.Cache,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		sessions: sessions,
		confs:    confs,
		cache:    c,
		metrics:  m,
		logger:   logger,
		tracer:   otel.Tracer("confhub/featured"),
	}
}

// Recompute derives the featured speaker for one conference and republishes
// it to the cache. Speaker counts use exact string identity; sessions without
// a speaker are excluded. Ties break to the lexicographically smallest name
// so the result does not depend on store iteration order. When no speaker
// reaches the threshold the cache entry is cleared and "" is returned.
func (s *Service) Recompute(ctx context.Context, conferenceID string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "featured.Recompute",
		trace.WithAttributes(attribute.String("conference.id", conferenceID)))
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecomputeDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()
	s.metrics.FeaturedRecomputes.Inc()

	if _, err := s.confs.Get(ctx, conferenceID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.Newf(dErrors.CodeNotFound, "no conference found with key: %s", conferenceID)
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load conference")
	}

	sessions, err := s.sessions.ListByConference(ctx, conferenceID)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load sessions")
	}

	speaker, count := topSpeaker(sessions)
	key := cache.FeaturedKey(conferenceID)

	if count < FeaturedThreshold {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "clear featured speaker failed",
				"conference_id", conferenceID, "error", err.Error())
		}
		return "", nil
	}

	if err := s.cache.Set(ctx, key, speaker); err != nil {
		// Best-effort publish; the value is recomputed on the next session.
		s.logger.WarnContext(ctx, "publish featured speaker failed",
			"conference_id", conferenceID, "error", err.Error())
	}
	return speaker, nil
}

// Get returns the cached featured speaker for the conference. This is a pure
// cache read: absence yields the sentinel message, never a store query.
func (s *Service) Get(ctx context.Context, conferenceID string) (string, error) {
	val, found, err := s.cache.Get(ctx, cache.FeaturedKey(conferenceID))
	if err != nil {
		// Degrade to "nothing cached" rather than failing the read.
		s.logger.WarnContext(ctx, "featured speaker cache read failed",
			"conference_id", conferenceID, "error", err.Error())
		found = false
	}
	if !found {
		s.metrics.CacheMisses.WithLabelValues("featured").Inc()
		return NoFeaturedMessage, nil
	}
	return val, nil
}

// topSpeaker returns the most frequent speaker and their session count.
// Sessions with an empty speaker are skipped. Ties break to the smallest
// name lexicographically.
func topSpeaker(sessions []*session.Session) (string, int) {
	counts := make(map[string]int, len(sessions))
	for _, sess := range sessions {
		if sess.Speaker == "" {
			continue
		}
		counts[sess.Speaker]++
	}

	var best string
	bestCount := 0
	for speaker, count := range counts {
		if count > bestCount || (count == bestCount && speaker < best) {
			best = speaker
			bestCount = count
		}
	}
	return best, bestCount
}
