package queue

import (
	"context"
	"log/slog"
)

// ChannelQueue is the in-process transport used in local mode and tests. The
// buffered channel decouples request handling from job execution; a full
// buffer blocks Enqueue rather than dropping jobs.
type ChannelQueue struct {
	jobs chan Job
}

func NewChannelQueue(buffer int) *ChannelQueue {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChannelQueue{jobs: make(chan Job, buffer)}
}

func (q *ChannelQueue) Enqueue(ctx context.Context, job Job) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume dispatches jobs to handlers by name until ctx is cancelled.
// Handler failures are logged and the job dropped; the channel transport has
// no redelivery, which local mode accepts.
func (q *ChannelQueue) Consume(ctx context.Context, logger *slog.Logger, handlers map[string]Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-q.jobs:
			handler, ok := handlers[job.Name]
			if !ok {
				logger.WarnContext(ctx, "no handler for job", "job", job.Name)
				continue
			}
			if err := handler(ctx, job); err != nil {
				logger.ErrorContext(ctx, "job failed", "job", job.Name, "error", err.Error())
			}
		}
	}
}
