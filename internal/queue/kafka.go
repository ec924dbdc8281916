package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	jobsTopic     = "confhub.jobs"
	consumerGroup = "confhub-workers"
)

// KafkaQueue is the production transport. Producing with default acks and
// consuming through a group gives at-least-once delivery; job handlers are
// idempotent so redelivery is safe.
type KafkaQueue struct {
	client *kgo.Client
}

// NewKafkaQueue connects to the brokers and ensures the jobs topic exists.
func NewKafkaQueue(ctx context.Context, brokers string) (*KafkaQueue, error) {
	seeds := strings.Split(brokers, ",")

	client, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.ConsumerGroup(consumerGroup),
		kgo.ConsumeTopics(jobsTopic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopic(ctx, 3, 1, nil, jobsTopic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create jobs topic: %w", err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		client.Close()
		return nil, fmt.Errorf("create jobs topic: %w", resp.Err)
	}

	return &KafkaQueue{client: client}, nil
}

func (q *KafkaQueue) Enqueue(ctx context.Context, job Job) error {
	value, err := job.Encode()
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	record := &kgo.Record{
		Topic: jobsTopic,
		Key:   []byte(job.Name),
		Value: value,
	}
	if err := q.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce job: %w", err)
	}
	return nil
}

// Consume polls the jobs topic and dispatches to handlers by name. Offsets
// commit only after a poll batch is processed, so a crash redelivers the
// batch (at-least-once).
func (q *KafkaQueue) Consume(ctx context.Context, logger *slog.Logger, handlers map[string]Handler) error {
	for {
		fetches := q.client.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			for _, fetchErr := range errs {
				logger.ErrorContext(ctx, "kafka fetch failed",
					"topic", fetchErr.Topic,
					"error", fetchErr.Err.Error(),
				)
			}
			continue
		}

		fetches.EachRecord(func(record *kgo.Record) {
			job, err := DecodeJob(record.Value)
			if err != nil {
				logger.ErrorContext(ctx, "undecodable job dropped", "error", err.Error())
				return
			}
			handler, ok := handlers[job.Name]
			if !ok {
				logger.WarnContext(ctx, "no handler for job", "job", job.Name)
				return
			}
			if err := handler(ctx, job); err != nil {
				logger.ErrorContext(ctx, "job failed", "job", job.Name, "error", err.Error())
			}
		})

		if err := q.client.CommitUncommittedOffsets(ctx); err != nil {
			logger.ErrorContext(ctx, "offset commit failed", "error", err.Error())
		}
	}
}

// Close flushes pending produces and releases the client.
func (q *KafkaQueue) Close() {
	q.client.Close()
}
