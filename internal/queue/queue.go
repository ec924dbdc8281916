// Package queue provides the asynchronous job trigger used for out-of-band
// work: featured-speaker recomputation and confirmation emails. Delivery is
// at-least-once with no ordering guarantee across jobs, so consumers must be
// idempotent.
package queue

import (
	"context"
	"encoding/json"
)

// Job names understood by the workers.
const (
	JobFeaturedSpeaker   = "featured_speaker"
	JobConfirmationEmail = "send_confirmation_email"
)

// Job is a named unit of background work with string parameters.
type Job struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params"`
}

// Encode serializes a job for transports that carry raw bytes.
func (j Job) Encode() ([]byte, error) {
	return json.Marshal(j)
}

// DecodeJob parses a job from its wire form.
func DecodeJob(data []byte) (Job, error) {
	var j Job
	err := json.Unmarshal(data, &j)
	return j, err
}

// Enqueuer submits jobs for asynchronous processing. Enqueue returns once the
// job is accepted by the transport, not once it is processed.
type Enqueuer interface {
	Enqueue(ctx context.Context, job Job) error
}

// Handler processes a single job. Returning an error leaves the job eligible
// for redelivery depending on the transport.
type Handler func(ctx context.Context, job Job) error
