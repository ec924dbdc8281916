// Package notify handles the confirmation-email job. Actual mail delivery is
// an external collaborator; this package owns only the job-to-sender
// boundary.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"confhub/internal/queue"
)

// Sender delivers a message to a recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender records the send instead of delivering. Used until an outbound
// mail provider is wired in deployment.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.Logger.InfoContext(ctx, "confirmation email", "to", to, "subject", subject, "body", body)
	return nil
}

// JobHandler adapts a Sender to the queue's confirmation-email job.
func JobHandler(sender Sender) queue.Handler {
	return func(ctx context.Context, job queue.Job) error {
		to := job.Params["email"]
		name := job.Params["conference_name"]
		if to == "" {
			return fmt.Errorf("confirmation email job missing recipient")
		}
		body := fmt.Sprintf("Hi, you have created the following conference:\r\n\r\n%s", name)
		return sender.Send(ctx, to, "You created a new Conference!", body)
	}
}
