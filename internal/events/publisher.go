package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/trace"

	"github.com/example/triptime/internal/pipeline"
)

const defaultSubject = "models.trained"

// Publisher writes training completion events to a NATS subject. A nil
// connection turns Publish into a no-op so services can run without a
// broker.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher builds a Publisher. An empty subject selects the default.
func NewPublisher(conn *nats.Conn, subject string) *Publisher {
	if subject == "" {
		subject = defaultSubject
	}
	return &Publisher{conn: conn, subject: subject}
}

// Publish satisfies pipeline.EventPublisher.
func (p *Publisher) Publish(ctx context.Context, event pipeline.TrainingCompleted) error {
	if p == nil || p.conn == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.conn.PublishMsg(&nats.Msg{Subject: p.subject, Data: payload, Header: map[string][]string{
		"x-trace-id": {traceIDFromContext(ctx)},
		"x-run-id":   {event.RunID},
	}})
}

func traceIDFromContext(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	sc := span.SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
