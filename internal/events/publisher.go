// Package events appends loan lifecycle events to a Redis stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultStream = "loan.events"

// maxStreamLen bounds the stream; trimming is approximate.
const maxStreamLen = 100000

// Envelope is the JSON document stored under the "event" field of each stream entry.
type Envelope struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	LoanID     *uuid.UUID      `json:"loan_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Streamer is the subset of the Redis API the publisher uses.
type Streamer interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

type Publisher struct {
	client Streamer
	stream string
	now    func() time.Time
}

func NewPublisher(client Streamer, stream string) *Publisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &Publisher{client: client, stream: stream, now: time.Now}
}

// Publish appends one event. A nil loanID marks a system-wide event.
func (p *Publisher) Publish(ctx context.Context, eventType string, loanID uuid.UUID, payload interface{}) error {
	env := Envelope{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: p.now().UTC(),
	}
	if loanID != uuid.Nil {
		env.LoanID = &loanID
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
		}
		env.Payload = raw
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":  eventType,
			"event": data,
		},
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}
