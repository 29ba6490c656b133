package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/segyhp/vehicle-loan-engine/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	client := new(mocks.MockRedisClient)
	loanID := uuid.New()
	fixed := time.Date(2024, 2, 10, 9, 30, 0, 0, time.UTC)

	var captured *redis.XAddArgs
	client.On("XAdd", mock.Anything, mock.AnythingOfType("*redis.XAddArgs")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*redis.XAddArgs) }).
		Return(redis.NewStringResult("1707557400000-0", nil)).Once()

	p := NewPublisher(client, "")
	p.now = func() time.Time { return fixed }

	err := p.Publish(context.Background(), "payment.collected", loanID, map[string]string{"amount": "13285.72"})
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, DefaultStream, captured.Stream)
	assert.True(t, captured.Approx)
	values := captured.Values.(map[string]interface{})
	assert.Equal(t, "payment.collected", values["type"])

	var env Envelope
	require.NoError(t, json.Unmarshal(values["event"].([]byte), &env))
	assert.Equal(t, "payment.collected", env.Type)
	require.NotNil(t, env.LoanID)
	assert.Equal(t, loanID, *env.LoanID)
	assert.True(t, env.OccurredAt.Equal(fixed))
	assert.JSONEq(t, `{"amount":"13285.72"}`, string(env.Payload))

	client.AssertExpectations(t)
}

func TestPublisher_SystemEventHasNoLoan(t *testing.T) {
	client := new(mocks.MockRedisClient)
	var captured *redis.XAddArgs
	client.On("XAdd", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*redis.XAddArgs) }).
		Return(redis.NewStringResult("1-0", nil))

	require.NoError(t, NewPublisher(client, "custom").Publish(context.Background(), "overdue.swept", uuid.Nil, nil))

	assert.Equal(t, "custom", captured.Stream)
	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(captured.Values.(map[string]interface{})["event"].([]byte), &env))
	assert.NotContains(t, env, "loan_id")
	assert.NotContains(t, env, "payload")
}

func TestPublisher_Failure(t *testing.T) {
	client := new(mocks.MockRedisClient)
	down := errors.New("stream unavailable")
	client.On("XAdd", mock.Anything, mock.Anything).Return(redis.NewStringResult("", down))

	err := NewPublisher(client, "").Publish(context.Background(), "loan.originated", uuid.New(), nil)
	assert.ErrorIs(t, err, down)

	err = NewPublisher(client, "").Publish(context.Background(), "loan.originated", uuid.New(), make(chan int))
	assert.Error(t, err)
}
