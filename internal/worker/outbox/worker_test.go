package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/farm2school/order/internal/dal/rabbitmq"
	"github.com/farm2school/order/internal/service/models/outbox"
	"github.com/stretchr/testify/assert"
)

type fakeOutboxRepo struct {
	pendingCalls int
	messages     []outbox.Message
}

func (r *fakeOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.Message, error) {
	r.pendingCalls++
	return r.messages, nil
}

func (r *fakeOutboxRepo) Delete(_ context.Context, id int64) error {
	for i, msg := range r.messages {
		if msg.ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeOutboxRepo) UpdateRetry(_ context.Context, _ int64, _ int, _ string, _ time.Time) error {
	return nil
}

func TestProcessMessagesWaitsForBroker(t *testing.T) {
	repo := &fakeOutboxRepo{messages: []outbox.Message{{ID: 1, QueueName: "f2s.order.created"}}}

	dials := 0
	w := NewWorker(repo, nil)
	w.dial = func() (*rabbitmq.Client, error) {
		dials++
		return nil, errors.New("dial tcp 127.0.0.1:5672: connection refused")
	}

	w.processMessages(context.Background())
	w.processMessages(context.Background())

	assert.Equal(t, 2, dials, "redials every poll until the broker answers")
	assert.Zero(t, repo.pendingCalls, "does not touch the outbox without a connection")
	assert.Len(t, repo.messages, 1, "parked message survives for the next attempt")
}

func TestNewWorkerDefaults(t *testing.T) {
	w := NewWorker(&fakeOutboxRepo{}, nil)

	assert.Equal(t, 10*time.Second, w.pollInterval)
	assert.Equal(t, 100, w.batchSize)
}
