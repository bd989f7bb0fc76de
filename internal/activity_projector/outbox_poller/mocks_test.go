package outbox_poller

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/asc-rental-marketplace/internal/domain/activity"
	"github.com/asc-rental-marketplace/internal/domain/outbox"
	"github.com/asc-rental-marketplace/internal/domain/shared"
)

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOutboxRepo) GetByEventID(ctx context.Context, eventID string) (*outbox.Message, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) WithTx(pgx.Tx) outbox.Repository {
	return m
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, key string, payload []byte, headers map[string]string) error {
	return m.Called(ctx, key, payload, headers).Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

type MockEventRelay struct {
	mock.Mock
}

func (m *MockEventRelay) Relay(ctx context.Context, message *outbox.Message) error {
	return m.Called(ctx, message).Error(0)
}

func newOutboxMessage(t *testing.T, id int64, attempts int) *outbox.Message {
	t.Helper()
	event := activity.NewEvent(activity.TypeListingPublished, "owner-1", "owner-1", "listing-1", "corr-1", time.Now().UTC())
	msg, err := outbox.NewMessage(event, time.Now().UTC())
	require.NoError(t, err)
	msg.ID = id
	msg.Attempts = attempts
	return msg
}

func rawOutboxMessage(id int64, payload string) *outbox.Message {
	return &outbox.Message{
		ID:        id,
		EventID:   "broken",
		OwnerID:   "owner-1",
		Payload:   json.RawMessage(payload),
		Status:    shared.OutboxStatusPending,
		CreatedAt: time.Now(),
	}
}
