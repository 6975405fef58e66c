package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/abgdnv/onlineshop/pkg/config"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEvent struct{}

func (testEvent) Subject() string           { return "test.subject" }
func (testEvent) Payload() ([]byte, error) { return []byte("{}"), nil }

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newTestBreaker(next Publisher) *BreakerPublisher {
	cfg := config.CircuitBreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Hour, HalfOpenRequests: 1}
	return NewBreakerPublisher(next, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBreakerPublisher_PassesThrough(t *testing.T) {
	// given
	next := new(MockPublisher)
	next.On("Publish", mock.Anything, testEvent{}).Return(nil)
	p := newTestBreaker(next)

	// when
	err := p.Publish(context.Background(), testEvent{})

	// then
	require.NoError(t, err)
	next.AssertExpectations(t)
	assert.Equal(t, gobreaker.StateClosed, p.State())
}

func TestBreakerPublisher_OpensAfterConsecutiveFailures(t *testing.T) {
	// given
	brokerDown := errors.New("nats: no responders")
	next := new(MockPublisher)
	next.On("Publish", mock.Anything, testEvent{}).Return(brokerDown).Times(2)
	p := newTestBreaker(next)

	// when
	err1 := p.Publish(context.Background(), testEvent{})
	err2 := p.Publish(context.Background(), testEvent{})
	err3 := p.Publish(context.Background(), testEvent{})

	// then
	assert.ErrorIs(t, err1, brokerDown)
	assert.ErrorIs(t, err2, brokerDown)
	assert.ErrorIs(t, err3, ErrPublisherUnavailable)
	assert.Equal(t, gobreaker.StateOpen, p.State())
	next.AssertNumberOfCalls(t, "Publish", 2)
}

func TestBreakerPublisher_CancelledContextDoesNotTrip(t *testing.T) {
	next := new(MockPublisher)
	next.On("Publish", mock.Anything, testEvent{}).Return(context.Canceled)
	p := newTestBreaker(next)

	for range 3 {
		assert.ErrorIs(t, p.Publish(context.Background(), testEvent{}), context.Canceled)
	}

	assert.Equal(t, gobreaker.StateClosed, p.State())
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), testEvent{}))
}
