package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan *message.Message) SessionEvent {
	t.Helper()

	select {
	case msg := <-ch:
		msg.Ack()
		var ev SessionEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		assert.NotEmpty(t, msg.UUID)
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return SessionEvent{}
	}
}

func TestWatermillPublisher(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx := context.Background()
	issued, err := pubSub.Subscribe(ctx, TopicSessionIssued)
	require.NoError(t, err)
	logout, err := pubSub.Subscribe(ctx, TopicLogout)
	require.NoError(t, err)

	clk := clock.NewMock()
	clk.Set(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	pub := NewWatermillPublisher(pubSub, clk)

	require.NoError(t, pub.PublishSessionIssued(ctx, "wallet-1", "solana"))
	ev := receive(t, issued)
	assert.Equal(t, "wallet-1", ev.Address)
	assert.Equal(t, "solana", ev.Scheme)
	assert.True(t, clk.Now().Equal(ev.OccurredAt))

	require.NoError(t, pub.PublishLogout(ctx, "wallet-1"))
	ev = receive(t, logout)
	assert.Equal(t, "wallet-1", ev.Address)
	assert.Empty(t, ev.Scheme)
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error { return errors.New("broker down") }
func (failingPublisher) Close() error                              { return nil }

func TestWatermillPublisher_Error(t *testing.T) {
	pub := NewWatermillPublisher(failingPublisher{}, nil)

	err := pub.PublishLogout(context.Background(), "wallet-1")
	assert.ErrorContains(t, err, "broker down")
}
