package ingest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmeet-systems/webhook-bridge/internal/event"
)

type collectedEvents struct {
	mu     sync.Mutex
	events []*event.RawEvent
}

func (c *collectedEvents) collect(ctx context.Context, raw *event.RawEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, raw)
}

func (c *collectedEvents) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func (c *collectedEvents) first() *event.RawEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[0]
}

// waitFor polls until cond holds or the deadline passes. Pub/sub delivery is
// asynchronous, so tests cannot assert immediately after publishing.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{URL: "redis://localhost:6379", Channels: []string{"events:core"}}, false},
		{"missing url", Config{Channels: []string{"events:core"}}, true},
		{"no channels", Config{URL: "redis://localhost:6379"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewRedisSource_Errors(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := Config{URL: "redis://" + mr.Addr(), Channels: []string{"events:core"}}

	t.Run("nil collector", func(t *testing.T) {
		_, err := NewRedisSource(cfg, nil, nil)
		assert.Error(t, err)
	})

	t.Run("invalid url", func(t *testing.T) {
		bad := cfg
		bad.URL = "not-a-url"
		_, err := NewRedisSource(bad, func(context.Context, *event.RawEvent) {}, nil)
		assert.Error(t, err)
	})

	t.Run("unreachable server", func(t *testing.T) {
		down := cfg
		down.URL = "redis://127.0.0.1:1"
		_, err := NewRedisSource(down, func(context.Context, *event.RawEvent) {}, nil)
		assert.Error(t, err)
	})
}

func TestRedisSource_DeliversDecodedEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	collected := &collectedEvents{}

	src, err := NewRedisSource(
		Config{URL: "redis://" + mr.Addr(), Channels: []string{"events:core"}},
		collected.collect, nil)
	require.NoError(t, err)
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, src.Start(ctx))

	payload := `{"envelope": {"name": "UserJoinedMeetingEvtMsg", "routing": {"meetingId": "m1"}}, "core": {"body": {}}}`
	mr.Publish("events:core", payload)

	waitFor(t, func() bool { return collected.len() == 1 })
	assert.Equal(t, "UserJoinedMeetingEvtMsg", collected.first().TypeName())
}

func TestRedisSource_SkipsBadPayloads(t *testing.T) {
	mr := miniredis.RunT(t)
	collected := &collectedEvents{}

	src, err := NewRedisSource(
		Config{URL: "redis://" + mr.Addr(), Channels: []string{"events:core"}},
		collected.collect, nil)
	require.NoError(t, err)
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, src.Start(ctx))

	mr.Publish("events:core", "{not json")
	mr.Publish("events:core", "{}")
	mr.Publish("events:core", `{"envelope": {"name": "MeetingDestroyedEvtMsg"}}`)

	// Only the well-formed, non-empty event arrives.
	waitFor(t, func() bool { return collected.len() == 1 })
	assert.Equal(t, "MeetingDestroyedEvtMsg", collected.first().TypeName())
}

func TestRedisSource_MultipleChannels(t *testing.T) {
	mr := miniredis.RunT(t)
	collected := &collectedEvents{}

	src, err := NewRedisSource(
		Config{URL: "redis://" + mr.Addr(), Channels: []string{"events:core", "events:recording"}},
		collected.collect, nil)
	require.NoError(t, err)
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, src.Start(ctx))

	mr.Publish("events:core", `{"envelope": {"name": "MeetingCreatedEvtMsg"}}`)
	mr.Publish("events:recording", `{"header": {"name": "archive_started", "current_time": 1}}`)

	waitFor(t, func() bool { return collected.len() == 2 })
}

func TestRedisSource_CloseStopsConsuming(t *testing.T) {
	mr := miniredis.RunT(t)
	collected := &collectedEvents{}

	src, err := NewRedisSource(
		Config{URL: "redis://" + mr.Addr(), Channels: []string{"events:core"}},
		collected.collect, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, src.Start(ctx))

	require.NoError(t, src.Close())

	// Publishing after close must not reach the collector.
	mr.Publish("events:core", `{"envelope": {"name": "MeetingCreatedEvtMsg"}}`)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, collected.len())
}
