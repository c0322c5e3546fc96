package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeName_Precedence(t *testing.T) {
	tests := []struct {
		name string
		raw  *RawEvent
		want string
	}{
		{
			name: "nil event",
			raw:  nil,
			want: "",
		},
		{
			name: "empty event",
			raw:  &RawEvent{},
			want: "",
		},
		{
			name: "header name wins",
			raw: &RawEvent{
				Header:   &RawHeader{Name: "archive_started"},
				Envelope: &Envelope{Name: "SomethingElseEvtMsg"},
			},
			want: "archive_started",
		},
		{
			name: "envelope name when header empty",
			raw: &RawEvent{
				Header:   &RawHeader{CurrentTime: 1},
				Envelope: &Envelope{Name: "MeetingCreatedEvtMsg"},
			},
			want: "MeetingCreatedEvtMsg",
		},
		{
			name: "data id last",
			raw: &RawEvent{
				Data: &CanonicalEvent{ID: UserJoined},
			},
			want: "user-joined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.raw.TypeName())
		})
	}
}

func TestIsEmpty(t *testing.T) {
	var nilEvent *RawEvent
	assert.True(t, nilEvent.IsEmpty())
	assert.True(t, (&RawEvent{}).IsEmpty())
	assert.True(t, (&RawEvent{Payload: map[string]any{}}).IsEmpty())

	assert.False(t, (&RawEvent{Envelope: &Envelope{}}).IsEmpty())
	assert.False(t, (&RawEvent{Header: &RawHeader{}}).IsEmpty())
	assert.False(t, (&RawEvent{Core: &Core{}}).IsEmpty())
	assert.False(t, (&RawEvent{Payload: map[string]any{"k": "v"}}).IsEmpty())
	assert.False(t, (&RawEvent{Data: &CanonicalEvent{}}).IsEmpty())
}

func TestKnownOutput(t *testing.T) {
	for _, name := range OutputEvents {
		assert.True(t, KnownOutput(name), "%s must be a known output", name)
	}

	assert.False(t, KnownOutput("MeetingCreatedEvtMsg"))
	assert.False(t, KnownOutput(""))
	assert.False(t, KnownOutput("meeting-created-extra"))
}

func TestOutputEvents_ClosedSet(t *testing.T) {
	assert.Len(t, OutputEvents, 38)

	seen := map[string]struct{}{}
	for _, name := range OutputEvents {
		_, dup := seen[name]
		assert.False(t, dup, "duplicate output name %s", name)
		seen[name] = struct{}{}
	}
}

func TestCanonicalEvent_JSONShape(t *testing.T) {
	evt := CanonicalEvent{
		Type: TypeEvent,
		ID:   MeetingCreated,
		Attributes: map[string]any{
			"meeting": map[string]any{"internal-meeting-id": "m1"},
		},
		Event: Stamp{TS: 1700000000000},
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "event",
		"id": "meeting-created",
		"attributes": {"meeting": {"internal-meeting-id": "m1"}},
		"event": {"ts": 1700000000000}
	}`, string(data))
}

func TestRawEvent_DecodeBusShapes(t *testing.T) {
	t.Run("core message", func(t *testing.T) {
		var raw RawEvent
		require.NoError(t, json.Unmarshal([]byte(`{
			"envelope": {"name": "UserJoinedMeetingEvtMsg", "routing": {"meetingId": "m1", "userId": "u1"}},
			"core": {"header": {"name": "UserJoinedMeetingEvtMsg", "userId": "u1"}, "body": {"name": "Alice"}}
		}`), &raw))

		assert.Equal(t, "m1", raw.Envelope.Routing.MeetingID)
		assert.Equal(t, "u1", raw.Core.Header.UserID)
		assert.Equal(t, "Alice", raw.Core.Body["name"])
	})

	t.Run("recording processing message", func(t *testing.T) {
		var raw RawEvent
		require.NoError(t, json.Unmarshal([]byte(`{
			"header": {"name": "publish_ended", "current_time": 1700000000000, "version": "1.0"},
			"payload": {"meeting_id": "m1", "success": true}
		}`), &raw))

		assert.Equal(t, "publish_ended", raw.Header.Name)
		assert.Equal(t, int64(1700000000000), raw.Header.CurrentTime)
		assert.Equal(t, true, raw.Payload["success"])
	})

	t.Run("already canonical message", func(t *testing.T) {
		var raw RawEvent
		require.NoError(t, json.Unmarshal([]byte(`{
			"data": {"type": "event", "id": "user-joined", "attributes": {}, "event": {"ts": 5}}
		}`), &raw))

		require.NotNil(t, raw.Data)
		assert.Equal(t, "user-joined", raw.Data.ID)
		assert.Equal(t, int64(5), raw.Data.Event.TS)
	})
}
