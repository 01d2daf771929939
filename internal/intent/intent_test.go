package intent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSessionID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"context path", "projects/p/agent/sessions/abcd1234/contexts/ongoing-order", "abcd1234"},
		{"session path without context", "projects/p/agent/sessions/abcd1234", "abcd1234"},
		{"no sessions delimiter", "abcd1234", "abcd1234"},
		{"unexpected shape kept verbatim", "projects/p/agent/contexts/x", "projects/p/agent/contexts/x"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSessionID(tt.in))
		})
	}
}

func decodeRequest(t *testing.T, body string) *Request {
	t.Helper()
	var r Request
	require.NoError(t, json.Unmarshal([]byte(body), &r))
	return &r
}

func TestRequestSessionID(t *testing.T) {
	r := decodeRequest(t, `{
		"session": "projects/p/agent/sessions/from-session",
		"queryResult": {"outputContexts": [{"name": "projects/p/agent/sessions/from-ctx/contexts/ongoing-order"}]}
	}`)
	assert.Equal(t, "from-ctx", r.SessionID())

	r = decodeRequest(t, `{"session": "projects/p/agent/sessions/from-session", "queryResult": {}}`)
	assert.Equal(t, "from-session", r.SessionID())

	r = decodeRequest(t, `{"queryResult": {}}`)
	assert.Equal(t, "", r.SessionID())
}

func TestParseEvents(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Event
	}{
		{
			name: "new order",
			body: `{"queryResult": {"intent": {"displayName": "new.order"}}}`,
			want: StartOrder{},
		},
		{
			name: "add items",
			body: `{"queryResult": {"intent": {"displayName": "order.add.items - context:ongoing order"},
				"parameters": {"food": ["pizza", "coke"], "number": [2, 1]}}}`,
			want: AddItems{Items: []string{"pizza", "coke"}, Quantities: []int{2, 1}},
		},
		{
			name: "add items with scalar parameters",
			body: `{"queryResult": {"intent": {"displayName": "order.add.items - context:ongoing order"},
				"parameters": {"food": "samosa", "number": "3"}}}`,
			want: AddItems{Items: []string{"samosa"}, Quantities: []int{3}},
		},
		{
			name: "add items keeps count mismatch for the service",
			body: `{"queryResult": {"intent": {"displayName": "order.add.items - context:ongoing order"},
				"parameters": {"food": ["pizza", "coke"], "number": [2]}}}`,
			want: AddItems{Items: []string{"pizza", "coke"}, Quantities: []int{2}},
		},
		{
			name: "remove items",
			body: `{"queryResult": {"intent": {"displayName": "order.remove - context: ongoing-order"},
				"parameters": {"food": ["coke", "fries"]}}}`,
			want: RemoveItems{Items: []string{"coke", "fries"}},
		},
		{
			name: "complete",
			body: `{"queryResult": {"intent": {"displayName": "order.complete - context: ongoing-order"}}}`,
			want: CompleteOrder{},
		},
		{
			name: "track from number list",
			body: `{"queryResult": {"intent": {"displayName": "track.order - context: ongoing-tracking"},
				"parameters": {"number": ["42"]}}}`,
			want: TrackOrder{OrderRef: "42"},
		},
		{
			name: "track from order_id number",
			body: `{"queryResult": {"intent": {"displayName": "track.order"},
				"parameters": {"order_id": 42.0, "number": [7]}}}`,
			want: TrackOrder{OrderRef: "42"},
		},
		{
			name: "track with blank order_id falls back to number",
			body: `{"queryResult": {"intent": {"displayName": "track.order"},
				"parameters": {"order_id": "", "number": [7]}}}`,
			want: TrackOrder{OrderRef: "7"},
		},
		{
			name: "track without reference",
			body: `{"queryResult": {"intent": {"displayName": "track.order"}, "parameters": {}}}`,
			want: TrackOrder{OrderRef: ""},
		},
		{
			name: "track with text reference",
			body: `{"queryResult": {"intent": {"displayName": "track.order"}, "parameters": {"order_id": "abc"}}}`,
			want: TrackOrder{OrderRef: "abc"},
		},
		{
			name: "unknown",
			body: `{"queryResult": {"intent": {"displayName": "smalltalk.greet"}}}`,
			want: Unknown{Name: "smalltalk.greet"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(decodeRequest(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejectsBadQuantities(t *testing.T) {
	for _, number := range []string{`["two"]`, `[1.5]`, `[-1]`, `[true]`} {
		body := `{"queryResult": {"intent": {"displayName": "order.add.items - context:ongoing order"},
			"parameters": {"food": ["pizza"], "number": ` + number + `}}}`
		_, err := Parse(decodeRequest(t, body))
		assert.ErrorIs(t, err, ErrBadParameter, number)
	}
}
