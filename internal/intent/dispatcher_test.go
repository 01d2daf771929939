package intent

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ashureev/orderbot/internal/metrics"
	"github.com/ashureev/orderbot/internal/order"
	"github.com/ashureev/orderbot/internal/session"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type recordingService struct {
	calls []string
}

func (s *recordingService) record(format string, args ...any) string {
	call := fmt.Sprintf(format, args...)
	s.calls = append(s.calls, call)
	return call
}

func (s *recordingService) StartOrder(_ context.Context, sid string) string {
	return s.record("start %s", sid)
}

func (s *recordingService) AddItems(_ context.Context, sid string, items []string, qty []int) string {
	return s.record("add %s %s %v", sid, strings.Join(items, ","), qty)
}

func (s *recordingService) RemoveItems(_ context.Context, sid string, items []string) string {
	return s.record("remove %s %s", sid, strings.Join(items, ","))
}

func (s *recordingService) CommitOrder(_ context.Context, sid string) string {
	return s.record("commit %s", sid)
}

func (s *recordingService) TrackOrder(_ context.Context, ref string) string {
	return s.record("track %s", ref)
}

const ctxName = "projects/p/agent/sessions/abc/contexts/ongoing-order"

func request(intentName string, params map[string]any) *Request {
	return &Request{QueryResult: QueryResult{
		Intent:         IntentInfo{DisplayName: intentName},
		Parameters:     params,
		OutputContexts: []OutputContext{{Name: ctxName}},
	}}
}

func TestDispatcherRoutesEvents(t *testing.T) {
	svc := &recordingService{}
	m := metrics.New(nil)
	d := NewDispatcher(svc, m)
	ctx := context.Background()

	assert.Equal(t, "start abc", d.Handle(ctx, request(IntentNewOrder, nil)))
	assert.Equal(t, "add abc pizza [2]", d.Handle(ctx, request(IntentAddItems,
		map[string]any{"food": []any{"pizza"}, "number": []any{2.0}})))
	assert.Equal(t, "remove abc pizza", d.Handle(ctx, request(IntentRemoveItems,
		map[string]any{"food": []any{"pizza"}})))
	assert.Equal(t, "commit abc", d.Handle(ctx, request(IntentCompleteOrder, nil)))
	assert.Equal(t, "track 42", d.Handle(ctx, request(IntentTrackOrder,
		map[string]any{"number": []any{"42"}})))

	assert.Len(t, svc.calls, 5)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IntentsTotal.WithLabelValues("add_items")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IntentsTotal.WithLabelValues("track_order")))
}

func TestDispatcherUnknownIntent(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(svc, nil)

	got := d.Handle(context.Background(), request("smalltalk.greet", nil))
	assert.Equal(t, "Sorry, I don't know how to handle the intent 'smalltalk.greet'.", got)
	assert.Empty(t, svc.calls)
}

func TestDispatcherBadQuantityIsMismatch(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(svc, nil)

	got := d.Handle(context.Background(), request(IntentAddItems,
		map[string]any{"food": []any{"pizza"}, "number": []any{"lots"}}))
	assert.Equal(t, order.MsgParameterMismatch, got)
	assert.Empty(t, svc.calls)
}

func TestDispatcherWithOrderService(t *testing.T) {
	sessions := session.NewStore()
	svc := order.NewService(order.NewAggregator(sessions), nil, nil, nil)
	d := NewDispatcher(svc, nil)
	ctx := context.Background()

	assert.Equal(t, order.MsgStartOrder, d.Handle(ctx, request(IntentNewOrder, nil)))
	assert.Equal(t,
		"So far you have: coke: 1, pizza: 2. Do you need anything else?",
		d.Handle(ctx, request(IntentAddItems, map[string]any{
			"food":   []any{"pizza", "coke"},
			"number": []any{2.0, 1.0},
		})))

	got, ok := sessions.Get("abc")
	assert.True(t, ok)
	assert.Len(t, got, 2)
}
