package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	mu     sync.Mutex
	queue  []*EventDocument
	sent   []string
	failed []string
}

func (s *stubSource) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil, nil
	}
	doc := s.queue[0]
	s.queue = s.queue[1:]
	return doc, nil
}

func (s *stubSource) MarkSent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, id)
	return nil
}

func (s *stubSource) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, id)
	return nil
}

type published struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type stubProducer struct {
	mu   sync.Mutex
	err  error
	sent []published
}

func (p *stubProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func bookedDocument(id string) *EventDocument {
	return &EventDocument{
		ID:         id,
		Name:       "reservation.booked",
		Payload:    []byte(`{"reservation_id":"res-1","room_id":"room-1"}`),
		OccurredAt: time.Date(2026, time.July, 10, 12, 0, 0, 0, time.UTC),
		Aggregate:  "res-1",
		Headers:    map[string]string{"traceparent": "00-abc-def-01"},
	}
}

func TestProcessOnce_PublishesCloudEvent(t *testing.T) {
	source := &stubSource{queue: []*EventDocument{bookedDocument("evt-1")}}
	producer := &stubProducer{}
	w := &Worker{Store: source, Producer: producer, ID: "worker-1"}

	require.NoError(t, w.processOnce(context.Background()))
	require.Len(t, producer.sent, 1)
	assert.Equal(t, []string{"evt-1"}, source.sent)

	msg := producer.sent[0]
	assert.Equal(t, "reservation.events.v1", msg.topic)
	assert.Equal(t, "res-1", msg.key)
	assert.Equal(t, "application/cloudevents+json", msg.headers["content-type"])
	assert.Equal(t, "00-abc-def-01", msg.headers["traceparent"])

	var evt map[string]any
	require.NoError(t, json.Unmarshal(msg.payload, &evt))
	assert.Equal(t, "1.0", evt["specversion"])
	assert.Equal(t, "reservation.booked.v1", evt["type"])
	assert.Equal(t, "app://innkeep", evt["source"])
	data, ok := evt["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "res-1", data["reservation_id"])
}

func TestProcessOnce_TopicPrefix(t *testing.T) {
	source := &stubSource{queue: []*EventDocument{bookedDocument("evt-1")}}
	producer := &stubProducer{}
	w := &Worker{Store: source, Producer: producer, TopicPrefix: "staging."}

	require.NoError(t, w.processOnce(context.Background()))
	require.Len(t, producer.sent, 1)
	assert.Equal(t, "staging.reservation.events.v1", producer.sent[0].topic)
}

func TestProcessOnce_MarksFailedOnPublishError(t *testing.T) {
	source := &stubSource{queue: []*EventDocument{bookedDocument("evt-1")}}
	producer := &stubProducer{err: errors.New("broker unreachable")}
	w := &Worker{Store: source, Producer: producer}

	// Publish errors are retried later, never bubbled out of the loop.
	require.NoError(t, w.processOnce(context.Background()))
	assert.Empty(t, source.sent)
	assert.Equal(t, []string{"evt-1"}, source.failed)
}

func TestProcessOnce_MarksFailedOnMalformedPayload(t *testing.T) {
	doc := bookedDocument("evt-1")
	doc.Payload = []byte("not json")
	source := &stubSource{queue: []*EventDocument{doc}}
	producer := &stubProducer{}
	w := &Worker{Store: source, Producer: producer}

	require.NoError(t, w.processOnce(context.Background()))
	assert.Empty(t, producer.sent)
	assert.Equal(t, []string{"evt-1"}, source.failed)
}

func TestProcessOnce_IdleWhenQueueEmpty(t *testing.T) {
	source := &stubSource{}
	producer := &stubProducer{}
	w := &Worker{Store: source, Producer: producer}

	require.NoError(t, w.processOnce(context.Background()))
	assert.Empty(t, producer.sent)
}

func TestRun_RequiresDependencies(t *testing.T) {
	w := &Worker{}
	assert.ErrorIs(t, w.Run(context.Background()), ErrWorkerNotConfigured)
}
