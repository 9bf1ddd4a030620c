package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"treasury_go/internal/domain"
	"treasury_go/internal/infra"
)

// subscriberBuffer is the per-client send queue. A client that falls this far
// behind starts losing snapshots; every snapshot is self-contained, so a
// dropped one is superseded by the next.
const subscriberBuffer = 16

type subscriber struct {
	topic string
	ch    chan []byte
}

// Hub is the fan-out used by the simulator and the trade lifecycle. It
// serializes a payload once per publish and delivers the bytes to every
// current subscriber of the topic. Delivery is best-effort: no retry, no
// persistence of missed messages.
type Hub struct {
	metrics *infra.Metrics

	mu     sync.RWMutex
	topics map[string]map[*subscriber]struct{}
}

// NewHub creates a hub with every known topic registered, including the
// yield-curve topic that currently has no producer.
func NewHub(metrics *infra.Metrics) *Hub {
	topics := make(map[string]map[*subscriber]struct{}, len(domain.Topics))
	for _, t := range domain.Topics {
		topics[t] = make(map[*subscriber]struct{})
	}
	return &Hub{metrics: metrics, topics: topics}
}

// Publish implements domain.Publisher. It returns an error only when the
// payload cannot be serialized or the topic is unknown; slow subscribers are
// skipped, not waited on.
func (h *Hub) Publish(topic string, payload any) error {
	if !domain.ValidTopic(topic) {
		return fmt.Errorf("unknown topic %q", topic)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload for %s: %w", topic, err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.topics[topic] {
		select {
		case sub.ch <- data:
		default:
			slog.Warn("subscriber queue full, dropping message", slog.String("topic", topic))
		}
	}

	h.metrics.RecordBroadcast()
	return nil
}

// Subscribers returns the current subscriber count for a topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) subscribe(topic string) *subscriber {
	sub := &subscriber{topic: topic, ch: make(chan []byte, subscriberBuffer)}

	h.mu.Lock()
	h.topics[topic][sub] = struct{}{}
	h.mu.Unlock()

	h.metrics.AddSubscriber()
	return sub
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.topics[sub.topic][sub]
	if ok {
		delete(h.topics[sub.topic], sub)
		close(sub.ch)
	}
	h.mu.Unlock()

	if ok {
		h.metrics.RemoveSubscriber()
	}
}
