package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"treasury_go/internal/domain"
	"treasury_go/internal/infra"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

func TestPublish_FanOut(t *testing.T) {
	hub := NewHub(infra.NewMetrics())

	a := hub.subscribe(domain.TopicMarketData)
	b := hub.subscribe(domain.TopicMarketData)
	other := hub.subscribe(domain.TopicTrades)
	defer hub.unsubscribe(a)
	defer hub.unsubscribe(b)
	defer hub.unsubscribe(other)

	if err := hub.Publish(domain.TopicMarketData, map[string]string{"cusip": "912828YK5"}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	for _, sub := range []*subscriber{a, b} {
		select {
		case data := <-sub.ch:
			var got map[string]string
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("payload not JSON: %v", err)
			}
			if got["cusip"] != "912828YK5" {
				t.Errorf("unexpected payload: %v", got)
			}
		default:
			t.Fatal("subscriber did not receive the publish")
		}
	}

	select {
	case <-other.ch:
		t.Error("trades subscriber must not receive market-data publishes")
	default:
	}
}

func TestPublish_UnknownTopic(t *testing.T) {
	hub := NewHub(infra.NewMetrics())

	if err := hub.Publish("orders", "x"); err == nil {
		t.Error("expected error for unknown topic")
	}
}

func TestPublish_UnmarshalablePayload(t *testing.T) {
	hub := NewHub(infra.NewMetrics())

	if err := hub.Publish(domain.TopicTrades, make(chan int)); err == nil {
		t.Error("expected error for unserializable payload")
	}
}

func TestPublish_SlowSubscriberDropped(t *testing.T) {
	hub := NewHub(infra.NewMetrics())

	sub := hub.subscribe(domain.TopicTrades)
	defer hub.unsubscribe(sub)

	// Fill the queue past capacity; publishes must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer+10; i++ {
			hub.Publish(domain.TopicTrades, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	if len(sub.ch) != subscriberBuffer {
		t.Errorf("queue length = %d, want %d", len(sub.ch), subscriberBuffer)
	}
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	hub := NewHub(infra.NewMetrics())

	sub := hub.subscribe(domain.TopicYieldCurve)
	hub.unsubscribe(sub)
	hub.unsubscribe(sub) // must not panic or close twice

	if n := hub.Subscribers(domain.TopicYieldCurve); n != 0 {
		t.Errorf("Subscribers = %d, want 0", n)
	}
}

func TestServeTopic_EndToEnd(t *testing.T) {
	hub := NewHub(infra.NewMetrics())

	r := chi.NewRouter()
	r.Get("/ws/{topic}", hub.ServeTopic)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + domain.TopicMarketData
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Registration races the dial returning; wait for the hub to see it.
	deadline := time.Now().Add(time.Second)
	for hub.Subscribers(domain.TopicMarketData) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := hub.Publish(domain.TopicMarketData, map[string]int{"tick": 1}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	var got map[string]int
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if got["tick"] != 1 {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestServeTopic_UnknownTopic(t *testing.T) {
	hub := NewHub(infra.NewMetrics())

	r := chi.NewRouter()
	r.Get("/ws/{topic}", hub.ServeTopic)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/orders"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail for unknown topic")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Errorf("expected 404, got %v", resp)
	}
}
