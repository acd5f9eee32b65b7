package console

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event tells sibling pages that an underlying collection changed and a
// refetch is due.
type Event struct {
	Topic      string    `json:"topic"`
	Collection string    `json:"collection,omitempty"`
	ItemID     string    `json:"item_id,omitempty"`
	Action     string    `json:"action,omitempty"`
	At         time.Time `json:"at"`
}

// Notifier publishes collection-changed events. Broadcast is the in-process
// implementation; external transports can forward to it.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
}

type subscription struct {
	topic string
	ch    chan Event
}

// Broadcast is a topic-keyed in-process publish/subscribe registry. Pages
// publish after a successful mutation; sibling pages subscribe on mount and
// cancel on unmount, so no listener outlives its component.
type Broadcast struct {
	mu   sync.RWMutex
	subs map[int]subscription
	next int
}

// NewBroadcast creates an empty registry.
func NewBroadcast() *Broadcast {
	return &Broadcast{subs: make(map[int]subscription)}
}

// Publish fans the event out to every subscriber of its topic. Slow
// subscribers are skipped rather than blocking the publisher.
func (b *Broadcast) Publish(_ context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if sub.topic != "" && sub.topic != event.Topic {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of events for the topic ("" subscribes to all
// topics) and a cancel func. Cancel is idempotent; after it returns the
// channel is closed and the subscription removed.
func (b *Broadcast) Subscribe(topic string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, 8)
	b.subs[id] = subscription{topic: topic, ch: ch}
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub.ch)
		}
	}
	return ch, cancel
}

// SubscriberCount reports live subscriptions, optionally narrowed to a topic.
func (b *Broadcast) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if topic == "" {
		return len(b.subs)
	}
	count := 0
	for _, sub := range b.subs {
		if sub.topic == topic || sub.topic == "" {
			count++
		}
	}
	return count
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams events as JSON. The
// optional "topic" query parameter narrows the stream.
func (b *Broadcast) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer conn.Close()

	events, cancel := b.Subscribe(r.URL.Query().Get("topic"))
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE provides a Server-Sent Events endpoint for collection events.
func (b *Broadcast) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := b.Subscribe(r.URL.Query().Get("topic"))
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.Write([]byte("data: "))
			if err := encoder.Encode(event); err != nil {
				return
			}
			w.Write([]byte("\n"))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
