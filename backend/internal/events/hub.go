// Package events implements the broadcast channel: a process-wide hub that
// fans invalidation signals out to every connected subscriber, including
// the one that published. Delivery is best-effort; nothing is persisted or
// replayed, a subscriber that missed a signal simply reconciles on its
// next refetch.
package events

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/plankhq/plank/shared/api"
)

var (
	subscribersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "plank_events_subscribers",
		Help: "Number of connected websocket subscribers",
	})

	signalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plank_events_signals_total",
		Help: "Total number of signals published to the hub",
	}, []string{"kind"})

	droppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plank_events_dropped_total",
		Help: "Signals dropped because a subscriber's buffer was full",
	})
)

// subscriberBuffer bounds how far a slow subscriber may fall behind
// before deliveries to it are dropped.
const subscriberBuffer = 32

type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan api.Signal]struct{}
	seq         atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan api.Signal]struct{}),
	}
}

// Subscribe registers a new subscriber and returns its delivery channel.
// The channel is closed by Unsubscribe, never by the hub on its own.
func (h *Hub) Subscribe() chan api.Signal {
	ch := make(chan api.Signal, subscriberBuffer)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	subscribersGauge.Inc()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (h *Hub) Unsubscribe(ch chan api.Signal) {
	h.mu.Lock()
	_, ok := h.subscribers[ch]
	if ok {
		delete(h.subscribers, ch)
	}
	h.mu.Unlock()
	if ok {
		close(ch)
		subscribersGauge.Dec()
	}
}

// Publish stamps the signal with the next sequence number and fans it out
// to every subscriber, the publisher included. A subscriber whose buffer
// is full loses this delivery instead of blocking the hub.
func (h *Hub) Publish(signal api.Signal) api.Signal {
	signal.Seq = h.seq.Add(1)
	signalsTotal.WithLabelValues(signal.Kind).Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers {
		select {
		case ch <- signal:
		default:
			droppedTotal.Inc()
		}
	}
	return signal
}

// SubscriberCount reports the number of registered subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
