package sync

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/logger"
)

const signalBuffer = 32

// Subscriber is one websocket subscription to the broadcast channel. It
// surfaces every hub-stamped signal on Signals and lets the owner publish
// its own signals after successful mutations.
type Subscriber struct {
	conn    *websocket.Conn
	signals chan api.Signal

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the broadcast channel. requestHeader carries auth
// cookies.
func Dial(ctx context.Context, url string, requestHeader http.Header) (*Subscriber, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, requestHeader)
	if err != nil {
		return nil, err
	}

	s := &Subscriber{
		conn:    conn,
		signals: make(chan api.Signal, signalBuffer),
		done:    make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// Signals delivers incoming signals until the connection drops; the
// channel is closed afterwards.
func (s *Subscriber) Signals() <-chan api.Signal {
	return s.signals
}

// Publish sends a signal to the hub, which relays it to every subscriber
// including this one.
func (s *Subscriber) Publish(signal api.Signal) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(signal)
}

func (s *Subscriber) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *Subscriber) readLoop() {
	defer close(s.signals)
	for {
		var signal api.Signal
		if err := s.conn.ReadJSON(&signal); err != nil {
			select {
			case <-s.done:
			default:
				logger.Log.Warn("broadcast subscription dropped", "error", err)
			}
			return
		}
		if !api.ValidSignalKind(signal.Kind) {
			continue
		}
		select {
		case s.signals <- signal:
		case <-s.done:
			return
		}
	}
}
