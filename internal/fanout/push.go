package fanout

import (
	"log"
	"sync"

	"golang.org/x/net/websocket"
)

// PushObserver delivers events over a persistent websocket
// connection.  Events are queued on a bounded channel drained by a
// single writer goroutine; when the client cannot keep up, new events
// are dropped rather than blocking the broadcaster.  The client is
// expected to recover via its next occupancy snapshot.
type PushObserver struct {
	conn *websocket.Conn
	out  chan Event
	once sync.Once
	done chan struct{}
}

// NewPushObserver wraps an accepted websocket connection.  Run must
// be started for events to flow.
func NewPushObserver(conn *websocket.Conn) *PushObserver {
	return &PushObserver{
		conn: conn,
		out:  make(chan Event, 16),
		done: make(chan struct{}),
	}
}

// Notify queues an event for the write loop.  Full queue drops.
func (o *PushObserver) Notify(ev Event) {
	select {
	case o.out <- ev:
	case <-o.done:
	default:
		log.Printf("fanout: push queue full, dropping %s", ev.Type)
	}
}

// Run writes queued events as JSON frames until the queue closes or a
// write fails.  It is the connection's only writer.
func (o *PushObserver) Run() {
	for {
		select {
		case ev := <-o.out:
			if err := websocket.JSON.Send(o.conn, ev); err != nil {
				return
			}
		case <-o.done:
			return
		}
	}
}

// Close stops the write loop.  Safe to call more than once.
func (o *PushObserver) Close() {
	o.once.Do(func() { close(o.done) })
}
