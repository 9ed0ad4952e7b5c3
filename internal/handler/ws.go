package handler

import (
	"io"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"

	"github.com/jwkim/studyroom-seat-reservation/internal/fanout"
	"github.com/jwkim/studyroom-seat-reservation/internal/store"
)

// WSHandler upgrades GET /ws into the push channel.  Each connection
// registers a presence record and receives every broadcast until it
// disconnects or the reaper sweeps it.
type WSHandler struct {
	Store *store.Store
	Hub   *fanout.Hub
}

// NewWSHandler constructs a WSHandler.
func NewWSHandler(st *store.Store, hub *fanout.Hub) *WSHandler {
	if st == nil || hub == nil {
		panic("nil dependency passed to NewWSHandler")
	}
	return &WSHandler{Store: st, Hub: hub}
}

// clientFrame is what push clients send upstream.  "hello" announces
// the display name and requests the initial state, "heartbeat" keeps
// the presence record fresh, "rename" updates the display name.
type clientFrame struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// Serve handles the websocket lifecycle for one connection.
func (h *WSHandler) Serve(c echo.Context) error {
	websocket.Handler(func(conn *websocket.Conn) {
		defer conn.Close()

		id := uuid.NewString()
		obs := fanout.NewPushObserver(conn)
		go obs.Run()
		defer obs.Close()

		h.Hub.Register(id, "anonymous", obs)
		defer h.Hub.Unregister(id)

		h.sendInitialState(obs)

		for {
			var frame clientFrame
			if err := websocket.JSON.Receive(conn, &frame); err != nil {
				if err != io.EOF {
					c.Logger().Debugf("ws %s: receive: %v", id, err)
				}
				return
			}
			switch frame.Type {
			case "hello":
				if frame.Name != "" {
					h.Hub.Rename(id, frame.Name)
				}
				h.Hub.Heartbeat(id)
				h.sendInitialState(obs)
			case "heartbeat":
				h.Hub.Heartbeat(id)
			case "rename":
				if frame.Name != "" {
					h.Hub.Rename(id, frame.Name)
				}
			}
		}
	}).ServeHTTP(c.Response(), c.Request())
	return nil
}

// sendInitialState pushes the current occupancy, session, maintenance
// flag and observer count to one connection so a newly connected
// client renders without waiting for the next mutation.
func (h *WSHandler) sendInitialState(obs fanout.Observer) {
	v := h.Store.Snapshot()
	obs.Notify(fanout.Event{Type: fanout.OccupancyChanged, Payload: fanout.OccupancyPayload{
		Session:      v.Session,
		Reservations: v.Seats,
		NextReset:    v.NextReset,
	}})
	obs.Notify(fanout.Event{Type: fanout.SessionChanged, Payload: fanout.SessionPayload{
		Session:   v.Session,
		NextReset: v.NextReset,
	}})
	obs.Notify(fanout.Event{Type: fanout.MaintenanceChanged, Payload: fanout.MaintenancePayload{
		Enabled: h.Store.Maintenance(),
	}})
	obs.Notify(fanout.Event{Type: fanout.PresenceCountChanged, Payload: fanout.PresencePayload{
		Count: h.Hub.Count(),
	}})
}
