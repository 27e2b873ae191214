/******************************************************************************
 *
 *  Description :
 *
 *    The hub fans stored room events out to attached sessions. Delivery is
 *    best-effort and plays no part in authorization or persistence: events
 *    reach the hub only after the store write has committed.
 *
 *****************************************************************************/

package main

import (
	"github.com/roomery/chat/server/logs"
)

type sessionReg struct {
	roomId string
	sess   *Session
}

// Hub is the router of room events to attached sessions.
type Hub struct {
	// Events to be fanned out, already persisted.
	route chan *ServerEvent
	// Session attach requests.
	reg chan *sessionReg
	// Session detach requests.
	unreg chan *sessionReg
	// Attached sessions keyed by room id. Accessed from the run loop only.
	rooms map[string]map[*Session]bool
}

func newHub() *Hub {
	h := &Hub{
		route: make(chan *ServerEvent, 4096),
		reg:   make(chan *sessionReg, 64),
		unreg: make(chan *sessionReg, 64),
		rooms: make(map[string]map[*Session]bool),
	}

	go h.run()

	return h
}

func (h *Hub) run() {
	for {
		select {
		case r := <-h.reg:
			sessions := h.rooms[r.roomId]
			if sessions == nil {
				sessions = make(map[*Session]bool)
				h.rooms[r.roomId] = sessions
			}
			sessions[r.sess] = true

		case r := <-h.unreg:
			if sessions := h.rooms[r.roomId]; sessions != nil {
				delete(sessions, r.sess)
				if len(sessions) == 0 {
					delete(h.rooms, r.roomId)
				}
			}

		case ev := <-h.route:
			for sess := range h.rooms[ev.RoomId] {
				sess.queueOut(ev)
			}
		}
	}
}

// routeEvent queues an event for fan-out. The event is dropped if the hub
// is saturated; the session will catch up from the store on reconnect.
// Safe to call on a nil hub (store-only deployments and tests).
func (h *Hub) routeEvent(ev *ServerEvent) {
	if h == nil {
		return
	}
	select {
	case h.route <- ev:
	default:
		statsInc("EventsDroppedTotal", 1)
		logs.Warning.Println("hub: event dropped, fan-out queue full; room", ev.RoomId)
	}
}
