/******************************************************************************
 *
 *  Description :
 *
 *    Handler of websocket connections: one session per connection, attached
 *    to a single room's event feed.
 *
 *****************************************************************************/

package main

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roomery/chat/server/logs"
	"github.com/roomery/chat/server/store"
)

const (
	// Time allowed to write an event to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 55 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Outbound event queue size per session.
	sendQueueLen = 128
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Session is a single websocket connection attached to one room.
type Session struct {
	sid    string
	ws     *websocket.Conn
	roomId string
	userId string
	send   chan *ServerEvent
}

// queueOut hands an event to the session's write loop. Events to a slow
// session are dropped rather than blocking the hub.
func (sess *Session) queueOut(ev *ServerEvent) {
	select {
	case sess.send <- ev:
	default:
		logs.Warning.Println("ws: outbound queue full, event dropped; sid", sess.sid)
	}
}

func (sess *Session) readLoop() {
	defer func() {
		sess.ws.Close()
		// send is left open: the hub may still route to this session
		// until the detach request is processed.
		globals.hub.unreg <- &sessionReg{roomId: sess.roomId, sess: sess}
		statsInc("SessionsLive", -1)
		logs.Info.Println("ws: session closed; sid", sess.sid)
	}()

	sess.ws.SetReadLimit(1 << 12)
	sess.ws.SetReadDeadline(time.Now().Add(pongWait))
	sess.ws.SetPongHandler(func(string) error {
		sess.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// The feed is one-way; inbound frames only reset the liveness
		// deadline.
		if _, _, err := sess.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (sess *Session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sess.ws.Close() // break readLoop
	}()

	for {
		select {
		case ev := <-sess.send:
			sess.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.ws.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			sess.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// serveWebSocket attaches a client to a room's event feed. Private rooms
// require the requester to be joined; public rooms are open, matching the
// empty public rule set for path-data reads.
func serveWebSocket(wrt http.ResponseWriter, req *http.Request) {
	roomId := req.PathValue("roomId")
	authUserId := req.Header.Get("X-Auth-User")

	room, err := store.Rooms.Get(roomId)
	if err != nil {
		writeError(wrt, err)
		return
	}
	if room == nil {
		writeError(wrt, errRoomNotFound)
		return
	}
	if !room.Public {
		if authUserId == "" {
			writeError(wrt, errNotJoined)
			return
		}
		if err := requireJoined(roomId, authUserId); err != nil {
			writeError(wrt, err)
			return
		}
	}

	ws, err := upgrader.Upgrade(wrt, req, nil)
	if err != nil {
		logs.Warning.Println("ws: failed to upgrade:", err)
		return
	}

	sess := &Session{
		sid:    randomToken(),
		ws:     ws,
		roomId: roomId,
		userId: authUserId,
		send:   make(chan *ServerEvent, sendQueueLen),
	}

	globals.hub.reg <- &sessionReg{roomId: roomId, sess: sess}
	statsInc("SessionsLive", 1)
	statsInc("SessionsTotal", 1)
	logs.Info.Println("ws: session started; sid", sess.sid, "room", roomId)

	go sess.writeLoop()
	go sess.readLoop()
}

func randomToken() string {
	buf := make([]byte, 9)
	rand.Read(buf)
	return base64.URLEncoding.EncodeToString(buf)
}
