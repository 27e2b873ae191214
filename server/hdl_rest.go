/******************************************************************************
 *
 *  Description :
 *
 *    REST endpoints. Thin decode/encode shims over the room core: the
 *    requester's identity arrives pre-verified in the X-Auth-User header
 *    (authentication happens upstream), handler errors map to status codes
 *    by class.
 *
 *****************************************************************************/

package main

import (
	"encoding/json"
	"net/http"

	"github.com/roomery/chat/server/logs"
)

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v0/rooms", serveCreateRoom)
	mux.HandleFunc("PUT /v0/rooms/{roomId}/members/{userId}", serveChangeMembership)
	mux.HandleFunc("GET /v0/rooms/{roomId}/members/{userId}", serveGetMember)
	mux.HandleFunc("PUT /v0/rooms/{roomId}/messages/{userId}/{msgId}", serveSendMessage)
	mux.HandleFunc("GET /v0/rooms/{roomId}/messages/{userId}/{msgId}", serveGetMessage)
	mux.HandleFunc("PUT /v0/rooms/{roomId}/topic", serveStoreTopic)
	mux.HandleFunc("GET /v0/rooms/{roomId}/topic", serveGetTopic)
	mux.HandleFunc("PUT /v0/rooms/{roomId}/data/{key}", serveStoreData)
	mux.HandleFunc("GET /v0/rooms/{roomId}/data/{key}", serveGetData)
	mux.HandleFunc("GET /v0/rooms/{roomId}/events", serveWebSocket)
}

// writeError maps a handler failure to a transport status by error class.
func writeError(wrt http.ResponseWriter, err error) {
	var status int
	switch err.(type) {
	case AuthorizationError:
		status = http.StatusForbidden
	case ConflictError:
		status = http.StatusConflict
	case InternalError:
		status = http.StatusInternalServerError
	default:
		// A store fault surfaced unmodified.
		status = http.StatusInternalServerError
	}
	writeJSON(wrt, status, map[string]interface{}{"error": err.Error()})
}

func writeJSON(wrt http.ResponseWriter, status int, body interface{}) {
	wrt.Header().Set("Content-Type", "application/json; charset=utf-8")
	wrt.WriteHeader(status)
	if err := json.NewEncoder(wrt).Encode(body); err != nil {
		logs.Warning.Println("http: failed to write response:", err)
	}
}

func decodeBody(req *http.Request, v interface{}) error {
	defer req.Body.Close()
	return json.NewDecoder(req.Body).Decode(v)
}

// authUser returns the upstream-verified identity of the requester, empty
// if the request is unauthenticated.
func authUser(req *http.Request) string {
	return req.Header.Get("X-Auth-User")
}

func serveCreateRoom(wrt http.ResponseWriter, req *http.Request) {
	var body struct {
		RoomId     string `json:"room_id"`
		Visibility string `json:"visibility"`
	}
	if err := decodeBody(req, &body); err != nil {
		writeJSON(wrt, http.StatusBadRequest, map[string]interface{}{"error": "malformed request body"})
		return
	}

	creator := authUser(req)
	if creator == "" {
		writeJSON(wrt, http.StatusForbidden, map[string]interface{}{"error": "creator identity required"})
		return
	}

	roomId, err := createRoom(creator, body.RoomId, &RoomConfig{Visibility: body.Visibility})
	if err != nil {
		writeError(wrt, err)
		return
	}
	writeJSON(wrt, http.StatusOK, map[string]interface{}{"room_id": roomId})
}

func serveChangeMembership(wrt http.ResponseWriter, req *http.Request) {
	var body struct {
		Membership string      `json:"membership"`
		Content    interface{} `json:"content"`
	}
	if err := decodeBody(req, &body); err != nil {
		writeJSON(wrt, http.StatusBadRequest, map[string]interface{}{"error": "malformed request body"})
		return
	}

	ev := &ClientEvent{
		Type:       EventTypeMember,
		RoomId:     req.PathValue("roomId"),
		UserId:     req.PathValue("userId"),
		AuthUserId: authUser(req),
		Membership: body.Membership,
		Content:    body.Content,
	}

	// Membership messages are injected unless explicitly disabled.
	broadcast := req.URL.Query().Get("broadcast") != "false"

	if err := changeMembership(ev, broadcast); err != nil {
		writeError(wrt, err)
		return
	}
	writeJSON(wrt, http.StatusOK, map[string]interface{}{"membership": body.Membership})
}

func serveGetMember(wrt http.ResponseWriter, req *http.Request) {
	member, err := getRoomMember(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     req.PathValue("roomId"),
		UserId:     req.PathValue("userId"),
		AuthUserId: authUser(req),
	})
	if err != nil {
		writeError(wrt, err)
		return
	}
	if member == nil {
		writeJSON(wrt, http.StatusNotFound, map[string]interface{}{"error": "member not found"})
		return
	}
	writeJSON(wrt, http.StatusOK, map[string]interface{}{
		"room_id":    member.RoomId,
		"user_id":    member.UserId,
		"membership": member.Membership.String(),
		"content":    member.Content,
	})
}

func serveSendMessage(wrt http.ResponseWriter, req *http.Request) {
	var content interface{}
	if err := decodeBody(req, &content); err != nil {
		writeJSON(wrt, http.StatusBadRequest, map[string]interface{}{"error": "malformed request body"})
		return
	}

	ev := &ClientEvent{
		Type:       EventTypeMessage,
		RoomId:     req.PathValue("roomId"),
		UserId:     req.PathValue("userId"),
		AuthUserId: authUser(req),
		MsgId:      req.PathValue("msgId"),
		Content:    content,
	}
	if err := sendMessage(ev); err != nil {
		writeError(wrt, err)
		return
	}
	writeJSON(wrt, http.StatusOK, map[string]interface{}{"msg_id": ev.MsgId})
}

func serveGetMessage(wrt http.ResponseWriter, req *http.Request) {
	msg, err := getMessage(&ClientEvent{
		Type:       EventTypeMessage,
		RoomId:     req.PathValue("roomId"),
		UserId:     req.PathValue("userId"),
		AuthUserId: authUser(req),
		MsgId:      req.PathValue("msgId"),
	})
	if err != nil {
		writeError(wrt, err)
		return
	}
	if msg == nil {
		writeJSON(wrt, http.StatusNotFound, map[string]interface{}{"error": "message not found"})
		return
	}
	writeJSON(wrt, http.StatusOK, map[string]interface{}{
		"room_id": msg.RoomId,
		"msg_id":  msg.MsgId,
		"from":    msg.From,
		"content": msg.Content,
		"ts":      msg.CreatedAt,
	})
}

// The room topic lives in path data under a fixed per-room path; topic
// reads are the one place where invited-but-not-joined members of private
// rooms are allowed in.
func topicPath(roomId string) string {
	return "/rooms/" + roomId + "/topic"
}

func dataPath(roomId, key string) string {
	return "/rooms/" + roomId + "/data/" + key
}

func serveStoreTopic(wrt http.ResponseWriter, req *http.Request) {
	storePathDataRequest(wrt, req, EventTypeTopic, topicPath(req.PathValue("roomId")))
}

func serveGetTopic(wrt http.ResponseWriter, req *http.Request) {
	getPathDataRequest(wrt, req, EventTypeTopic, topicPath(req.PathValue("roomId")))
}

func serveStoreData(wrt http.ResponseWriter, req *http.Request) {
	storePathDataRequest(wrt, req, "",
		dataPath(req.PathValue("roomId"), req.PathValue("key")))
}

func serveGetData(wrt http.ResponseWriter, req *http.Request) {
	getPathDataRequest(wrt, req, "",
		dataPath(req.PathValue("roomId"), req.PathValue("key")))
}

func storePathDataRequest(wrt http.ResponseWriter, req *http.Request, evType, path string) {
	var content interface{}
	if err := decodeBody(req, &content); err != nil {
		writeJSON(wrt, http.StatusBadRequest, map[string]interface{}{"error": "malformed request body"})
		return
	}

	ev := &ClientEvent{
		Type:       evType,
		RoomId:     req.PathValue("roomId"),
		AuthUserId: authUser(req),
		Content:    content,
	}
	if err := storeRoomPathData(ev, path); err != nil {
		writeError(wrt, err)
		return
	}
	writeJSON(wrt, http.StatusOK, map[string]interface{}{})
}

func getPathDataRequest(wrt http.ResponseWriter, req *http.Request, evType, path string) {
	pd, err := getPathData(&ClientEvent{
		Type:       evType,
		RoomId:     req.PathValue("roomId"),
		AuthUserId: authUser(req),
	}, path, nil, nil)
	if err != nil {
		writeError(wrt, err)
		return
	}
	if pd == nil {
		writeJSON(wrt, http.StatusNotFound, map[string]interface{}{"error": "no data at path"})
		return
	}
	writeJSON(wrt, http.StatusOK, map[string]interface{}{"content": pd.Content})
}
