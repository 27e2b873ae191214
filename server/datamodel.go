/******************************************************************************
 *
 *  Description :
 *
 *    Wire structures consumed and produced by the room core.
 *
 *****************************************************************************/

package main

import (
	"time"

	t "github.com/roomery/chat/server/store/types"
)

// Event types routed through the room core.
const (
	// A room message.
	EventTypeMessage = "room.message"
	// A membership change: invite, join, leave.
	EventTypeMember = "room.member"
	// The room topic, stored as path data.
	EventTypeTopic = "room.topic"
)

// Reserved id of the pseudo-user which authors membership notifications.
// Real user ids never start with an underscore.
const systemUserId = "_sys_"

// ClientEvent is an inbound room operation. The transport layer decodes the
// request and verifies the requester's identity before constructing one.
type ClientEvent struct {
	// One of the EventType constants.
	Type string `json:"type"`
	// Id of the room the operation applies to.
	RoomId string `json:"room_id"`
	// The user acted upon: message author, membership target.
	UserId string `json:"user_id"`
	// Verified identity of the requester. Empty means the operation is
	// system-originated and bypasses authorization.
	AuthUserId string `json:"auth_user_id,omitempty"`
	// Requested membership state for room.member events.
	Membership string `json:"membership,omitempty"`
	// Client-assigned message id for room.message events.
	MsgId string `json:"msg_id,omitempty"`
	// Opaque application-defined payload.
	Content interface{} `json:"content,omitempty"`
}

// ServerEvent is an outbound room event delivered to attached sessions.
type ServerEvent struct {
	Type      string      `json:"type"`
	RoomId    string      `json:"room_id"`
	UserId    string      `json:"user_id"`
	MsgId     string      `json:"msg_id,omitempty"`
	Content   interface{} `json:"content,omitempty"`
	Timestamp time.Time   `json:"ts"`
}

// messageEvent converts a stored message to its outbound representation.
func messageEvent(roomId, from, msgId string, content interface{}) *ServerEvent {
	return &ServerEvent{
		Type:      EventTypeMessage,
		RoomId:    roomId,
		UserId:    from,
		MsgId:     msgId,
		Content:   content,
		Timestamp: t.TimeNow(),
	}
}
