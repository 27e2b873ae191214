/******************************************************************************
 *
 *  Description :
 *
 *    Membership state machine: validates and persists invite/join/leave
 *    transitions and injects membership notifications into the room.
 *
 *****************************************************************************/

package main

import (
	"fmt"
	"time"

	"github.com/roomery/chat/server/logs"
	"github.com/roomery/chat/server/store"
	t "github.com/roomery/chat/server/store/types"
)

// changeMembership validates and persists a membership transition. The
// caller is ev.AuthUserId, the target is ev.UserId. If broadcast is true a
// system message describing the change is injected into the room after the
// membership write commits.
//
// There is no lock around the read-decide-write sequence: two concurrent
// transitions for the same (room, user) may both pass validation and the
// later write wins. Accepted behavior, matching per-call store atomicity.
func changeMembership(ev *ClientEvent, broadcast bool) error {
	room, err := store.Rooms.Get(ev.RoomId)
	if err != nil {
		return err
	}
	if room == nil {
		return errRoomNotFound
	}

	// Caller's and target's current states are read independently. A nil
	// record is the valid "no membership" state; a store fault is not and
	// propagates.
	callerState, err := membershipState(ev.RoomId, ev.AuthUserId)
	if err != nil {
		return err
	}
	targetState, err := membershipState(ev.RoomId, ev.UserId)
	if err != nil {
		return err
	}

	requested := t.ParseMembership(ev.Membership)
	switch requested {
	case t.MembershipInvite:
		// Invites are valid iff the caller is joined and the target isn't.
		if callerState != t.MembershipJoin || targetState == t.MembershipJoin {
			return errCannotInvite
		}
	case t.MembershipJoin:
		// Joins are valid iff caller == target and the caller was either
		// invited (accepting the invitation) or already joined (a no-op
		// re-join). Joining with no prior record, or from leave, is denied.
		if ev.AuthUserId != ev.UserId ||
			(callerState != t.MembershipInvite && callerState != t.MembershipJoin) {
			return errCannotJoin
		}
	case t.MembershipLeave:
		// Leaving a room you aren't joined to, or forcing another user
		// out, is denied.
		if callerState != t.MembershipJoin || ev.UserId != ev.AuthUserId {
			return errCannotLeave
		}
	default:
		// Knock is storable but not yet requestable.
		return errUnknownMembership
	}

	if err := store.Members.Upsert(ev.RoomId, ev.UserId, requested, ev.Content); err != nil {
		return err
	}
	statsInc("MembershipChangesTotal", 1)

	if broadcast {
		// The membership write is already committed; a notification
		// failure is reported to the caller but never rolled back.
		return notifyMembershipChange(ev.RoomId, ev.AuthUserId, ev.UserId, requested)
	}

	return nil
}

// getRoomMember retrieves the target's membership record. Requesters must
// be joined to the room; system calls (no AuthUserId) skip the check.
// Returns (nil, nil) if the target has no record.
func getRoomMember(ev *ClientEvent) (*t.Member, error) {
	if ev.AuthUserId != "" {
		if err := requireJoined(ev.RoomId, ev.AuthUserId); err != nil {
			return nil, err
		}
	}

	return store.Members.Get(ev.RoomId, ev.UserId)
}

// membershipState resolves a user's current state in a room. No record
// resolves to None.
func membershipState(roomId, userId string) (t.Membership, error) {
	member, err := store.Members.Get(roomId, userId)
	if err != nil {
		return t.MembershipNone, err
	}
	if member == nil {
		return t.MembershipNone, nil
	}
	return member.Membership, nil
}

// requireJoined returns nil if the user is currently joined to the room.
// Store faults propagate unmodified.
func requireJoined(roomId, userId string) error {
	state, err := membershipState(roomId, userId)
	if err != nil {
		return err
	}
	if state != t.MembershipJoin {
		return errNotJoined
	}
	return nil
}

// notifyMembershipChange injects a system-authored message describing a
// committed membership change. The message id is derived from wall-clock
// time; collisions within one second are accepted.
func notifyMembershipChange(roomId, source, target string, membership t.Membership) error {
	var body string
	switch membership {
	case t.MembershipInvite:
		body = fmt.Sprintf("%s invited %s to the room.", source, target)
	case t.MembershipJoin:
		body = fmt.Sprintf("%s joined the room.", target)
	case t.MembershipLeave:
		body = fmt.Sprintf("%s left the room.", target)
	default:
		return errUnknownMembership
	}

	err := sendMessage(&ClientEvent{
		Type:   EventTypeMessage,
		RoomId: roomId,
		UserId: systemUserId,
		MsgId:  fmt.Sprintf("m%d", time.Now().Unix()),
		Content: map[string]interface{}{
			"msgtype": "text",
			"body":    body,
		},
	})
	if err != nil {
		logs.Warning.Println("member: failed to inject membership message:", err)
	}
	return err
}
