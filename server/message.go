/******************************************************************************
 *
 *  Description :
 *
 *    Read/write authorization gate for messages and path-addressed room
 *    data, based on current membership and room visibility.
 *
 *****************************************************************************/

package main

import (
	"github.com/roomery/chat/server/store"
	t "github.com/roomery/chat/server/store/types"
)

// getMessage retrieves a single message sent by ev.UserId. Requesters must
// be joined to the room; system calls (no AuthUserId) skip the check.
// Returns (nil, nil) if no such message exists.
func getMessage(ev *ClientEvent) (*t.Message, error) {
	if ev.AuthUserId != "" {
		if err := requireJoined(ev.RoomId, ev.AuthUserId); err != nil {
			return nil, err
		}
	}

	return store.Messages.Get(ev.RoomId, ev.UserId, ev.MsgId)
}

// sendMessage stores a message authored by ev.UserId. Authenticated
// requesters must send under their own id and be joined to the room. When
// AuthUserId is empty the call is system-originated and bypasses both
// checks; that path is used by the membership notifier.
func sendMessage(ev *ClientEvent) error {
	if ev.AuthUserId != "" {
		if ev.UserId != ev.AuthUserId {
			return errSendAsSelf
		}
		if err := requireJoined(ev.RoomId, ev.AuthUserId); err != nil {
			return err
		}
	}

	if err := store.Messages.Save(ev.RoomId, ev.UserId, ev.MsgId, ev.Content); err != nil {
		return err
	}
	statsInc("MessagesTotal", 1)

	// Best-effort live delivery; persistence has already succeeded.
	globals.hub.routeEvent(messageEvent(ev.RoomId, ev.UserId, ev.MsgId, ev.Content))

	return nil
}

// getPathData reads room data stored under a path, gated by the requester's
// membership state and the room's visibility.
//
// publicRules and privateRules list the membership states allowed to read
// in a public or private room respectively; an empty set means any state,
// including unauthenticated. Passing nil selects the defaults: any state
// for public rooms, joined members for private rooms. For topic events the
// private rule set becomes {invite, join} for that call only; the defaults
// are rebuilt per call and never mutated.
func getPathData(ev *ClientEvent, path string, publicRules, privateRules []t.Membership) (*t.PathData, error) {
	if privateRules == nil {
		privateRules = []t.Membership{t.MembershipJoin}
	}
	if ev.Type == EventTypeTopic {
		// Anyone invited or joined can read the topic.
		privateRules = []t.Membership{t.MembershipInvite, t.MembershipJoin}
	}

	room, err := store.Rooms.Get(ev.RoomId)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, errRoomNotFound
	}

	// An unauthenticated requester, or one with no record, reads as the
	// None state and is still checked against the applicable rule set.
	state := t.MembershipNone
	if ev.AuthUserId != "" {
		if state, err = membershipState(ev.RoomId, ev.AuthUserId); err != nil {
			return nil, err
		}
	}

	if room.Public && len(publicRules) > 0 {
		if !membershipIn(state, publicRules) {
			return nil, errPublicRules
		}
	} else if !room.Public && len(privateRules) > 0 {
		if !membershipIn(state, privateRules) {
			return nil, errPrivateRules
		}
	}

	return store.PathData.Get(path)
}

// storeRoomPathData writes room data under a path. Authenticated requesters
// must be joined; system writes are allowed, mirroring the message path.
func storeRoomPathData(ev *ClientEvent, path string) error {
	if ev.AuthUserId != "" {
		if err := requireJoined(ev.RoomId, ev.AuthUserId); err != nil {
			return err
		}
	}

	return store.PathData.Upsert(ev.RoomId, path, ev.Content)
}

func membershipIn(state t.Membership, rules []t.Membership) bool {
	for _, r := range rules {
		if state == r {
			return true
		}
	}
	return false
}
