// Package types defines the objects persisted by the store: rooms,
// memberships, messages and path-addressed room data.
package types

import (
	"time"
)

// StoreError satisfies the error interface but allows constant values for
// direct comparison.
type StoreError string

func (s StoreError) Error() string {
	return string(s)
}

const (
	// ErrDuplicate: the object already exists (unique key violation).
	ErrDuplicate = StoreError("duplicate object")
	// ErrNotInitialized: the adapter has not been opened yet.
	ErrNotInitialized = StoreError("store not initialized")
	// ErrUnsupported: the adapter does not implement the operation.
	ErrUnsupported = StoreError("operation not supported")
	// ErrMalformed: the object cannot be persisted as given.
	ErrMalformed = StoreError("malformed object")
)

// Membership is a user's relationship to a room. The zero value None means
// "no membership record", which is a valid state distinct from any stored
// value and from a lookup failure.
type Membership int

const (
	// MembershipNone: no record exists for the (room, user) pair.
	MembershipNone Membership = iota
	// MembershipInvite: the user has been invited but has not joined.
	MembershipInvite
	// MembershipJoin: the user is in the room.
	MembershipJoin
	// MembershipKnock: the user has requested to join.
	MembershipKnock
	// MembershipLeave: the user has left (or was never re-admitted).
	MembershipLeave
)

var membershipNames = []string{"", "invite", "join", "knock", "leave"}

func (m Membership) String() string {
	if m < MembershipNone || m > MembershipLeave {
		return "unknown"
	}
	return membershipNames[m]
}

// IsValid returns true for the four storable states. None is not storable.
func (m Membership) IsValid() bool {
	return m >= MembershipInvite && m <= MembershipLeave
}

// ParseMembership converts a wire/db string to a Membership. Unrecognized
// input, including the empty string, parses as None.
func ParseMembership(s string) Membership {
	for i, name := range membershipNames[1:] {
		if s == name {
			return Membership(i + 1)
		}
	}
	return MembershipNone
}

// MarshalText is used when a membership value is embedded in JSON or
// stored as a string column.
func (m Membership) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, ErrMalformed
	}
	return []byte(membershipNames[m]), nil
}

func (m *Membership) UnmarshalText(b []byte) error {
	*m = ParseMembership(string(b))
	return nil
}

// TimeNow returns current wall time in UTC rounded to milliseconds.
func TimeNow() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}

// Room is a shared communication room. Rooms are created once and are
// immutable afterwards: Public and CreatedBy never change.
type Room struct {
	// Globally unique id; generated ids are prefixed with '!'.
	Id string
	// True if the room is readable under the public rule set.
	Public bool
	// User who created the room.
	CreatedBy string
	CreatedAt time.Time
}

// Member is the latest membership record of a user in a room. One logical
// record exists per (RoomId, UserId) pair; writes overwrite wholesale.
type Member struct {
	RoomId string
	UserId string
	// Current membership state, INVITE/JOIN/KNOCK/LEAVE when stored.
	Membership Membership
	// Opaque payload supplied with the membership change.
	Content   interface{}
	UpdatedAt time.Time
}

// Message is a single room message. Messages are immutable: never updated
// or deleted by the server.
type Message struct {
	RoomId string
	// Client-assigned message id; system messages derive it from time.
	MsgId string
	// Id of the user who sent the message.
	From string
	// Opaque application-defined payload.
	Content   interface{}
	CreatedAt time.Time
}

// PathData is an opaque blob attached to a room under an application
// defined path, e.g. the room topic. Overwritten wholesale on each write.
type PathData struct {
	RoomId    string
	Path      string
	Content   interface{}
	UpdatedAt time.Time
}
