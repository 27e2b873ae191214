// Package adapter contains the interface to be implemented by the database adapter
package adapter

import (
	"encoding/json"

	t "github.com/roomery/chat/server/store/types"
)

// Adapter is the interface implemented by a database adapter. The schema
// supports a single connection per database type.
//
// Lookups return (nil, nil) when the object does not exist: absence is a
// valid result, not an error. Any non-nil error is a store fault.
type Adapter interface {
	// Open opens the database connection.
	Open(jsonconf json.RawMessage) error
	// Close closes the database connection.
	Close() error
	// IsOpen checks if the adapter is ready for use.
	IsOpen() bool
	// GetName returns the name of the adapter.
	GetName() string
	// CreateDb creates the database schema. If reset is true it drops an
	// existing database first.
	CreateDb(reset bool) error
	// CheckDbVersion checks if the database schema version matches the
	// version expected by the adapter.
	CheckDbVersion() error

	// RoomCreate inserts a new room. Returns types.ErrDuplicate if a room
	// with the same id already exists; the uniqueness check and the insert
	// are a single atomic operation.
	RoomCreate(room *t.Room) error
	// RoomGet loads a single room by id.
	RoomGet(roomId string) (*t.Room, error)

	// MemberGet reads the current membership record of a user in a room.
	MemberGet(roomId, userId string) (*t.Member, error)
	// MemberUpsert writes a membership record, overwriting any previous
	// record for the same (room, user) pair.
	MemberUpsert(member *t.Member) error

	// MessageSave stores a new message.
	MessageSave(msg *t.Message) error
	// MessageGet loads a single message by room, sender and message id.
	MessageGet(roomId, userId, msgId string) (*t.Message, error)

	// PathDataGet reads room data stored under the given path.
	PathDataGet(path string) (*t.PathData, error)
	// PathDataUpsert writes room data under a path, overwriting wholesale.
	PathDataUpsert(pd *t.PathData) error
}
