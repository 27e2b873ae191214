/******************************************************************************
 *
 *  Description :
 *
 *    Room creation with id uniqueness.
 *
 *****************************************************************************/

package main

import (
	"github.com/roomery/chat/server/logs"
	"github.com/roomery/chat/server/store"
	t "github.com/roomery/chat/server/store/types"
)

// RoomConfig carries room creation options.
type RoomConfig struct {
	// "public" makes the room readable under the public rule set; any
	// other value creates a private room.
	Visibility string `json:"visibility"`
}

// createRoom allocates a new room and returns its id. If proposedId is
// empty the server picks one. The store enforces id uniqueness atomically
// with the insert: a duplicate id yields a ConflictError and any other
// store fault an InternalError; the room id is never partially visible on
// failure.
func createRoom(creatorId, proposedId string, config *RoomConfig) (string, error) {
	isPublic := config != nil && config.Visibility == "public"

	newId, err := store.Rooms.Create(creatorId, proposedId, isPublic)
	if err == t.ErrDuplicate {
		return "", errRoomIdInUse
	}
	if err != nil {
		logs.Error.Println("room: create failed:", err)
		return "", errCreateRoomFailed
	}

	statsInc("RoomsCreatedTotal", 1)
	return newId, nil
}
