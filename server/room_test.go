package main

import (
	"errors"
	"testing"

	"github.com/roomery/chat/server/store/types"
)

func TestCreateRoomGeneratedId(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Create("@alice", "", false).Return("!generated", nil)

	id, err := createRoom("@alice", "", nil)
	if err != nil {
		t.Fatal("create should succeed:", err)
	}
	if id != "!generated" {
		t.Error("unexpected room id:", id)
	}
}

func TestCreateRoomPublic(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Create("@alice", "!lobby", true).Return("!lobby", nil)

	id, err := createRoom("@alice", "!lobby", &RoomConfig{Visibility: "public"})
	if err != nil {
		t.Fatal("create should succeed:", err)
	}
	if id != "!lobby" {
		t.Error("unexpected room id:", id)
	}
}

func TestCreateRoomPrivateByDefault(t *testing.T) {
	m := installStoreMocks(t)

	// Any visibility other than "public" creates a private room.
	m.rooms.EXPECT().Create("@alice", "!den", false).Return("!den", nil)

	if _, err := createRoom("@alice", "!den", &RoomConfig{Visibility: "secret"}); err != nil {
		t.Fatal("create should succeed:", err)
	}
}

func TestCreateRoomDuplicateId(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Create("@alice", "!lobby", false).Return("", types.ErrDuplicate)

	_, err := createRoom("@alice", "!lobby", nil)
	if err != errRoomIdInUse {
		t.Fatal("expected errRoomIdInUse, got:", err)
	}
	if _, ok := err.(ConflictError); !ok {
		t.Error("a duplicate id must surface as a conflict, got:", err)
	}
}

func TestCreateRoomStoreFault(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Create("@alice", "", false).Return("", errors.New("connection reset"))

	_, err := createRoom("@alice", "", nil)
	if err != errCreateRoomFailed {
		t.Fatal("expected errCreateRoomFailed, got:", err)
	}
	if _, ok := err.(InternalError); !ok {
		t.Error("a store fault must surface as internal, got:", err)
	}
}
