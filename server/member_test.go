package main

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"

	"github.com/roomery/chat/server/store"
	"github.com/roomery/chat/server/store/mock_store"
	"github.com/roomery/chat/server/store/types"
)

type storeMocks struct {
	rooms    *mock_store.MockRoomsObjMapperInterface
	members  *mock_store.MockMembersObjMapperInterface
	messages *mock_store.MockMessagesObjMapperInterface
	pathData *mock_store.MockPathDataObjMapperInterface
}

// installStoreMocks replaces the store object mappers with mocks for the
// duration of a test and restores the real ones on cleanup.
func installStoreMocks(t *testing.T) *storeMocks {
	ctrl := gomock.NewController(t)
	m := &storeMocks{
		rooms:    mock_store.NewMockRoomsObjMapperInterface(ctrl),
		members:  mock_store.NewMockMembersObjMapperInterface(ctrl),
		messages: mock_store.NewMockMessagesObjMapperInterface(ctrl),
		pathData: mock_store.NewMockPathDataObjMapperInterface(ctrl),
	}
	store.Rooms = m.rooms
	store.Members = m.members
	store.Messages = m.messages
	store.PathData = m.pathData
	t.Cleanup(func() {
		store.Rooms = store.RoomsObjMapper{}
		store.Members = store.MembersObjMapper{}
		store.Messages = store.MessagesObjMapper{}
		store.PathData = store.PathDataObjMapper{}
		ctrl.Finish()
	})
	return m
}

func member(roomId, userId string, membership types.Membership) *types.Member {
	return &types.Member{RoomId: roomId, UserId: userId, Membership: membership}
}

func TestInvite(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
	m.members.EXPECT().Get("!room1", "@alice").Return(member("!room1", "@alice", types.MembershipJoin), nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(nil, nil)
	m.members.EXPECT().Upsert("!room1", "@bob", types.MembershipInvite, nil).Return(nil)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@alice",
		Membership: "invite",
	}, false)
	if err != nil {
		t.Fatal("invite by a joined member should succeed:", err)
	}
}

func TestInviteCallerNotJoined(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
	m.members.EXPECT().Get("!room1", "@alice").Return(nil, nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(nil, nil)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@alice",
		Membership: "invite",
	}, false)
	if err != errCannotInvite {
		t.Fatal("expected errCannotInvite, got:", err)
	}
}

func TestInviteTargetAlreadyJoined(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
	m.members.EXPECT().Get("!room1", "@alice").Return(member("!room1", "@alice", types.MembershipJoin), nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(member("!room1", "@bob", types.MembershipJoin), nil)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@alice",
		Membership: "invite",
	}, false)
	if err != errCannotInvite {
		t.Fatal("expected errCannotInvite, got:", err)
	}
}

func TestJoinFromInvite(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(member("!room1", "@bob", types.MembershipInvite), nil).Times(2)
	m.members.EXPECT().Upsert("!room1", "@bob", types.MembershipJoin, nil).Return(nil)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@bob",
		Membership: "join",
	}, false)
	if err != nil {
		t.Fatal("join from invite should succeed:", err)
	}
}

func TestJoinRepeated(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(member("!room1", "@bob", types.MembershipJoin), nil).Times(2)
	m.members.EXPECT().Upsert("!room1", "@bob", types.MembershipJoin, nil).Return(nil)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@bob",
		Membership: "join",
	}, false)
	if err != nil {
		t.Fatal("re-join while joined should be a no-op success:", err)
	}
}

func TestJoinWithoutInvite(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(nil, nil).Times(2)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@bob",
		Membership: "join",
	}, false)
	if err != errCannotJoin {
		t.Fatal("expected errCannotJoin, got:", err)
	}
}

func TestJoinAfterLeave(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(member("!room1", "@bob", types.MembershipLeave), nil).Times(2)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@bob",
		Membership: "join",
	}, false)
	if err != errCannotJoin {
		t.Fatal("join after leave requires a fresh invite, got:", err)
	}
}

func TestJoinOnBehalfOfAnother(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
	m.members.EXPECT().Get("!room1", "@alice").Return(member("!room1", "@alice", types.MembershipJoin), nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(member("!room1", "@bob", types.MembershipInvite), nil)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@alice",
		Membership: "join",
	}, false)
	if err != errCannotJoin {
		t.Fatal("nobody may join for someone else, got:", err)
	}
}

func TestLeave(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(member("!room1", "@bob", types.MembershipJoin), nil).Times(2)
	m.members.EXPECT().Upsert("!room1", "@bob", types.MembershipLeave, nil).Return(nil)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@bob",
		Membership: "leave",
	}, false)
	if err != nil {
		t.Fatal("leave by a joined member should succeed:", err)
	}
}

func TestLeaveNotJoined(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(member("!room1", "@bob", types.MembershipInvite), nil).Times(2)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@bob",
		Membership: "leave",
	}, false)
	if err != errCannotLeave {
		t.Fatal("expected errCannotLeave, got:", err)
	}
}

func TestLeaveAnotherUser(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
	m.members.EXPECT().Get("!room1", "@alice").Return(member("!room1", "@alice", types.MembershipJoin), nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(member("!room1", "@bob", types.MembershipJoin), nil)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@alice",
		Membership: "leave",
	}, false)
	if err != errCannotLeave {
		t.Fatal("forcing another user out must be denied, got:", err)
	}
}

func TestMembershipUnknownState(t *testing.T) {
	m := installStoreMocks(t)

	for _, state := range []string{"knock", "ban", ""} {
		m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
		m.members.EXPECT().Get("!room1", gomock.Any()).Return(nil, nil).Times(2)

		err := changeMembership(&ClientEvent{
			Type:       EventTypeMember,
			RoomId:     "!room1",
			UserId:     "@bob",
			AuthUserId: "@bob",
			Membership: state,
		}, false)
		if err != errUnknownMembership {
			t.Fatalf("state %q: expected errUnknownMembership, got: %v", state, err)
		}
	}
}

func TestMembershipRoomMissing(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Get("!missing").Return(nil, nil)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!missing",
		UserId:     "@bob",
		AuthUserId: "@bob",
		Membership: "join",
	}, false)
	if err != errRoomNotFound {
		t.Fatal("expected errRoomNotFound, got:", err)
	}
}

func TestMembershipStoreFault(t *testing.T) {
	m := installStoreMocks(t)

	fault := errors.New("connection reset")
	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(nil, fault)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@bob",
		Membership: "join",
	}, false)
	if err != fault {
		t.Fatal("a store fault must propagate, not read as 'no membership'; got:", err)
	}
}

func TestMembershipBroadcast(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(member("!room1", "@bob", types.MembershipInvite), nil).Times(2)
	m.members.EXPECT().Upsert("!room1", "@bob", types.MembershipJoin, nil).Return(nil)

	// The notification is authored by the system pseudo-user and bypasses
	// the membership checks of the message path.
	var gotFrom string
	var gotContent interface{}
	m.messages.EXPECT().Save("!room1", systemUserId, gomock.Any(), gomock.Any()).
		Do(func(_, from, _ string, content interface{}) {
			gotFrom = from
			gotContent = content
		}).Return(nil)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@bob",
		Membership: "join",
	}, true)
	if err != nil {
		t.Fatal("join with broadcast should succeed:", err)
	}
	if gotFrom != systemUserId {
		t.Error("notification author:", gotFrom)
	}
	want := map[string]interface{}{
		"msgtype": "text",
		"body":    "@bob joined the room.",
	}
	if !cmp.Equal(gotContent, want) {
		t.Error("notification content mismatch:", cmp.Diff(want, gotContent))
	}
}

func TestMembershipBroadcastFailureReported(t *testing.T) {
	m := installStoreMocks(t)

	fault := errors.New("disk full")
	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(member("!room1", "@bob", types.MembershipInvite), nil).Times(2)
	// The membership write commits even though the notification fails.
	m.members.EXPECT().Upsert("!room1", "@bob", types.MembershipJoin, nil).Return(nil)
	m.messages.EXPECT().Save("!room1", systemUserId, gomock.Any(), gomock.Any()).Return(fault)

	err := changeMembership(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@bob",
		Membership: "join",
	}, true)
	if err != fault {
		t.Fatal("notification failure must be reported to the caller, got:", err)
	}
}

// Full flow: a joined member invites a new user, the user accepts, a
// repeated invite for the now-joined user is denied.
func TestInviteJoinReinviteFlow(t *testing.T) {
	m := installStoreMocks(t)

	m.rooms.EXPECT().Get("!room1").Return(&types.Room{Id: "!room1"}, nil).Times(3)

	gomock.InOrder(
		// A invites B.
		m.members.EXPECT().Get("!room1", "@alice").Return(member("!room1", "@alice", types.MembershipJoin), nil),
		m.members.EXPECT().Get("!room1", "@bob").Return(nil, nil),
		m.members.EXPECT().Upsert("!room1", "@bob", types.MembershipInvite, nil).Return(nil),
		// B accepts.
		m.members.EXPECT().Get("!room1", "@bob").Return(member("!room1", "@bob", types.MembershipInvite), nil).Times(2),
		m.members.EXPECT().Upsert("!room1", "@bob", types.MembershipJoin, nil).Return(nil),
		// A invites B again.
		m.members.EXPECT().Get("!room1", "@alice").Return(member("!room1", "@alice", types.MembershipJoin), nil),
		m.members.EXPECT().Get("!room1", "@bob").Return(member("!room1", "@bob", types.MembershipJoin), nil),
	)

	if err := changeMembership(&ClientEvent{
		Type: EventTypeMember, RoomId: "!room1",
		UserId: "@bob", AuthUserId: "@alice", Membership: "invite",
	}, false); err != nil {
		t.Fatal("initial invite should succeed:", err)
	}
	if err := changeMembership(&ClientEvent{
		Type: EventTypeMember, RoomId: "!room1",
		UserId: "@bob", AuthUserId: "@bob", Membership: "join",
	}, false); err != nil {
		t.Fatal("accepting the invite should succeed:", err)
	}
	if err := changeMembership(&ClientEvent{
		Type: EventTypeMember, RoomId: "!room1",
		UserId: "@bob", AuthUserId: "@alice", Membership: "invite",
	}, false); err != errCannotInvite {
		t.Fatal("re-inviting a joined user must be denied, got:", err)
	}
}

func TestGetRoomMember(t *testing.T) {
	m := installStoreMocks(t)

	rec := member("!room1", "@bob", types.MembershipInvite)
	m.members.EXPECT().Get("!room1", "@alice").Return(member("!room1", "@alice", types.MembershipJoin), nil)
	m.members.EXPECT().Get("!room1", "@bob").Return(rec, nil)

	got, err := getRoomMember(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@alice",
	})
	if err != nil {
		t.Fatal("lookup by a joined member should succeed:", err)
	}
	if got != rec {
		t.Error("unexpected record:", got)
	}
}

func TestGetRoomMemberNotJoined(t *testing.T) {
	m := installStoreMocks(t)

	m.members.EXPECT().Get("!room1", "@alice").Return(nil, nil)

	if _, err := getRoomMember(&ClientEvent{
		Type:       EventTypeMember,
		RoomId:     "!room1",
		UserId:     "@bob",
		AuthUserId: "@alice",
	}); err != errNotJoined {
		t.Fatal("expected errNotJoined, got:", err)
	}
}

func TestGetRoomMemberSystem(t *testing.T) {
	m := installStoreMocks(t)

	// No AuthUserId: system access, the requester check is skipped.
	m.members.EXPECT().Get("!room1", "@bob").Return(nil, nil)

	got, err := getRoomMember(&ClientEvent{
		Type:   EventTypeMember,
		RoomId: "!room1",
		UserId: "@bob",
	})
	if err != nil {
		t.Fatal("system lookup should succeed:", err)
	}
	if got != nil {
		t.Error("no record expected, got:", got)
	}
}
