package main

// Failure classes surfaced to the transport layer. Constant string types,
// so reasons are stable and compare directly.

// AuthorizationError: the requester lacks the membership or identity the
// operation requires. Maps to 403.
type AuthorizationError string

func (e AuthorizationError) Error() string {
	return string(e)
}

// ConflictError: a uniqueness violation on creation. Maps to 409.
type ConflictError string

func (e ConflictError) Error() string {
	return string(e)
}

// InternalError: an invariant violation or a store fault. Maps to 500.
type InternalError string

func (e InternalError) Error() string {
	return string(e)
}

const (
	errRoomNotFound      = AuthorizationError("room does not exist")
	errNotJoined         = AuthorizationError("not joined")
	errCannotInvite      = AuthorizationError("cannot invite")
	errCannotJoin        = AuthorizationError("cannot join")
	errCannotLeave       = AuthorizationError("cannot leave")
	errSendAsSelf        = AuthorizationError("must send as yourself")
	errPublicRules       = AuthorizationError("member does not meet public room rules")
	errPrivateRules      = AuthorizationError("member does not meet private room rules")
	errRoomIdInUse       = ConflictError("room id in use")
	errUnknownMembership = InternalError("unknown membership state")
	errCreateRoomFailed  = InternalError("unable to create room")
)
