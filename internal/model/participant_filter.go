package model

import "github.com/google/uuid"

// RoleUser is the shopper role; any other role is treated as a vendor.
const RoleUser = "user"

// ParticipantFilter selects the conversations one party can see. The
// variant (user column vs vendor column) is fixed when the filter is
// built, so callers never dispatch on a role string after construction.
type ParticipantFilter struct {
	column string
	id     uuid.UUID
}

func ByUser(id uuid.UUID) ParticipantFilter {
	return ParticipantFilter{column: "user_id", id: id}
}

func ByVendor(id uuid.UUID) ParticipantFilter {
	return ParticipantFilter{column: "vendor_id", id: id}
}

// FilterForRole resolves a role string to its filter variant once.
func FilterForRole(role string, id uuid.UUID) ParticipantFilter {
	if role == RoleUser {
		return ByUser(id)
	}
	return ByVendor(id)
}

// Column is the conversations column the filter matches on.
func (f ParticipantFilter) Column() string { return f.column }

// ID is the participant the filter belongs to.
func (f ParticipantFilter) ID() uuid.UUID { return f.id }

// Matches reports whether the conversation involves the filter's participant.
func (f ParticipantFilter) Matches(c Conversation) bool {
	if f.column == "user_id" {
		return c.UserID == f.id
	}
	return c.VendorID == f.id
}

// Counterpart returns the display name of the other party: a user sees
// the vendor's name, a vendor sees the user's.
func (f ParticipantFilter) Counterpart(c Conversation) string {
	if f.column == "user_id" {
		return c.VendorName
	}
	return c.UserName
}
