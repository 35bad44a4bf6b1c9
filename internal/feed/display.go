package feed

import (
	"time"

	"github.com/google/uuid"

	"trendora/storefront/internal/model"
)

// ConversationView is the presentation shape of one conversation: the
// counterpart's name resolved for the viewer plus a human time label.
type ConversationView struct {
	ID               uuid.UUID  `json:"id"`
	CounterpartName  string     `json:"counterpart_name"`
	LastMessage      *string    `json:"last_message"`
	LastMessageAt    *time.Time `json:"last_message_at"`
	LastMessageLabel string     `json:"last_message_label"`
	UnreadCount      int        `json:"unread_count"`
}

// ViewFor derives the display fields. Pure; no side effects.
func ViewFor(filter model.ParticipantFilter, c model.Conversation, now time.Time) ConversationView {
	return ConversationView{
		ID:               c.ID,
		CounterpartName:  filter.Counterpart(c),
		LastMessage:      c.LastMessage,
		LastMessageAt:    c.LastMessageAt,
		LastMessageLabel: RelativeLabel(c.LastMessageAt, now),
		UnreadCount:      c.UnreadCount,
	}
}

// RelativeLabel renders a message timestamp the way the conversation list
// shows it: time of day within 24h, "Yesterday" within 48h, a short date
// beyond that. Empty for conversations with no messages yet.
func RelativeLabel(t *time.Time, now time.Time) string {
	if t == nil {
		return ""
	}
	age := now.Sub(*t)
	switch {
	case age < 24*time.Hour:
		return t.Format("3:04 PM")
	case age < 48*time.Hour:
		return "Yesterday"
	default:
		return t.Format("Jan 2, 2006")
	}
}
