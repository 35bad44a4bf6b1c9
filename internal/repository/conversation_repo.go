package repository

import (
	"context"

	"trendora/storefront/internal/model"
)

type ConversationRepository interface {
	// ListByParticipant returns the participant's conversations ordered by
	// last_message_at descending, conversations with no messages yet last.
	ListByParticipant(ctx context.Context, filter model.ParticipantFilter) ([]model.Conversation, error)
}
