package repository

import (
	"context"

	"gorm.io/gorm"

	"trendora/storefront/internal/model"
)

type pgConversationRepository struct {
	db *gorm.DB
}

func NewPGConversationRepository(db *gorm.DB) ConversationRepository {
	return &pgConversationRepository{db: db}
}

func (r *pgConversationRepository) ListByParticipant(ctx context.Context, filter model.ParticipantFilter) ([]model.Conversation, error) {
	var conversations []model.Conversation
	err := r.db.WithContext(ctx).
		Where(filter.Column()+" = ?", filter.ID()).
		Order("last_message_at DESC NULLS LAST").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}
