package handler

import (
	"github.com/gin-gonic/gin"

	"trendora/storefront/internal/model"
	"trendora/storefront/internal/service"
	"trendora/storefront/pkg/response"
)

type ConversationHandler struct {
	conversationService service.ConversationService
}

func NewConversationHandler(conversationService service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

func (h *ConversationHandler) List(c *gin.Context) {
	claims, err := getClaimsFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid session")
		return
	}
	profileID, err := getProfileIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid session")
		return
	}

	filter := model.FilterForRole(claims.Role, profileID)
	conversations, loading, err := h.conversationService.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalError(c, "failed to load conversations")
		return
	}
	response.Success(c, gin.H{"conversations": conversations, "loading": loading})
}
