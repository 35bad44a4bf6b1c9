package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trendora/storefront/internal/model"
	"trendora/storefront/internal/service"
	"trendora/storefront/pkg/response"
)

type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// LoginRequest carries an identity already established by the upstream
// auth gateway; this service only manages the resulting session state.
type LoginRequest struct {
	ProfileID string `json:"profile_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email"`
	Role      string `json:"role" binding:"required"`
}

func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		response.BadRequest(c, "profile_id must be a uuid")
		return
	}

	token, err := h.sessionService.Login(c.Request.Context(), model.UserRecord{
		ID:    profileID,
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedRole) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, "login failed")
		return
	}

	response.Success(c, gin.H{"access_token": token})
}

func (h *SessionHandler) Logout(c *gin.Context) {
	profileID, err := getProfileIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid session")
		return
	}

	if err := h.sessionService.Logout(c.Request.Context(), profileID); err != nil {
		response.InternalError(c, "logout failed")
		return
	}
	response.Success(c, nil)
}

// Activity reports genuine local activity in this client instance. The
// coordinator resets its timer and broadcasts the reset to siblings.
func (h *SessionHandler) Activity(c *gin.Context) {
	profileID, err := getProfileIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid session")
		return
	}

	if err := h.sessionService.Activity(c.Request.Context(), profileID); err != nil {
		if errors.Is(err, service.ErrSessionNotActive) {
			response.Unauthorized(c, "session is no longer active")
			return
		}
		response.InternalError(c, "activity report failed")
		return
	}
	response.Success(c, nil)
}

func (h *SessionHandler) Me(c *gin.Context) {
	profileID, err := getProfileIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid session")
		return
	}

	record, err := h.sessionService.CurrentUser(c.Request.Context(), profileID)
	if err != nil {
		response.InternalError(c, "failed to load session")
		return
	}
	if record == nil {
		response.Success(c, gin.H{"logged_in": false})
		return
	}
	response.Success(c, gin.H{"logged_in": true, "user": record})
}
