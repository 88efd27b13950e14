package handler

import (
	"github.com/adegamar/backend/middleware"
	"github.com/adegamar/backend/usecase"
	"github.com/adegamar/backend/utils"
	"github.com/gin-gonic/gin"
)

type SessionsHandler struct {
	Auth   *usecase.AuthService
	Cookie middleware.CookieConfig
}

func NewSessionsHandler(auth *usecase.AuthService, cookie middleware.CookieConfig) *SessionsHandler {
	return &SessionsHandler{Auth: auth, Cookie: cookie}
}

// Active lists the acting user's live sessions. Tokens themselves are
// never serialized.
func (h *SessionsHandler) Active(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "no session found")
		return
	}

	sessions, err := h.Auth.Sessions.GetUserActiveSessions(c.Request.Context(), user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch sessions")
		return
	}

	utils.Success(c, gin.H{"sessions": sessions})
}

// LogoutAll ends every session of the acting user, including the
// current one, and clears the cookie.
func (h *SessionsHandler) LogoutAll(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "no session found")
		return
	}

	ended, err := h.Auth.LogoutAll(c.Request.Context(), user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to end all sessions")
		return
	}

	middleware.ClearSessionCookie(c, h.Cookie)
	utils.Success(c, gin.H{
		"message":        "Successfully logged out of all sessions",
		"sessions_ended": ended,
	})
}
