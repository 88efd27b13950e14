package handler

import (
	"errors"

	"github.com/adegamar/backend/dto"
	"github.com/adegamar/backend/middleware"
	"github.com/adegamar/backend/usecase"
	"github.com/adegamar/backend/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Auth   *usecase.AuthService
	Cookie middleware.CookieConfig
}

func NewAuthHandler(auth *usecase.AuthService, cookie middleware.CookieConfig) *AuthHandler {
	return &AuthHandler{Auth: auth, Cookie: cookie}
}

// Login authenticates email/password and sets the session cookie. The
// 401 body is identical for unknown email and wrong password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	meta := usecase.ClientMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	user, session, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password, meta)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			utils.Unauthorized(c, usecase.ErrInvalidCredentials.Error())
			return
		}
		utils.InternalError(c, "Login failed")
		return
	}

	middleware.SetSessionCookie(c, h.Cookie, session.Token)
	utils.Success(c, gin.H{"user": user.Public()})
}

// Logout deletes the current session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := currentToken(c)
	if token == "" {
		utils.Unauthorized(c, "no session found")
		return
	}

	if err := h.Auth.Logout(c.Request.Context(), token); err != nil {
		utils.InternalError(c, "Failed to logout")
		return
	}

	middleware.ClearSessionCookie(c, h.Cookie)
	utils.Success(c, gin.H{"message": "Successfully logged out"})
}

// Session returns the current user. The session middleware has already
// renewed the expiry and re-issued the cookie by the time this runs.
func (h *AuthHandler) Session(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "no session found")
		return
	}

	utils.Success(c, gin.H{"user": user.Public()})
}
