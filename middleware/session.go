package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/adegamar/backend/usecase"
	"github.com/adegamar/backend/utils"
	"github.com/gin-gonic/gin"
)

// CookieConfig describes the session cookie. Secure is enabled in
// production only so local development over plain HTTP still works.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// SetSessionCookie issues the HTTP-only, SameSite=Strict session
// cookie with max-age matching the session duration.
func SetSessionCookie(c *gin.Context, cfg CookieConfig, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cfg.Name, token, int(cfg.MaxAge.Seconds()), "/", "", cfg.Secure, true)
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(c *gin.Context, cfg CookieConfig) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cfg.Name, "", -1, "/", "", cfg.Secure, true)
}

// SessionMiddleware guards the protected route group. It validates the
// session cookie, which also slides the session expiry forward, then
// re-issues the cookie so its max-age tracks the renewed expiry. The
// authenticated user and session land in the gin context.
func SessionMiddleware(auth *usecase.AuthService, cfg CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.Name)
		if err != nil {
			utils.Unauthorized(c, "no session found")
			c.Abort()
			return
		}

		user, session, err := auth.ValidateSession(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrNoSession):
				utils.Unauthorized(c, "no session found")
			case errors.Is(err, usecase.ErrSessionExpired):
				ClearSessionCookie(c, cfg)
				utils.Unauthorized(c, "session expired")
			case errors.Is(err, usecase.ErrInvalidSession):
				ClearSessionCookie(c, cfg)
				utils.Unauthorized(c, "invalid session")
			default:
				utils.InternalError(c, "failed to validate session")
			}
			c.Abort()
			return
		}

		SetSessionCookie(c, cfg, session.Token)

		c.Set("user", user)
		c.Set("user_id", user.UserID)
		c.Set("session", session)
		c.Next()
	}
}
