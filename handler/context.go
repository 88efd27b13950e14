package handler

import (
	"github.com/adegamar/backend/model"
	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user the session middleware
// stored on the context.
func currentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// currentToken returns the session token of the acting request.
func currentToken(c *gin.Context) string {
	v, ok := c.Get("session")
	if !ok {
		return ""
	}
	session, ok := v.(*model.Session)
	if !ok {
		return ""
	}
	return session.Token
}
