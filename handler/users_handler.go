package handler

import (
	"errors"

	"github.com/adegamar/backend/dto"
	"github.com/adegamar/backend/usecase"
	"github.com/adegamar/backend/utils"
	"github.com/gin-gonic/gin"
)

type UsersHandler struct {
	Users *usecase.UserService
}

func NewUsersHandler(users *usecase.UserService) *UsersHandler {
	return &UsersHandler{Users: users}
}

// Create adds a new admin account. Primary admin only.
func (h *UsersHandler) Create(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "no session found")
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	user, err := h.Users.CreateUser(c.Request.Context(), actor, req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrForbidden):
			utils.Forbidden(c, "only the primary admin can create users")
		case errors.Is(err, usecase.ErrEmailTaken):
			utils.Conflict(c, "email already registered")
		case errors.Is(err, usecase.ErrValidation):
			utils.BadRequest(c, "invalid email or password")
		default:
			utils.InternalError(c, "Failed to create user")
		}
		return
	}

	utils.Created(c, gin.H{"user": user.Public()})
}

// List returns every admin account. Primary admin only.
func (h *UsersHandler) List(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "no session found")
		return
	}

	users, err := h.Users.ListUsers(c.Request.Context(), actor)
	if err != nil {
		if errors.Is(err, usecase.ErrForbidden) {
			utils.Forbidden(c, "only the primary admin can list users")
			return
		}
		utils.InternalError(c, "Failed to list users")
		return
	}

	public := make([]interface{}, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	utils.Success(c, gin.H{"users": public})
}

// Delete removes an admin account. The primary admin and the acting
// account itself are both protected.
func (h *UsersHandler) Delete(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "no session found")
		return
	}

	if err := h.Users.DeleteUser(c.Request.Context(), actor, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, usecase.ErrForbidden):
			utils.Forbidden(c, "this account cannot be deleted")
		case errors.Is(err, usecase.ErrNotFound):
			utils.NotFound(c, "user not found")
		default:
			utils.InternalError(c, "Failed to delete user")
		}
		return
	}

	utils.Success(c, gin.H{"message": "User deleted"})
}

// ChangePassword updates a password, own or (for the primary admin)
// someone else's. Other sessions of the target are invalidated.
func (h *UsersHandler) ChangePassword(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "no session found")
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	err := h.Users.ChangePassword(c.Request.Context(), actor, c.Param("id"),
		req.CurrentPassword, req.NewPassword, currentToken(c))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			utils.Unauthorized(c, "current password is incorrect")
		case errors.Is(err, usecase.ErrForbidden):
			utils.Forbidden(c, "not allowed to change this user's password")
		case errors.Is(err, usecase.ErrNotFound):
			utils.NotFound(c, "user not found")
		case errors.Is(err, usecase.ErrValidation):
			utils.BadRequest(c, "new password does not meet the password policy")
		default:
			utils.InternalError(c, "Failed to change password")
		}
		return
	}

	utils.Success(c, gin.H{"message": "Password updated"})
}

// Profile returns the acting user's own record.
func (h *UsersHandler) Profile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "no session found")
		return
	}

	utils.Success(c, dto.ToUserProfileResponse(user))
}
