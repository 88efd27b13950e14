package dto

import (
	"time"

	"github.com/adegamar/backend/model"
)

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
	Name     string `json:"name"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" binding:"required,password"`
}

type UserProfileResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	LastLogin time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserProfileResponse(user *model.User) UserProfileResponse {
	return UserProfileResponse{
		UserID:    user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		IsPrimary: user.IsPrimary,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}
}
