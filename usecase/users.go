package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/adegamar/backend/model"
	"github.com/adegamar/backend/repository"
	"github.com/adegamar/backend/services"
	"github.com/adegamar/backend/utils"
	"github.com/google/uuid"
)

// UserService covers admin user management: creation, deletion,
// password changes and the primary-admin protections around them.
type UserService struct {
	Users    UserRepository
	Sessions SessionRepository
}

// CreateUser adds a new (non-primary) admin. Only the primary admin
// may create accounts.
func (s *UserService) CreateUser(ctx context.Context, actor *model.User, email, password, name string) (*model.User, error) {
	if !actor.IsPrimary {
		return nil, ErrForbidden
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !utils.ValidatePassword(password) {
		return nil, ErrValidation
	}

	if existing, err := s.Users.FindUserByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		IsPrimary:    false,
		CreatedAt:    time.Now(),
	}

	if err := s.Users.CreateUser(ctx, user); err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// DeleteUser removes an admin account and cascades its sessions. The
// primary admin can never be deleted, and nobody may delete their own
// account.
func (s *UserService) DeleteUser(ctx context.Context, actor *model.User, targetID string) error {
	target, err := s.Users.FindUser(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}

	if target.IsPrimary || target.UserID == actor.UserID {
		return ErrForbidden
	}

	deleted, err := s.Users.DeleteUserByID(ctx, targetID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}

	if _, err := s.Sessions.DeleteUserSessions(ctx, targetID); err != nil {
		// The account is gone; orphaned sessions fail validation on
		// next use anyway.
		utils.TrackError("users", "session_cascade_failed")
	}

	return nil
}

// ChangePassword updates a user's password. Changing your own password
// requires the current one; changing someone else's requires being the
// primary admin, and the primary admin's password can only be changed
// by the primary admin itself. Every other session of the target is
// invalidated, keeping the acting session alive on a self-change.
func (s *UserService) ChangePassword(ctx context.Context, actor *model.User, targetID, currentPassword, newPassword, actingToken string) error {
	target, err := s.Users.FindUser(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}

	self := actor.UserID == target.UserID
	switch {
	case self:
		if !services.VerifyPassword(target.PasswordHash, currentPassword) {
			return ErrInvalidCredentials
		}
	case target.IsPrimary:
		return ErrForbidden
	case !actor.IsPrimary:
		return ErrForbidden
	}

	if !utils.ValidatePassword(newPassword) {
		return ErrValidation
	}

	hash, err := services.HashPassword(newPassword)
	if err != nil {
		return err
	}

	modified, err := s.Users.UpdateUserPassword(ctx, targetID, hash)
	if err != nil {
		return err
	}
	if modified == 0 {
		return ErrNotFound
	}

	keepToken := ""
	if self {
		keepToken = actingToken
	}
	if _, err := s.Sessions.DeleteUserSessionsExcept(ctx, targetID, keepToken); err != nil {
		utils.TrackError("users", "session_invalidation_failed")
		return err
	}

	return nil
}

// ListUsers returns every admin account. Primary admin only.
func (s *UserService) ListUsers(ctx context.Context, actor *model.User) ([]*model.User, error) {
	if !actor.IsPrimary {
		return nil, ErrForbidden
	}
	return s.Users.GetAllUsers(ctx)
}
