package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/adegamar/backend/model"
	"github.com/adegamar/backend/services"
	"github.com/adegamar/backend/utils"
	"github.com/google/uuid"
)

// ClientMeta is the best-effort request metadata captured when a
// session is created. Informational only, never used for validation.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// AuthService authenticates credentials and owns the session
// lifecycle: issuance at login, sliding renewal on every validation,
// lazy deletion on expiry.
type AuthService struct {
	Users           UserRepository
	Sessions        SessionRepository
	SessionDuration time.Duration
}

// Login verifies email and password and issues a new session. Unknown
// email and wrong password produce the same ErrInvalidCredentials so
// the responses are byte-identical.
func (s *AuthService) Login(ctx context.Context, email, password string, meta ClientMeta) (*model.User, *model.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil {
		utils.TrackAuthAttempt("failure", "login")
		return nil, nil, err
	}

	if user == nil || !services.VerifyPassword(user.PasswordHash, password) {
		utils.TrackAuthAttempt("failure", "login")
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now()
	session := &model.Session{
		Token:      uuid.NewString(),
		UserID:     user.UserID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.SessionDuration),
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		DeviceInfo: utils.DescribeClient(meta.UserAgent),
	}

	if err := s.Sessions.CreateSession(ctx, session); err != nil {
		utils.TrackAuthAttempt("failure", "login")
		return nil, nil, err
	}

	if err := s.Users.UpdateLastLogin(ctx, user.UserID, now); err != nil {
		utils.TrackAuthAttempt("failure", "login")
		return nil, nil, err
	}
	user.LastLogin = now

	utils.TrackAuthAttempt("success", "login")
	return user, session, nil
}

// ValidateSession checks that a token identifies a live session and
// slides its expiry forward to now + SessionDuration. An expired
// session is deleted on the spot, so lifetime is always measured from
// last activity rather than from login.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*model.User, *model.Session, error) {
	if token == "" {
		utils.TrackAuthAttempt("failure", "session")
		return nil, nil, ErrNoSession
	}

	session, err := s.Sessions.GetSession(ctx, token)
	if err != nil {
		utils.TrackAuthAttempt("failure", "session")
		return nil, nil, err
	}
	if session == nil {
		utils.TrackAuthAttempt("failure", "session")
		return nil, nil, ErrInvalidSession
	}

	now := time.Now()
	if session.Expired(now) {
		if err := s.Sessions.DeleteSession(ctx, token); err != nil {
			utils.TrackError("auth", "expired_session_cleanup_failed")
		}
		utils.TrackAuthAttempt("failure", "session")
		return nil, nil, ErrSessionExpired
	}

	user, err := s.Users.FindUser(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		// Owner vanished between session creation and now; the session
		// is orphaned and gets the same lazy cleanup as an expired one.
		if err := s.Sessions.DeleteSession(ctx, token); err != nil {
			utils.TrackError("auth", "orphan_session_cleanup_failed")
		}
		utils.TrackAuthAttempt("failure", "session")
		return nil, nil, ErrInvalidSession
	}

	session.ExpiresAt = now.Add(s.SessionDuration)
	if err := s.Sessions.RenewSession(ctx, session); err != nil {
		return nil, nil, err
	}

	utils.TrackAuthAttempt("success", "session")
	return user, session, nil
}

// Logout deletes the session behind a token. Unknown tokens are not an
// error: the end state is the same.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoSession
	}
	utils.TrackAuthAttempt("success", "logout")
	return s.Sessions.DeleteSession(ctx, token)
}

// LogoutAll deletes every session belonging to a user.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) (int64, error) {
	return s.Sessions.DeleteUserSessions(ctx, userID)
}
