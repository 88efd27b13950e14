package usecase

import (
	"context"
	"time"

	"github.com/adegamar/backend/model"
)

// UserRepository is the credential store contract the services depend
// on. Lookups return nil, nil when the record is absent.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUser(ctx context.Context, userID string) (*model.User, error)
	FindPrimaryUser(ctx context.Context) (*model.User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	UpdateUserPassword(ctx context.Context, userID string, hashedPassword string) (int64, error)
	DeleteUserByID(ctx context.Context, userID string) (int64, error)
	GetAllUsers(ctx context.Context) ([]*model.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// SessionRepository is the session store contract.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	RenewSession(ctx context.Context, session *model.Session) error
	DeleteSession(ctx context.Context, token string) error
	DeleteUserSessions(ctx context.Context, userID string) (int64, error)
	DeleteUserSessionsExcept(ctx context.Context, userID, keepToken string) (int64, error)
	GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error)
	CountActiveSessions(ctx context.Context, userID string) (int64, error)
}
