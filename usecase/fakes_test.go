package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/adegamar/backend/model"
)

// In-memory repositories mirroring the Mongo-backed ones, including
// the nil-on-absent lookup convention.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.UserID] = &clone
	return nil
}

func (r *fakeUserRepo) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindUser(_ context.Context, userID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindPrimaryUser(_ context.Context) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.IsPrimary {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.LastLogin = at
	}
	return nil
}

func (r *fakeUserRepo) UpdateUserPassword(_ context.Context, userID string, hashedPassword string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.PasswordHash = hashedPassword
		return 1, nil
	}
	return 0, nil
}

func (r *fakeUserRepo) DeleteUserByID(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; ok {
		delete(r.users, userID)
		return 1, nil
	}
	return 0, nil
}

func (r *fakeUserRepo) GetAllUsers(_ context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		users = append(users, &clone)
	}
	return users, nil
}

func (r *fakeUserRepo) CountUsers(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*model.Session)}
}

func (r *fakeSessionRepo) CreateSession(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *session
	r.sessions[session.Token] = &clone
	return nil
}

func (r *fakeSessionRepo) GetSession(_ context.Context, token string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[token]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) RenewSession(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[session.Token]; ok {
		s.ExpiresAt = session.ExpiresAt
	}
	return nil
}

func (r *fakeSessionRepo) DeleteSession(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func (r *fakeSessionRepo) DeleteUserSessions(ctx context.Context, userID string) (int64, error) {
	return r.DeleteUserSessionsExcept(ctx, userID, "")
}

func (r *fakeSessionRepo) DeleteUserSessionsExcept(_ context.Context, userID, keepToken string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for token, s := range r.sessions {
		if s.UserID == userID && token != keepToken {
			delete(r.sessions, token)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeSessionRepo) GetUserActiveSessions(_ context.Context, userID string) ([]*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var sessions []*model.Session
	for _, s := range r.sessions {
		if s.UserID == userID && s.ExpiresAt.After(now) {
			clone := *s
			sessions = append(sessions, &clone)
		}
	}
	return sessions, nil
}

func (r *fakeSessionRepo) CountActiveSessions(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var count int64
	for _, s := range r.sessions {
		if (userID == "" || s.UserID == userID) && s.ExpiresAt.After(now) {
			count++
		}
	}
	return count, nil
}

// setExpiry rewinds or advances a stored session's expiry directly,
// bypassing renewal, to simulate idle time.
func (r *fakeSessionRepo) setExpiry(token string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[token]; ok {
		s.ExpiresAt = at
	}
}

func (r *fakeSessionRepo) has(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[token]
	return ok
}
