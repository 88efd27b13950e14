package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/adegamar/backend/middleware"
	"github.com/adegamar/backend/model"
	"github.com/adegamar/backend/services"
	"github.com/adegamar/backend/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	testCookieName = "adegamar_session"
	testPassword   = "mariscada55!"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func (r *memUserRepo) CreateUser(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *u
	r.users[u.UserID] = &clone
	return nil
}

func (r *memUserRepo) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
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

func (r *memUserRepo) FindUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (r *memUserRepo) FindPrimaryUser(_ context.Context) (*model.User, error) {
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

func (r *memUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.LastLogin = at
	}
	return nil
}

func (r *memUserRepo) UpdateUserPassword(_ context.Context, id, hash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.PasswordHash = hash
		return 1, nil
	}
	return 0, nil
}

func (r *memUserRepo) DeleteUserByID(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; ok {
		delete(r.users, id)
		return 1, nil
	}
	return 0, nil
}

func (r *memUserRepo) GetAllUsers(_ context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []*model.User
	for _, u := range r.users {
		clone := *u
		users = append(users, &clone)
	}
	return users, nil
}

func (r *memUserRepo) CountUsers(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func (r *memSessionRepo) CreateSession(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.sessions[s.Token] = &clone
	return nil
}

func (r *memSessionRepo) GetSession(_ context.Context, token string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[token]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, nil
}

func (r *memSessionRepo) RenewSession(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[session.Token]; ok {
		s.ExpiresAt = session.ExpiresAt
	}
	return nil
}

func (r *memSessionRepo) DeleteSession(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func (r *memSessionRepo) DeleteUserSessions(ctx context.Context, userID string) (int64, error) {
	return r.DeleteUserSessionsExcept(ctx, userID, "")
}

func (r *memSessionRepo) DeleteUserSessionsExcept(_ context.Context, userID, keep string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, s := range r.sessions {
		if s.UserID == userID && token != keep {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}

func (r *memSessionRepo) GetUserActiveSessions(_ context.Context, userID string) ([]*model.Session, error) {
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

func (r *memSessionRepo) CountActiveSessions(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var n int64
	for _, s := range r.sessions {
		if (userID == "" || s.UserID == userID) && s.ExpiresAt.After(now) {
			n++
		}
	}
	return n, nil
}

type testEnv struct {
	router     *gin.Engine
	users      *memUserRepo
	sessions   *memSessionRepo
	contentDir string
	backupDir  string
	admin      *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &memUserRepo{users: make(map[string]*model.User)}
	sessions := &memSessionRepo{sessions: make(map[string]*model.Session)}

	hash, err := services.HashPassword(testPassword)
	if err != nil {
		t.Fatal(err)
	}
	admin := &model.User{
		UserID:       uuid.NewString(),
		Email:        "chef@adegamar.pt",
		PasswordHash: hash,
		Name:         "Chef",
		IsPrimary:    true,
		CreatedAt:    time.Now(),
	}
	users.CreateUser(context.Background(), admin)

	contentDir := t.TempDir()
	backupDir := t.TempDir()

	cookie := middleware.CookieConfig{
		Name:   testCookieName,
		MaxAge: 30 * time.Minute,
		Secure: false,
	}

	app := &App{
		Auth: &usecase.AuthService{
			Users:           users,
			Sessions:        sessions,
			SessionDuration: 30 * time.Minute,
		},
		Users:       &usecase.UserService{Users: users, Sessions: sessions},
		Content:     usecase.NewContentStore(contentDir, backupDir, []string{"menu.json", "locales/en.json"}),
		UserRepo:    users,
		SessionRepo: sessions,
		Cookie:      cookie,
	}

	return &testEnv{
		router:     setupRouter(app),
		users:      users,
		sessions:   sessions,
		contentDir: contentDir,
		backupDir:  backupDir,
		admin:      admin,
	}
}

func (env *testEnv) do(t *testing.T, method, path, body, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// sessionCookie returns the last session cookie in the response, which
// is the one a browser would apply when a handler overrides the
// middleware's re-issued cookie (logout does).
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookieName {
			found = c
		}
	}
	return found
}

func (env *testEnv) login(t *testing.T) string {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"chef@adegamar.pt","password":"`+testPassword+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}
	cookie := sessionCookie(t, w)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("login did not set a session cookie")
	}
	return cookie.Value
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"chef@adegamar.pt","password":"`+testPassword+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}

	cookie := sessionCookie(t, w)
	if cookie == nil {
		t.Fatal("no session cookie set")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HTTP-only")
	}
	if cookie.MaxAge != int((30 * time.Minute).Seconds()) {
		t.Errorf("cookie max-age = %d, want %d", cookie.MaxAge, 1800)
	}

	session, _ := env.sessions.GetSession(context.Background(), cookie.Value)
	if session == nil {
		t.Fatal("no session row created")
	}
	wantExpiry := time.Now().Add(30 * time.Minute)
	if session.ExpiresAt.After(wantExpiry.Add(5*time.Second)) || session.ExpiresAt.Before(wantExpiry.Add(-5*time.Second)) {
		t.Errorf("session expiry %v not near now+30m", session.ExpiresAt)
	}

	// The response must never carry the password hash.
	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Errorf("login response leaks password material: %s", w.Body.String())
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)

	unknown := env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"ghost@adegamar.pt","password":"`+testPassword+`"}`, "")
	wrongPw := env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"chef@adegamar.pt","password":"wrong-password1!"}`, "")

	if unknown.Code != http.StatusUnauthorized || wrongPw.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrongPw.Code)
	}
	if !bytes.Equal(unknown.Body.Bytes(), wrongPw.Body.Bytes()) {
		t.Errorf("error payloads differ:\n%s\n%s", unknown.Body.String(), wrongPw.Body.String())
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/session"},
		{http.MethodGet, "/api/content/menu.json"},
		{http.MethodPut, "/api/content/menu.json"},
		{http.MethodGet, "/api/user/profile"},
		{http.MethodGet, "/api/admin/stats"},
	}

	for _, p := range paths {
		w := env.do(t, p.method, p.path, "", "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without session: got %d, want 401", p.method, p.path, w.Code)
		}
	}

	w := env.do(t, http.MethodGet, "/api/auth/session", "", "bogus-token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bogus token: got %d, want 401", w.Code)
	}
}

func TestSessionEndpointRenewsCookie(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	w := env.do(t, http.MethodGet, "/api/auth/session", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("session check returned %d: %s", w.Code, w.Body.String())
	}

	cookie := sessionCookie(t, w)
	if cookie == nil {
		t.Fatal("session check did not re-issue the cookie")
	}
	if cookie.Value != token {
		t.Errorf("token changed on renewal: %s != %s", cookie.Value, token)
	}
	if cookie.MaxAge != 1800 {
		t.Errorf("renewed cookie max-age = %d, want 1800", cookie.MaxAge)
	}
}

func TestContentEditingFlow(t *testing.T) {
	env := newTestEnv(t)

	original := `{"dishes":["bacalhau à brás"]}`
	if err := os.WriteFile(filepath.Join(env.contentDir, "menu.json"), []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	token := env.login(t)

	// Read the current menu.
	w := env.do(t, http.MethodGet, "/api/content/menu.json", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("content read returned %d: %s", w.Code, w.Body.String())
	}
	var readResp struct {
		Data struct {
			Data json.RawMessage `json:"data"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &readResp); err != nil {
		t.Fatalf("failed to parse read response: %v", err)
	}
	if !bytes.Contains(readResp.Data.Data, []byte("bacalhau")) {
		t.Errorf("read did not return the seeded menu: %s", readResp.Data.Data)
	}

	// Overwrite it.
	w = env.do(t, http.MethodPut, "/api/content/menu.json",
		`{"data":{"dishes":["polvo à lagareiro"]}}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("content write returned %d: %s", w.Code, w.Body.String())
	}

	// A backup of the pre-write content must exist.
	entries, err := os.ReadDir(env.backupDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one backup after write, got %d", len(entries))
	}
	backup, err := os.ReadFile(filepath.Join(env.backupDir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if string(backup) != original {
		t.Errorf("backup = %q, want %q", backup, original)
	}

	// Reads now reflect the update.
	w = env.do(t, http.MethodGet, "/api/content/menu.json", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("content re-read returned %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("polvo")) {
		t.Errorf("re-read does not reflect the write: %s", w.Body.String())
	}

	// Logout clears the cookie and kills the session.
	w = env.do(t, http.MethodPost, "/api/auth/logout", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("logout returned %d: %s", w.Code, w.Body.String())
	}
	cookie := sessionCookie(t, w)
	if cookie == nil || cookie.Value != "" || cookie.MaxAge > 0 {
		t.Error("logout did not clear the session cookie")
	}

	w = env.do(t, http.MethodGet, "/api/content/menu.json", "", token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("request after logout: got %d, want 401", w.Code)
	}
}

func TestContentPathOutsideAllowList(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	w := env.do(t, http.MethodPut, "/api/content/secrets.json", `{"data":{}}`, token)
	if w.Code != http.StatusForbidden {
		t.Errorf("write outside allow-list: got %d, want 403", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/content/secrets.json", "", token)
	if w.Code != http.StatusForbidden {
		t.Errorf("read outside allow-list: got %d, want 403", w.Code)
	}
}

func TestContentListing(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	w := env.do(t, http.MethodGet, "/api/content/", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("content listing returned %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("menu.json")) {
		t.Errorf("listing missing menu.json: %s", w.Body.String())
	}
}

func TestContentWriteRejectsBadPayload(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	w := env.do(t, http.MethodPut, "/api/content/menu.json", `{"notdata":true}`, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing data field: got %d, want 400", w.Code)
	}

	w = env.do(t, http.MethodPut, "/api/content/menu.json", `{`, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("broken JSON body: got %d, want 400", w.Code)
	}
}

func TestDeleteUserEndpointProtections(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	// The primary admin cannot delete itself even while primary.
	w := env.do(t, http.MethodDelete, "/api/users/"+env.admin.UserID, "", token)
	if w.Code != http.StatusForbidden {
		t.Errorf("deleting primary admin: got %d, want 403", w.Code)
	}
}

func TestHealthEndpointIsPublic(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("health returned %d", w.Code)
	}
}
