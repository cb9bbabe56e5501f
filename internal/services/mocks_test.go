package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	emailpkg "travel_backend/internal/email"
	"travel_backend/internal/models"
	"travel_backend/internal/repositories"
)

var errSMTPDown = errors.New("smtp down")

// In-memory stores mirroring the repository contracts, including the
// unique-index conflicts and the single-winner Consume transition.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
	calls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindAll() ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrEmailTaken
		}
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return repositories.ErrUsernameTaken
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateFields(id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if v, ok := fields["email"]; ok {
		email := v.(string)
		for otherID, other := range r.users {
			if otherID != id && other.Email == email {
				return repositories.ErrEmailTaken
			}
		}
		u.Email = email
	}
	if v, ok := fields["username"]; ok {
		username := v.(string)
		for otherID, other := range r.users {
			if otherID != id && other.Username == username {
				return repositories.ErrUsernameTaken
			}
		}
		u.Username = username
	}
	if v, ok := fields["role"]; ok {
		u.Role = models.UserRole(v.(string))
	}
	if v, ok := fields["password_hash"]; ok {
		u.PasswordHash = v.(string)
	}
	return nil
}

func (r *fakeUserRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// setPasswordHash is used by the token fake's Consume.
func (r *fakeUserRepo) setPasswordHash(id, hash string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return false
	}
	u.PasswordHash = hash
	return true
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.PasswordResetToken
	users  *fakeUserRepo
	calls  int
}

func newFakeTokenRepo(users *fakeUserRepo) *fakeTokenRepo {
	return &fakeTokenRepo{
		tokens: make(map[string]*models.PasswordResetToken),
		users:  users,
	}
}

func (r *fakeTokenRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *fakeTokenRepo) tokenCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

func (r *fakeTokenRepo) anyToken() *models.PasswordResetToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		cp := *t
		return &cp
	}
	return nil
}

func (r *fakeTokenRepo) Create(token *models.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	cp := *token
	r.tokens[token.Token] = &cp
	return nil
}

func (r *fakeTokenRepo) FindValid(token string) (*models.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	t, ok := r.tokens[token]
	if !ok || t.Consumed || !t.ExpiresAt.After(time.Now()) {
		return nil, repositories.ErrTokenNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTokenRepo) Consume(token string, newPasswordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	t, ok := r.tokens[token]
	if !ok || t.Consumed || !t.ExpiresAt.After(time.Now()) {
		return repositories.ErrTokenNotFound
	}
	if !r.users.setPasswordHash(t.UserID, newPasswordHash) {
		return repositories.ErrTokenNotFound
	}
	delete(r.tokens, token)
	return nil
}

func (r *fakeTokenRepo) DeleteExpired() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	var removed int64
	for key, t := range r.tokens {
		if t.Consumed || !t.ExpiresAt.After(time.Now()) {
			delete(r.tokens, key)
			removed++
		}
	}
	return removed, nil
}

type sentMail struct {
	To       string
	Name     string
	ResetURL string
}

type fakeMailer struct {
	mu       sync.Mutex
	sent     []sentMail
	failNext bool
	delivery chan sentMail
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{delivery: make(chan sentMail, 16)}
}

func (m *fakeMailer) Send(email *emailpkg.Email) error { return nil }

func (m *fakeMailer) SendPasswordReset(to, displayName, resetURL string) error {
	m.mu.Lock()
	fail := m.failNext
	mail := sentMail{To: to, Name: displayName, ResetURL: resetURL}
	if !fail {
		m.sent = append(m.sent, mail)
	}
	m.mu.Unlock()

	m.delivery <- mail
	if fail {
		return errSMTPDown
	}
	return nil
}

func (m *fakeMailer) Close() error { return nil }

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// waitForDelivery blocks until the detached send goroutine has run, or
// fails the wait after a timeout.
func (m *fakeMailer) waitForDelivery(timeout time.Duration) (sentMail, bool) {
	select {
	case mail := <-m.delivery:
		return mail, true
	case <-time.After(timeout):
		return sentMail{}, false
	}
}
