package repo

import (
	"context"
	"sync"
	"time"

	dom "github.com/dychi/todo-api/internal/domain"
)

// MemoryUserRepo implements UserRepo with a map keyed by username,
// guarded by one reader/writer lock.
type MemoryUserRepo struct {
	mu     sync.RWMutex
	users  map[string]dom.User
	nextID int64
}

var _ UserRepo = (*MemoryUserRepo)(nil)

// NewMemoryUserRepo returns an empty in-memory user repository.
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]dom.User)}
}

func (r *MemoryUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return dom.User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepo) Create(_ context.Context, username, passwordHash string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[username]; ok {
		return dom.User{}, ErrDuplicateUsername
	}
	r.nextID++
	u := dom.User{
		ID:           r.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[username] = u
	return u, nil
}
