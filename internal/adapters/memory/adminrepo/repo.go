package adminrepo

import (
	"context"
	"sync"

	"github.com/tripmatch-app/tripmatch-api/internal/domain"
)

// Repo is an in-memory implementation of adminrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	grants map[domain.UserID]struct{}
}

func NewRepo() *Repo {
	return &Repo{grants: make(map[domain.UserID]struct{})}
}

// Grant adds moderation privilege for user. Grant management is out of band
// in production; this exists for wiring and tests.
func (r *Repo) Grant(user domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants[user] = struct{}{}
}

func (r *Repo) Revoke(user domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.grants, user)
}

func (r *Repo) IsAdmin(ctx context.Context, user domain.UserID) (bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.grants[user]
	return ok, nil
}
