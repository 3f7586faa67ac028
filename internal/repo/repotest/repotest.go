// Package repotest provides in-memory UserRepo and TodoRepo implementations
// for service, handler and resolver tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	dom "github.com/mpaternostro/basic-crud/internal/domain"
	"github.com/mpaternostro/basic-crud/internal/repo"
)

// uniqueViolation mimics the error pgx surfaces on a unique constraint hit.
func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

// MemUserRepo is an in-memory repo.UserRepo.
type MemUserRepo struct {
	mu    sync.Mutex
	users map[string]dom.User
}

func NewMemUserRepo() *MemUserRepo {
	return &MemUserRepo{users: make(map[string]dom.User)}
}

func (r *MemUserRepo) GetByID(_ context.Context, id string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *MemUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *MemUserRepo) List(_ context.Context) ([]dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]dom.User, 0, len(r.users))
	for _, u := range r.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *MemUserRepo) Create(_ context.Context, username, passwordHash string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return dom.User{}, uniqueViolation()
		}
	}
	now := time.Now().UTC()
	u := dom.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *MemUserRepo) Update(_ context.Context, id string, patch repo.UserPatch) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	if patch.Username != nil {
		for _, other := range r.users {
			if other.ID != id && other.Username == *patch.Username {
				return dom.User{}, uniqueViolation()
			}
		}
		u.Username = *patch.Username
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return u, nil
}

func (r *MemUserRepo) SetRefreshTokenHash(_ context.Context, id string, hash *string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	u.RefreshTokenHash = hash
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return u, nil
}

func (r *MemUserRepo) Delete(_ context.Context, id string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	delete(r.users, id)
	return u, nil
}

// MemTodoRepo is an in-memory repo.TodoRepo.
type MemTodoRepo struct {
	mu    sync.Mutex
	todos map[string]dom.Todo
}

func NewMemTodoRepo() *MemTodoRepo {
	return &MemTodoRepo{todos: make(map[string]dom.Todo)}
}

func (r *MemTodoRepo) GetByID(_ context.Context, id string) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, pgx.ErrNoRows
	}
	return t, nil
}

func (r *MemTodoRepo) List(_ context.Context) ([]dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]dom.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *MemTodoRepo) ListByUserID(_ context.Context, userID string) ([]dom.Todo, error) {
	all, _ := r.List(context.Background())
	var list []dom.Todo
	for _, t := range all {
		if t.UserID == userID {
			list = append(list, t)
		}
	}
	return list, nil
}

func (r *MemTodoRepo) Create(_ context.Context, title, userID string) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	t := dom.Todo{
		ID:        uuid.NewString(),
		Title:     title,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.todos[t.ID] = t
	return t, nil
}

func (r *MemTodoRepo) Update(_ context.Context, id string, patch repo.TodoPatch) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, pgx.ErrNoRows
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.IsCompleted != nil {
		t.IsCompleted = *patch.IsCompleted
	}
	t.UpdatedAt = time.Now().UTC()
	r.todos[id] = t
	return t, nil
}

func (r *MemTodoRepo) Delete(_ context.Context, id string) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, pgx.ErrNoRows
	}
	delete(r.todos, id)
	return t, nil
}
