package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	dom "github.com/mpaternostro/basic-crud/internal/domain"
	"github.com/mpaternostro/basic-crud/internal/repo"
)

var ErrNotFound = errors.New("not found")

type TodoService struct {
	repo repo.TodoRepo
}

func NewTodoService(r repo.TodoRepo) *TodoService {
	return &TodoService{repo: r}
}

func (s *TodoService) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

func (s *TodoService) List(ctx context.Context) ([]dom.Todo, error) {
	return s.repo.List(ctx)
}

func (s *TodoService) ListByUserID(ctx context.Context, userID string) ([]dom.Todo, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *TodoService) Create(ctx context.Context, title, userID string) (dom.Todo, error) {
	return s.repo.Create(ctx, strings.TrimSpace(title), userID)
}

func (s *TodoService) Update(ctx context.Context, id string, title *string, isCompleted *bool) (dom.Todo, error) {
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		title = &trimmed
	}
	t, err := s.repo.Update(ctx, id, repo.TodoPatch{Title: title, IsCompleted: isCompleted})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

// Remove deletes the todo by id; a missing id is ErrNotFound, never a silent no-op.
func (s *TodoService) Remove(ctx context.Context, id string) (dom.Todo, error) {
	t, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}
