package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	dom "github.com/mpaternostro/basic-crud/internal/domain"
)

// TodoPatch carries the mutable todo fields; nil means "leave unchanged".
type TodoPatch struct {
	Title       *string
	IsCompleted *bool
}

type TodoRepo interface {
	GetByID(ctx context.Context, id string) (dom.Todo, error)
	List(ctx context.Context) ([]dom.Todo, error)
	ListByUserID(ctx context.Context, userID string) ([]dom.Todo, error)
	Create(ctx context.Context, title, userID string) (dom.Todo, error)
	Update(ctx context.Context, id string, patch TodoPatch) (dom.Todo, error)
	Delete(ctx context.Context, id string) (dom.Todo, error)
}

const todoColumns = `id, title, is_completed, user_id, created_at, updated_at`

// PGTodoRepo implements TodoRepo against PostgreSQL-compatible storage.
// See PGUserRepo for the returning flag semantics.
type PGTodoRepo struct {
	db        DB
	returning bool
}

func NewPGTodoRepo(db DB, returning bool) *PGTodoRepo {
	return &PGTodoRepo{db: db, returning: returning}
}

func scanTodo(row interface{ Scan(dest ...any) error }) (dom.Todo, error) {
	var t dom.Todo
	err := row.Scan(&t.ID, &t.Title, &t.IsCompleted, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	return scanTodo(r.db.QueryRow(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1`, id))
}

func (r *PGTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	return r.queryTodos(ctx,
		`SELECT `+todoColumns+` FROM todos ORDER BY created_at ASC`)
}

func (r *PGTodoRepo) ListByUserID(ctx context.Context, userID string) ([]dom.Todo, error) {
	return r.queryTodos(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = $1 ORDER BY created_at ASC`, userID)
}

func (r *PGTodoRepo) queryTodos(ctx context.Context, query string, args ...any) ([]dom.Todo, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTodoRepo) Create(ctx context.Context, title, userID string) (dom.Todo, error) {
	id := uuid.NewString()
	if r.returning {
		return scanTodo(r.db.QueryRow(ctx,
			`INSERT INTO todos (id, title, user_id) VALUES ($1, $2, $3)
			 RETURNING `+todoColumns, id, title, userID))
	}
	if _, err := r.db.Exec(ctx,
		`INSERT INTO todos (id, title, user_id) VALUES ($1, $2, $3)`, id, title, userID); err != nil {
		return dom.Todo{}, err
	}
	return r.GetByID(ctx, id)
}

// Update applies the patch and returns the updated todo.
// Returns pgx.ErrNoRows when no row matches id.
func (r *PGTodoRepo) Update(ctx context.Context, id string, patch TodoPatch) (dom.Todo, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if patch.IsCompleted != nil {
		args = append(args, *patch.IsCompleted)
		sets = append(sets, fmt.Sprintf("is_completed = $%d", len(args)))
	}
	query := `UPDATE todos SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`

	if r.returning {
		return scanTodo(r.db.QueryRow(ctx, query+` RETURNING `+todoColumns, args...))
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return dom.Todo{}, err
	}
	if tag.RowsAffected() == 0 {
		return dom.Todo{}, noRows()
	}
	return r.GetByID(ctx, id)
}

// Delete removes the todo and returns the removed record.
// Returns pgx.ErrNoRows when no row matches id.
func (r *PGTodoRepo) Delete(ctx context.Context, id string) (dom.Todo, error) {
	if r.returning {
		return scanTodo(r.db.QueryRow(ctx,
			`DELETE FROM todos WHERE id = $1 RETURNING `+todoColumns, id))
	}
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return dom.Todo{}, err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return dom.Todo{}, err
	}
	if tag.RowsAffected() == 0 {
		return dom.Todo{}, noRows()
	}
	return t, nil
}
