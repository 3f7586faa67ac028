package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	dom "github.com/mpaternostro/basic-crud/internal/domain"
)

// UserPatch carries the mutable user fields; nil means "leave unchanged".
type UserPatch struct {
	Username     *string
	PasswordHash *string
}

// UserRepo provides user persistence.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (dom.User, error)
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	List(ctx context.Context) ([]dom.User, error)
	Create(ctx context.Context, username, passwordHash string) (dom.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (dom.User, error)
	SetRefreshTokenHash(ctx context.Context, id string, hash *string) (dom.User, error)
	Delete(ctx context.Context, id string) (dom.User, error)
}

const userColumns = `id, username, password_hash, refresh_token_hash, created_at, updated_at`

// PGUserRepo implements UserRepo against PostgreSQL-compatible storage.
//
// The returning flag selects between single round-trip RETURNING statements
// and a write-then-read fallback for engines that cannot return the affected
// row. The fallback has a window where a concurrent writer can change the row
// between the write and the follow-up read; acceptable at this scale.
type PGUserRepo struct {
	db        DB
	returning bool
}

// NewPGUserRepo returns a new PGUserRepo. returning should be true whenever
// the storage engine supports RETURNING clauses.
func NewPGUserRepo(db DB, returning bool) *PGUserRepo {
	return &PGUserRepo{db: db, returning: returning}
}

func scanUser(row interface{ Scan(dest ...any) error }) (dom.User, error) {
	var u dom.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.RefreshTokenHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID returns the user by id.
func (r *PGUserRepo) GetByID(ctx context.Context, id string) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByUsername returns the user by username.
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// List returns all users ordered by creation time.
func (r *PGUserRepo) List(ctx context.Context) ([]dom.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Create inserts a new user and returns it. The id is generated here so the
// non-RETURNING path can re-read the row it just wrote.
func (r *PGUserRepo) Create(ctx context.Context, username, passwordHash string) (dom.User, error) {
	id := uuid.NewString()
	if r.returning {
		return scanUser(r.db.QueryRow(ctx,
			`INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3)
			 RETURNING `+userColumns, id, username, passwordHash))
	}
	if _, err := r.db.Exec(ctx,
		`INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3)`,
		id, username, passwordHash); err != nil {
		return dom.User{}, err
	}
	return r.GetByID(ctx, id)
}

// Update applies the patch and returns the updated user.
// Returns pgx.ErrNoRows when no row matches id.
func (r *PGUserRepo) Update(ctx context.Context, id string, patch UserPatch) (dom.User, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	if patch.Username != nil {
		args = append(args, *patch.Username)
		sets = append(sets, fmt.Sprintf("username = $%d", len(args)))
	}
	if patch.PasswordHash != nil {
		args = append(args, *patch.PasswordHash)
		sets = append(sets, fmt.Sprintf("password_hash = $%d", len(args)))
	}
	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`

	if r.returning {
		return scanUser(r.db.QueryRow(ctx, query+` RETURNING `+userColumns, args...))
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return dom.User{}, err
	}
	if tag.RowsAffected() == 0 {
		return dom.User{}, noRows()
	}
	return r.GetByID(ctx, id)
}

// SetRefreshTokenHash stores hash as the user's current refresh token hash;
// nil clears it. Returns pgx.ErrNoRows when no row matches id.
func (r *PGUserRepo) SetRefreshTokenHash(ctx context.Context, id string, hash *string) (dom.User, error) {
	query := `UPDATE users SET refresh_token_hash = $2, updated_at = now() WHERE id = $1`
	if r.returning {
		return scanUser(r.db.QueryRow(ctx, query+` RETURNING `+userColumns, id, hash))
	}
	tag, err := r.db.Exec(ctx, query, id, hash)
	if err != nil {
		return dom.User{}, err
	}
	if tag.RowsAffected() == 0 {
		return dom.User{}, noRows()
	}
	return r.GetByID(ctx, id)
}

// Delete removes the user and returns the removed record.
// Returns pgx.ErrNoRows when no row matches id.
func (r *PGUserRepo) Delete(ctx context.Context, id string) (dom.User, error) {
	if r.returning {
		return scanUser(r.db.QueryRow(ctx,
			`DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id))
	}
	// Without RETURNING the row must be captured before the delete.
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return dom.User{}, err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return dom.User{}, err
	}
	if tag.RowsAffected() == 0 {
		return dom.User{}, noRows()
	}
	return u, nil
}
