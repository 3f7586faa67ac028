package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	dom "github.com/mpaternostro/basic-crud/internal/domain"
	"github.com/mpaternostro/basic-crud/internal/repo"
	"github.com/mpaternostro/basic-crud/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrNoRefreshToken     = errors.New("user has no refresh token on file")
)

// UserService handles user accounts, credentials and the stored refresh
// token hash.
type UserService struct {
	repo       repo.UserRepo
	bcryptCost int
}

// NewUserService returns a new UserService. cost is the bcrypt work factor
// applied to passwords and refresh tokens.
func NewUserService(repo repo.UserRepo, cost int) *UserService {
	return &UserService{repo: repo, bcryptCost: cost}
}

// GetByID returns the user by id.
func (s *UserService) GetByID(ctx context.Context, id string) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// GetByUsername returns the user by username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]dom.User, error) {
	return s.repo.List(ctx)
}

// Create registers a new user with a hashed password.
func (s *UserService) Create(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, string(hash))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// Update changes the user's username and/or password. A new password is
// hashed before persisting. A username change invalidates the stored refresh
// token hash: the token payload no longer matches the identity it was issued
// for, so the holder must log in again.
func (s *UserService) Update(ctx context.Context, id string, username, password *string) (dom.User, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return dom.User{}, err
	}

	patch := repo.UserPatch{Username: username}
	if password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), s.bcryptCost)
		if err != nil {
			return dom.User{}, err
		}
		h := string(hash)
		patch.PasswordHash = &h
	}

	u, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}

	if username != nil && *username != existing.Username {
		u, err = s.repo.SetRefreshTokenHash(ctx, id, nil)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, err
		}
	}
	return u, nil
}

// Remove deletes the user and returns the removed record.
func (s *UserService) Remove(ctx context.Context, id string) (dom.User, error) {
	u, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// ValidateCredentials checks username and password; returns the user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// VerifyPassword re-checks the current password of the user with the given
// id, used before sensitive mutations.
func (s *UserService) VerifyPassword(ctx context.Context, id, password string) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// refreshTokenDigest reduces a raw token below bcrypt's 72 byte input limit.
func refreshTokenDigest(rawToken string) []byte {
	sum := sha256.Sum256([]byte(rawToken))
	return []byte(hex.EncodeToString(sum[:]))
}

// SetCurrentRefreshToken hashes rawToken and stores it on the user record,
// superseding any previous value. Presenting a stolen cookie is then not
// enough: the raw token must also match the stored hash.
func (s *UserService) SetCurrentRefreshToken(ctx context.Context, userID, rawToken string) (dom.User, error) {
	hash, err := bcrypt.GenerateFromPassword(refreshTokenDigest(rawToken), s.bcryptCost)
	if err != nil {
		return dom.User{}, err
	}
	h := string(hash)
	u, err := s.repo.SetRefreshTokenHash(ctx, userID, &h)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// RemoveRefreshToken clears the stored refresh token hash.
func (s *UserService) RemoveRefreshToken(ctx context.Context, userID string) (dom.User, error) {
	u, err := s.repo.SetRefreshTokenHash(ctx, userID, nil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// GetUserIfRefreshTokenMatches returns the user iff rawToken matches the
// refresh token hash stored for username.
func (s *UserService) GetUserIfRefreshTokenMatches(ctx context.Context, rawToken, username string) (dom.User, error) {
	u, err := s.GetByUsername(ctx, username)
	if err != nil {
		return dom.User{}, err
	}
	if u.RefreshTokenHash == nil {
		return dom.User{}, ErrNoRefreshToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.RefreshTokenHash), refreshTokenDigest(rawToken)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}
