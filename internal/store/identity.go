package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/glowmart/shopcore/internal/hash"
	"github.com/glowmart/shopcore/internal/logging"
	"github.com/glowmart/shopcore/internal/metrics"
	"github.com/glowmart/shopcore/internal/models"
	"github.com/glowmart/shopcore/internal/storage"
)

// Identity owns the users collection and the current-session pointer.
//
// AllowAnyPassword restores the original storefront's login, which matched
// on email alone and accepted any password. That behavior is a defect kept
// only behind the flag; the default requires a bcrypt match.
type Identity struct {
	Storage          *storage.Store
	AllowAnyPassword bool
}

// Login authenticates by email and establishes the session pointer.
// A failed lookup and a failed password check are indistinguishable to the
// caller: both are ErrNotFound.
func (s *Identity) Login(ctx context.Context, email, password string) (*models.User, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyUsers, "login").Inc()
	rec, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: no account for email", ErrNotFound)
	}

	if !s.AllowAnyPassword && !hash.CheckPassword(rec.PasswordHash, password) {
		return nil, fmt.Errorf("%w: no account for email", ErrNotFound)
	}
	if s.AllowAnyPassword {
		logging.FromContext(ctx).Warn("legacy login: password check skipped", "email", email)
	}

	user := rec.AsUser()
	if err := storage.PutOne(ctx, s.Storage, storage.KeySession, models.NewUserRecord(user)); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates an account, rejects duplicate emails and immediately
// signs the new user in.
func (s *Identity) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyUsers, "register").Inc()
	email = normalizeEmail(email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email required", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           "u-" + uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         models.RoleUser,
		PasswordHash: pwHash,
	}

	err = storage.Update(ctx, s.Storage, storage.KeyUsers, func(users []models.UserRecord) ([]models.UserRecord, error) {
		for _, u := range users {
			if normalizeEmail(u.Email) == email {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
			}
		}
		return append(users, models.NewUserRecord(user)), nil
	})
	if err != nil {
		return nil, err
	}

	if err := storage.PutOne(ctx, s.Storage, storage.KeySession, models.NewUserRecord(user)); err != nil {
		return nil, err
	}
	return &user, nil
}

// RequestPasswordReset reports whether an account exists for the email.
// The storefront renders the result as "reset link sent".
func (s *Identity) RequestPasswordReset(ctx context.Context, email string) (bool, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyUsers, "reset_request").Inc()
	rec, err := s.findByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// ResetPassword rotates the stored credential. Returns false when no
// account matches.
func (s *Identity) ResetPassword(ctx context.Context, email, newPassword string) (bool, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyUsers, "reset").Inc()
	if newPassword == "" {
		return false, fmt.Errorf("%w: password required", ErrValidation)
	}
	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	email = normalizeEmail(email)
	found := false
	err = storage.Update(ctx, s.Storage, storage.KeyUsers, func(users []models.UserRecord) ([]models.UserRecord, error) {
		for i := range users {
			if normalizeEmail(users[i].Email) == email {
				users[i].PasswordHash = pwHash
				found = true
				break
			}
		}
		return users, nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Logout clears the session pointer.
func (s *Identity) Logout(ctx context.Context) error {
	metrics.StoreOps.WithLabelValues(storage.KeyUsers, "logout").Inc()
	return s.Storage.Remove(ctx, storage.KeySession)
}

// CurrentUser reads the session pointer. Absent means signed out.
func (s *Identity) CurrentUser(ctx context.Context) (*models.User, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyUsers, "session").Inc()
	rec, err := storage.GetOne[models.UserRecord](ctx, s.Storage, storage.KeySession)
	if err != nil || rec == nil {
		return nil, err
	}
	user := rec.AsUser()
	return &user, nil
}

// GetUser looks an account up by id.
func (s *Identity) GetUser(ctx context.Context, id string) (*models.User, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyUsers, "get").Inc()
	users, err := storage.List[models.UserRecord](ctx, s.Storage, storage.KeyUsers)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			user := u.AsUser()
			return &user, nil
		}
	}
	return nil, fmt.Errorf("%w: user %q", ErrNotFound, id)
}

func (s *Identity) findByEmail(ctx context.Context, email string) (*models.UserRecord, error) {
	email = normalizeEmail(email)
	users, err := storage.List[models.UserRecord](ctx, s.Storage, storage.KeyUsers)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if normalizeEmail(users[i].Email) == email {
			return &users[i], nil
		}
	}
	return nil, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
