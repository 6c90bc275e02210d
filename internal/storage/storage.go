// Package storage persists named collections as whole JSON documents in a
// single key-value table. Every store reads the full collection, mutates a
// copy in memory and writes the full collection back; a per-collection
// revision counter turns concurrent writers into an explicit conflict
// instead of a silent last-write-wins.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/glowmart/shopcore/internal/logging"
	"github.com/glowmart/shopcore/internal/metrics"
)

const (
	KeyUsers      = "users"
	KeyProducts   = "products"
	KeyCategories = "categories"
	KeyOrders     = "orders"
	KeySession    = "current_session"
)

// ErrRevisionConflict is returned by Write when the collection was modified
// between the caller's Read and Write.
var ErrRevisionConflict = errors.New("storage: revision conflict")

const updateRetries = 3

type Collection struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	Revision  int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Collection{}); err != nil {
		return nil, fmt.Errorf("migrate collections: %w", err)
	}
	return &Store{db: db}, nil
}

// Read returns the raw collection document and its current revision.
// An absent key yields (nil, 0, nil); callers fall back to their empty
// default.
func (s *Store) Read(ctx context.Context, key string) ([]byte, int64, error) {
	var rec Collection
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read %q: %w", key, err)
	}
	return rec.Value, rec.Revision, nil
}

// Write replaces the collection document. expectedRevision must match the
// revision observed at Read time; zero means the key is expected to be
// absent. A mismatch returns ErrRevisionConflict.
func (s *Store) Write(ctx context.Context, key string, value []byte, expectedRevision int64) error {
	if expectedRevision == 0 {
		rec := Collection{Key: key, Value: value, Revision: 1}
		if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrRevisionConflict
			}
			return fmt.Errorf("write %q: %w", key, err)
		}
		return nil
	}

	res := s.db.WithContext(ctx).Model(&Collection{}).
		Where("key = ? AND revision = ?", key, expectedRevision).
		Updates(map[string]any{"value": value, "revision": expectedRevision + 1})
	if res.Error != nil {
		return fmt.Errorf("write %q: %w", key, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRevisionConflict
	}
	return nil
}

// SeedIfAbsent writes the default document only when the key does not exist
// yet, so repeated initialization never clobbers user data.
func (s *Store) SeedIfAbsent(ctx context.Context, key string, value []byte) error {
	_, rev, err := s.Read(ctx, key)
	if err != nil {
		return err
	}
	if rev != 0 {
		return nil
	}
	if err := s.Write(ctx, key, value, 0); err != nil && !errors.Is(err, ErrRevisionConflict) {
		return err
	}
	return nil
}

// Remove drops the key entirely. Used for the session pointer.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&Collection{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// List decodes the collection under key into a slice of T. Absent or
// corrupt documents fail closed to an empty slice.
func List[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	items, _, err := ListRev[T](ctx, s, key)
	return items, err
}

// ListRev is List plus the revision needed for a subsequent Write.
func ListRev[T any](ctx context.Context, s *Store, key string) ([]T, int64, error) {
	raw, rev, err := s.Read(ctx, key)
	if err != nil {
		return nil, 0, err
	}
	if raw == nil {
		return []T{}, rev, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		logging.FromContext(ctx).Error("corrupt collection, falling back to empty",
			"key", key, "error", err)
		return []T{}, rev, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, rev, nil
}

// Update runs fn over the decoded collection and writes the result back,
// retrying the whole read-modify-write on revision conflicts. fn returning
// an error aborts without writing.
func Update[T any](ctx context.Context, s *Store, key string, fn func(items []T) ([]T, error)) error {
	var lastErr error
	for attempt := 0; attempt < updateRetries; attempt++ {
		items, rev, err := ListRev[T](ctx, s, key)
		if err != nil {
			return err
		}
		next, err := fn(items)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode %q: %w", key, err)
		}
		err = s.Write(ctx, key, raw, rev)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrRevisionConflict) {
			return err
		}
		metrics.RevisionConflicts.Inc()
		lastErr = err
	}
	return lastErr
}

// GetOne reads a single-record key such as the session pointer.
func GetOne[T any](ctx context.Context, s *Store, key string) (*T, error) {
	raw, _, err := s.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		logging.FromContext(ctx).Error("corrupt record, treating as absent",
			"key", key, "error", err)
		return nil, nil
	}
	return &v, nil
}

// PutOne overwrites a single-record key unconditionally.
func PutOne[T any](ctx context.Context, s *Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	for attempt := 0; attempt < updateRetries; attempt++ {
		_, rev, rerr := s.Read(ctx, key)
		if rerr != nil {
			return rerr
		}
		werr := s.Write(ctx, key, raw, rev)
		if werr == nil {
			return nil
		}
		if !errors.Is(werr, ErrRevisionConflict) {
			return werr
		}
		metrics.RevisionConflicts.Inc()
	}
	return ErrRevisionConflict
}
