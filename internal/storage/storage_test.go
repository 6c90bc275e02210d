package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/glowmart/shopcore/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	s, err := New(db)
	require.NoError(t, err)
	return s
}

func TestReadAbsentKey(t *testing.T) {
	s := newTestStore(t)
	raw, rev, err := s.Read(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, raw)
	require.Equal(t, int64(0), rev)
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	products := []models.Product{
		{ID: "p1", Name: "first", Price: 10, Stock: 3},
		{ID: "p2", Name: "second", Price: 20, Stock: 1},
	}
	raw, err := json.Marshal(products)
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, KeyProducts, raw, 0))

	got, rev, err := ListRev[models.Product](ctx, s, KeyProducts)
	require.NoError(t, err)
	require.Equal(t, int64(1), rev)
	require.Equal(t, products, got)
}

func TestWriteRevisionConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, KeyOrders, []byte(`[]`), 0))

	// Stale expected revision must be rejected, matching revision accepted.
	err := s.Write(ctx, KeyOrders, []byte(`[]`), 5)
	require.ErrorIs(t, err, ErrRevisionConflict)
	require.NoError(t, s.Write(ctx, KeyOrders, []byte(`[]`), 1))

	// Creating over an existing key conflicts too.
	err = s.Write(ctx, KeyOrders, []byte(`[]`), 0)
	require.ErrorIs(t, err, ErrRevisionConflict)
}

func TestCorruptCollectionFailsClosed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, KeyProducts, []byte(`{not json`), 0))

	got, err := List[models.Product](ctx, s, KeyProducts)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestUpdateAppends(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := Update(ctx, s, KeyCategories, func(cats []models.Category) ([]models.Category, error) {
			return append(cats, models.Category{ID: "c", Name: "n"}), nil
		})
		require.NoError(t, err)
	}

	got, err := List[models.Category](ctx, s, KeyCategories)
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestPutOneGetOneRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := models.NewUserRecord(models.User{ID: "u1", Email: "a@b.c", PasswordHash: "h"})
	require.NoError(t, PutOne(ctx, s, KeySession, user))

	got, err := GetOne[models.UserRecord](ctx, s, KeySession)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "u1", got.ID)
	require.Equal(t, "h", got.PasswordHash)

	require.NoError(t, s.Remove(ctx, KeySession))
	got, err = GetOne[models.UserRecord](ctx, s, KeySession)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestInitializeIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Initialize(ctx))
	cats, err := List[models.Category](ctx, s, KeyCategories)
	require.NoError(t, err)
	require.NotEmpty(t, cats)

	parents := 0
	for _, c := range cats {
		if c.ParentID == "" {
			parents++
		}
	}
	require.Equal(t, 5, parents)
	require.Greater(t, len(cats), parents)

	// Second initialize must not duplicate or overwrite anything.
	require.NoError(t, s.Initialize(ctx))
	again, err := List[models.Category](ctx, s, KeyCategories)
	require.NoError(t, err)
	require.Equal(t, cats, again)

	users, err := List[models.UserRecord](ctx, s, KeyUsers)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, SeedAdminEmail, users[0].Email)
	require.Equal(t, models.RoleAdmin, users[0].Role)
	require.NotEmpty(t, users[0].PasswordHash)

	orders, err := List[models.Order](ctx, s, KeyOrders)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestInitializeKeepsExistingData(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	custom := []models.Product{{ID: "mine", Name: "kept"}}
	raw, err := json.Marshal(custom)
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, KeyProducts, raw, 0))

	require.NoError(t, s.Initialize(ctx))

	got, err := List[models.Product](ctx, s, KeyProducts)
	require.NoError(t, err)
	require.Equal(t, custom, got)
}
