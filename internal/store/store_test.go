package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/glowmart/shopcore/internal/models"
	"github.com/glowmart/shopcore/internal/storage"
)

type testEnv struct {
	Storage   *storage.Store
	Catalog   *Catalog
	Identity  *Identity
	Orders    *Orders
	Reporting *Reporting
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	st, err := storage.New(db)
	require.NoError(t, err)

	return &testEnv{
		Storage:   st,
		Catalog:   &Catalog{Storage: st},
		Identity:  &Identity{Storage: st},
		Orders:    &Orders{Storage: st},
		Reporting: &Reporting{Storage: st},
	}
}

func (env *testEnv) mustCreateProduct(t *testing.T, name string, price float64, stock int) models.Product {
	t.Helper()
	p, err := env.Catalog.CreateProduct(context.Background(), ProductUpdate{
		Name:  strPtr(name),
		Price: floatPtr(price),
		Stock: intPtr(stock),
	})
	require.NoError(t, err)
	return *p
}

func cartItem(p models.Product, qty int) models.CartItem {
	return models.CartItem{Product: p, Quantity: qty}
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func boolPtr(b bool) *bool        { return &b }
