package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/glowmart/shopcore/internal/es"
	"github.com/glowmart/shopcore/internal/models"
	"github.com/glowmart/shopcore/internal/mykafka"
	"github.com/glowmart/shopcore/internal/service/token"
	"github.com/glowmart/shopcore/internal/storage"
	"github.com/glowmart/shopcore/internal/store"
)

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	Storage *storage.Store
	Auth    *AuthHandler
	Prod    *ProductHandler
	Cat     *CategoryHandler
	Ord     *OrderHandler
	Adm     *AdminHandler
	Tokens  *token.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	st, err := storage.New(db)
	require.NoError(t, err)

	catalog := &store.Catalog{Storage: st}
	identity := &store.Identity{Storage: st}
	orders := &store.Orders{Storage: st}
	reporting := &store.Reporting{Storage: st}
	tokens := &token.Service{JWTSecret: []byte("test-secret")}
	producer := mykafka.NewProducer("") // eventing disabled
	indexer := &es.Indexer{}            // search disabled

	return &testEnv{
		T:       t,
		E:       echo.New(),
		Storage: st,
		Auth:    &AuthHandler{Identity: identity, Tokens: tokens, Producer: producer},
		Prod:    &ProductHandler{Catalog: catalog, Producer: producer, Indexer: indexer},
		Cat:     &CategoryHandler{Catalog: catalog},
		Ord:     &OrderHandler{Orders: orders, Producer: producer},
		Adm:     &AdminHandler{Reporting: reporting},
		Tokens:  tokens,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asUser mimics the auth middleware for direct handler invocation.
func asUser(c echo.Context, id, role string) {
	c.Set("userID", id)
	c.Set("role", role)
}

func (env *testEnv) register(t *testing.T, name, email, password string) models.User {
	t.Helper()
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User
}

func (env *testEnv) createProduct(t *testing.T, name string, price float64, stock int) models.Product {
	t.Helper()
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/products", map[string]any{
		"name": name, "price": price, "stock": stock,
	})
	asUser(c, "admin-1", models.RoleAdmin)
	require.NoError(t, env.Prod.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func seedStorage(t *testing.T, env *testEnv) {
	t.Helper()
	require.NoError(t, env.Storage.Initialize(context.Background()))
}
