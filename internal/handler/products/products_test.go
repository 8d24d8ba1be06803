package products

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rental-market/internal/api"
	"rental-market/internal/database"
	"rental-market/internal/middleware"
	"rental-market/internal/model"
	"rental-market/internal/service"
	"rental-market/internal/store"
	"rental-market/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func restore() {
	listProducts = store.ListProducts
	searchProducts = store.SearchProducts
	getProduct = store.GetProduct
	createProduct = store.CreateProduct
	updateProduct = store.UpdateProduct
	deleteProduct = store.DeleteProduct
	getCategoryByID = store.GetCategoryByID
	getUserByID = store.GetUserByID
}

var (
	admin = &service.CustomClaims{UserID: 1, Role: model.RoleAdmin}
	alice = &service.CustomClaims{UserID: 2, Role: model.RoleUser}
)

func newCtx(e *echo.Echo, method string, claims *service.CustomClaims, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	return c, rec
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	return e
}

// catalog 模擬兩位擁有者的商品，依 scope 篩選
var catalog = []model.Product{
	{ID: 10, Name: "Drill", Description: "d", CategoryID: 1, IsAvailable: true, OwnerID: 1},
	{ID: 11, Name: "Kayak", Description: "k", CategoryID: 1, IsAvailable: true, OwnerID: 2},
}

func scoped(scope store.ProductScope) []model.Product {
	out := []model.Product{}
	for _, p := range catalog {
		if scope.All || p.OwnerID == scope.OwnerID {
			out = append(out, p)
		}
	}
	return out
}

func stubCatalog() {
	listProducts = func(_ context.Context, _ database.DB, scope store.ProductScope) ([]model.Product, error) {
		return scoped(scope), nil
	}
	getProduct = func(_ context.Context, _ database.DB, scope store.ProductScope, id int) (*model.Product, error) {
		for _, p := range scoped(scope) {
			if p.ID == id {
				p := p
				return &p, nil
			}
		}
		return nil, store.ErrNotFound
	}
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []api.ProductResponse {
	var out []api.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListHandler(t *testing.T) {
	e := newEcho()
	t.Cleanup(restore)
	stubCatalog()

	t.Run("unauthenticated", func(t *testing.T) {
		ctx, rec := newCtx(e, http.MethodGet, nil, "")
		require.NoError(t, ListHandler(nil)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("staff sees all", func(t *testing.T) {
		ctx, rec := newCtx(e, http.MethodGet, admin, "")
		require.NoError(t, ListHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, decodeList(t, rec), 2)
	})

	t.Run("user sees own", func(t *testing.T) {
		ctx, rec := newCtx(e, http.MethodGet, alice, "")
		require.NoError(t, ListHandler(nil)(ctx))
		got := decodeList(t, rec)
		require.Len(t, got, 1)
		require.Equal(t, 2, got[0].Owner)
	})

	t.Run("store error", func(t *testing.T) {
		listProducts = func(context.Context, database.DB, store.ProductScope) ([]model.Product, error) {
			return nil, errors.New("db")
		}
		ctx, rec := newCtx(e, http.MethodGet, alice, "")
		require.NoError(t, ListHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestSearchHandler(t *testing.T) {
	t.Cleanup(restore)
	e := newEcho()
	var gotScope store.ProductScope
	var gotQuery string
	searchProducts = func(_ context.Context, _ database.DB, scope store.ProductScope, q string) ([]model.Product, error) {
		gotScope, gotQuery = scope, q
		return []model.Product{catalog[1]}, nil
	}
	ctx, rec := newCtx(e, http.MethodGet, alice, "", "query", "KAY")
	require.NoError(t, SearchHandler(nil)(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "KAY", gotQuery)
	require.Equal(t, store.ProductScope{All: false, OwnerID: 2}, gotScope)
	require.Len(t, decodeList(t, rec), 1)
}

func TestGetHandler(t *testing.T) {
	t.Cleanup(restore)
	e := newEcho()
	stubCatalog()

	cases := []struct {
		name   string
		claims *service.CustomClaims
		id     string
		status int
	}{
		{"staff any owner", admin, "11", http.StatusOK},
		{"user own", alice, "11", http.StatusOK},
		{"user other owner", alice, "10", http.StatusNotFound},
		{"staff missing", admin, "99", http.StatusNotFound},
		{"user missing", alice, "99", http.StatusNotFound},
		{"bad id", alice, "abc", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, rec := newCtx(e, http.MethodGet, tc.claims, "", "id", tc.id)
			require.NoError(t, GetHandler(nil)(ctx))
			require.Equal(t, tc.status, rec.Code)
		})
	}

	t.Run("hidden and missing look the same", func(t *testing.T) {
		ctx, hidden := newCtx(e, http.MethodGet, alice, "", "id", "10")
		require.NoError(t, GetHandler(nil)(ctx))
		ctx, missing := newCtx(e, http.MethodGet, alice, "", "id", "99")
		require.NoError(t, GetHandler(nil)(ctx))
		require.Equal(t, missing.Body.String(), hidden.Body.String())
	})
}

func stubRefs() {
	getCategoryByID = func(_ context.Context, _ database.DB, id int) (*model.Category, error) {
		if id == 1 {
			return &model.Category{ID: 1, Name: "Tools"}, nil
		}
		return nil, store.ErrNotFound
	}
	getUserByID = func(_ context.Context, _ database.DB, id int) (*model.User, error) {
		if id <= 2 {
			return &model.User{ID: id}, nil
		}
		return nil, store.ErrNotFound
	}
}

func TestCreateHandler(t *testing.T) {
	e := newEcho()

	t.Run("short name persists nothing", func(t *testing.T) {
		t.Cleanup(restore)
		stubRefs()
		createProduct = func(context.Context, database.DB, *model.Product) error {
			t.Fatal("should not persist")
			return nil
		}
		ctx, rec := newCtx(e, http.MethodPost, admin, `{"name":"ab","description":"x","category":1}`)
		require.NoError(t, CreateHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp api.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Contains(t, resp.Fields, "name")
	})

	for _, tc := range []struct {
		name, body, field string
	}{
		{"blank description", `{"name":"Drill","description":"   ","category":1}`, "description"},
		{"blank name", `{"name":"   ","description":"x","category":1}`, "name"},
		{"padded short name", `{"name":" a ","description":"x","category":1}`, "name"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Cleanup(restore)
			stubRefs()
			createProduct = func(context.Context, database.DB, *model.Product) error {
				t.Fatal("should not persist")
				return nil
			}
			ctx, rec := newCtx(e, http.MethodPost, admin, tc.body)
			require.NoError(t, CreateHandler(nil)(ctx))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Contains(t, resp.Fields, tc.field)
		})
	}

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Cleanup(restore)
		stubRefs()
		var saved model.Product
		createProduct = func(_ context.Context, _ database.DB, p *model.Product) error { saved = *p; return nil }
		ctx, rec := newCtx(e, http.MethodPost, admin, `{"name":"  Tent ","description":" 2p\n","category":1}`)
		require.NoError(t, CreateHandler(nil)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "Tent", saved.Name)
		require.Equal(t, "2p", saved.Description)
	})

	t.Run("empty description", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newCtx(e, http.MethodPost, admin, `{"name":"abc","description":"","category":1}`)
		require.NoError(t, CreateHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), `"description"`)
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Cleanup(restore)
		stubRefs()
		ctx, rec := newCtx(e, http.MethodPost, admin, `{"name":"abc","description":"x","category":5}`)
		require.NoError(t, CreateHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), `"category"`)
	})

	t.Run("unknown owner", func(t *testing.T) {
		t.Cleanup(restore)
		stubRefs()
		ctx, rec := newCtx(e, http.MethodPost, admin, `{"name":"abc","description":"x","category":1,"owner":9}`)
		require.NoError(t, CreateHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), `"owner"`)
	})

	t.Run("defaults owner and availability", func(t *testing.T) {
		t.Cleanup(restore)
		stubRefs()
		var saved model.Product
		createProduct = func(_ context.Context, _ database.DB, p *model.Product) error {
			p.ID = 20
			p.DateAdded = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
			saved = *p
			return nil
		}
		ctx, rec := newCtx(e, http.MethodPost, admin, `{"name":"Tent","description":"2p","category":1}`)
		require.NoError(t, CreateHandler(nil)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, 1, saved.OwnerID)
		require.True(t, saved.IsAvailable)
		require.Contains(t, rec.Body.String(), `"id":20`)
	})

	t.Run("explicit owner", func(t *testing.T) {
		t.Cleanup(restore)
		stubRefs()
		var saved model.Product
		createProduct = func(_ context.Context, _ database.DB, p *model.Product) error { saved = *p; return nil }
		ctx, rec := newCtx(e, http.MethodPost, admin, `{"name":"Tent","description":"2p","category":1,"owner":2,"is_available":false}`)
		require.NoError(t, CreateHandler(nil)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, 2, saved.OwnerID)
		require.False(t, saved.IsAvailable)
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		stubRefs()
		createProduct = func(context.Context, database.DB, *model.Product) error { return errors.New("db") }
		ctx, rec := newCtx(e, http.MethodPost, admin, `{"name":"Tent","description":"2p","category":1}`)
		require.NoError(t, CreateHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestUpdateHandler(t *testing.T) {
	e := newEcho()

	t.Run("missing", func(t *testing.T) {
		t.Cleanup(restore)
		stubCatalog()
		ctx, rec := newCtx(e, http.MethodPut, admin, `{"name":"abc","description":"x","category":1}`, "id", "99")
		require.NoError(t, UpdateHandler(nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("keeps owner", func(t *testing.T) {
		t.Cleanup(restore)
		stubCatalog()
		stubRefs()
		var saved model.Product
		updateProduct = func(_ context.Context, _ database.DB, p *model.Product) error { saved = *p; return nil }
		ctx, rec := newCtx(e, http.MethodPut, admin, `{"name":"Sea kayak","description":"k2","category":1}`, "id", "11")
		require.NoError(t, UpdateHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 11, saved.ID)
		require.Equal(t, 2, saved.OwnerID)
		require.Equal(t, "Sea kayak", saved.Name)
		require.True(t, saved.IsAvailable)
	})

	t.Run("blank description", func(t *testing.T) {
		t.Cleanup(restore)
		stubCatalog()
		updateProduct = func(context.Context, database.DB, *model.Product) error {
			t.Fatal("should not persist")
			return nil
		}
		ctx, rec := newCtx(e, http.MethodPut, admin, `{"name":"Kayak","description":" ","category":1}`, "id", "11")
		require.NoError(t, UpdateHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), `"description"`)
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Cleanup(restore)
		stubCatalog()
		updateProduct = func(context.Context, database.DB, *model.Product) error {
			t.Fatal("should not persist")
			return nil
		}
		ctx, rec := newCtx(e, http.MethodPut, admin, `{"name":"k","description":"k2","category":1}`, "id", "11")
		require.NoError(t, UpdateHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteHandlers(t *testing.T) {
	e := newEcho()

	t.Run("delete", func(t *testing.T) {
		t.Cleanup(restore)
		deleted := 0
		deleteProduct = func(_ context.Context, _ database.DB, id int) error { deleted = id; return nil }
		ctx, rec := newCtx(e, http.MethodDelete, admin, "", "id", "10")
		require.NoError(t, DeleteHandler(nil)(ctx))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, 10, deleted)
	})

	t.Run("delete missing", func(t *testing.T) {
		t.Cleanup(restore)
		deleteProduct = func(context.Context, database.DB, int) error { return store.ErrNotFound }
		ctx, rec := newCtx(e, http.MethodDelete, admin, "", "id", "10")
		require.NoError(t, DeleteHandler(nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("force delete by non-admin leaves row", func(t *testing.T) {
		t.Cleanup(restore)
		deleteProduct = func(context.Context, database.DB, int) error {
			t.Fatal("row must stay")
			return nil
		}
		ctx, rec := newCtx(e, http.MethodDelete, alice, "", "id", "11")
		require.NoError(t, ForceDeleteHandler(nil)(ctx))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("force delete by admin", func(t *testing.T) {
		t.Cleanup(restore)
		deleted := 0
		deleteProduct = func(_ context.Context, _ database.DB, id int) error { deleted = id; return nil }
		ctx, rec := newCtx(e, http.MethodDelete, admin, "", "id", "11")
		require.NoError(t, ForceDeleteHandler(nil)(ctx))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, 11, deleted)
	})
}
