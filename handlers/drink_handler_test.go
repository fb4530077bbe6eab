package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/coffee-shop/backend/auth"
	"github.com/upb/coffee-shop/backend/models"
	"github.com/upb/coffee-shop/backend/services"
	"go.uber.org/zap"
)

// MockDrinkService is a mock implementation of DrinkService
type MockDrinkService struct {
	mock.Mock
}

func (m *MockDrinkService) List(ctx context.Context) ([]*models.Drink, error) {
	args := m.Called(ctx)
	if drinks := args.Get(0); drinks != nil {
		return drinks.([]*models.Drink), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDrinkService) Create(ctx context.Context, req models.CreateDrinkRequest) (*models.Drink, error) {
	args := m.Called(ctx, req)
	if drink := args.Get(0); drink != nil {
		return drink.(*models.Drink), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDrinkService) Update(ctx context.Context, id int64, req models.UpdateDrinkRequest) (*models.Drink, error) {
	args := m.Called(ctx, id, req)
	if drink := args.Get(0); drink != nil {
		return drink.(*models.Drink), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDrinkService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var baristaClaims = auth.Claims{"sub": "auth0|barista", "permissions": []interface{}{"post:drinks"}}

func newTestDrinkHandler() (*DrinkHandler, *MockDrinkService) {
	svc := new(MockDrinkService)
	return NewDrinkHandler(svc, zap.NewNop()), svc
}

func latte() *models.Drink {
	return &models.Drink{
		ID:    3,
		Title: "latte",
		Recipe: models.Recipe{
			{Name: "espresso", Color: "brown", Parts: 1},
			{Name: "milk", Color: "white", Parts: 3},
		},
	}
}

// withID attaches a chi route context carrying the {id} parameter
func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func assertErrorBody(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	assert.Equal(t, status, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(status), body["error"])
	assert.Equal(t, message, body["message"])
}

func TestHandleList(t *testing.T) {
	t.Run("returns short representation", func(t *testing.T) {
		handler, svc := newTestDrinkHandler()
		svc.On("List", mock.Anything).Return([]*models.Drink{latte()}, nil)

		w := httptest.NewRecorder()
		handler.HandleList(w, httptest.NewRequest(http.MethodGet, "/drinks", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`{"success":true,"drinks":[{"id":3,"title":"latte","recipe":[{"color":"brown","parts":1},{"color":"white","parts":3}]}]}`,
			w.Body.String())
	})

	t.Run("empty menu is an empty list", func(t *testing.T) {
		handler, svc := newTestDrinkHandler()
		svc.On("List", mock.Anything).Return([]*models.Drink{}, nil)

		w := httptest.NewRecorder()
		handler.HandleList(w, httptest.NewRequest(http.MethodGet, "/drinks", nil))

		assert.JSONEq(t, `{"success":true,"drinks":[]}`, w.Body.String())
	})

	t.Run("service failure", func(t *testing.T) {
		handler, svc := newTestDrinkHandler()
		svc.On("List", mock.Anything).Return(nil, services.ErrDatabaseError.Wrap(errors.New("down")))

		w := httptest.NewRecorder()
		handler.HandleList(w, httptest.NewRequest(http.MethodGet, "/drinks", nil))

		assertErrorBody(t, w, http.StatusInternalServerError, "internal server error")
	})
}

func TestHandleListDetail(t *testing.T) {
	handler, svc := newTestDrinkHandler()
	svc.On("List", mock.Anything).Return([]*models.Drink{latte()}, nil)

	w := httptest.NewRecorder()
	handler.HandleListDetail(w, httptest.NewRequest(http.MethodGet, "/drinks-detail", nil), baristaClaims)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	drinks := body["drinks"].([]interface{})
	require.Len(t, drinks, 1)
	recipe := drinks[0].(map[string]interface{})["recipe"].([]interface{})
	assert.Equal(t, "espresso", recipe[0].(map[string]interface{})["name"])
}

func TestHandleCreate(t *testing.T) {
	t.Run("creates from ingredient list", func(t *testing.T) {
		handler, svc := newTestDrinkHandler()
		svc.On("Create", mock.Anything, models.CreateDrinkRequest{
			Title:  "latte",
			Recipe: latte().Recipe,
		}).Return(latte(), nil)

		body := `{"title":"latte","recipe":[{"name":"espresso","color":"brown","parts":1},{"name":"milk","color":"white","parts":3}]}`
		w := httptest.NewRecorder()
		handler.HandleCreate(w, httptest.NewRequest(http.MethodPost, "/drinks", strings.NewReader(body)), baristaClaims)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody(t, w)
		assert.Equal(t, true, resp["success"])
		drinks := resp["drinks"].([]interface{})
		require.Len(t, drinks, 1)
		assert.Equal(t, float64(3), drinks[0].(map[string]interface{})["id"])
		svc.AssertExpectations(t)
	})

	t.Run("single ingredient object becomes a one element recipe", func(t *testing.T) {
		handler, svc := newTestDrinkHandler()
		want := models.CreateDrinkRequest{
			Title:  "espresso",
			Recipe: models.Recipe{{Name: "espresso", Color: "brown", Parts: 1}},
		}
		svc.On("Create", mock.Anything, want).Return(&models.Drink{ID: 4, Title: want.Title, Recipe: want.Recipe}, nil)

		body := `{"title":"espresso","recipe":{"name":"espresso","color":"brown","parts":1}}`
		w := httptest.NewRecorder()
		handler.HandleCreate(w, httptest.NewRequest(http.MethodPost, "/drinks", strings.NewReader(body)), baristaClaims)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"malformed json", `{"title":`, http.StatusBadRequest, "bad request"},
		{"not json", `title=latte`, http.StatusBadRequest, "bad request"},
		{"empty body", ``, http.StatusBadRequest, "bad request"},
		{"wrong type", `{"title":42}`, http.StatusUnprocessableEntity, "unprocessable"},
		{"scalar recipe", `{"title":"latte","recipe":"milk"}`, http.StatusUnprocessableEntity, "unprocessable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, svc := newTestDrinkHandler()

			w := httptest.NewRecorder()
			handler.HandleCreate(w, httptest.NewRequest(http.MethodPost, "/drinks", strings.NewReader(tt.body)), baristaClaims)

			assertErrorBody(t, w, tt.wantStatus, tt.wantMsg)
			svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("validation failure", func(t *testing.T) {
		handler, svc := newTestDrinkHandler()
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, services.ErrMissingTitle)

		w := httptest.NewRecorder()
		handler.HandleCreate(w, httptest.NewRequest(http.MethodPost, "/drinks", strings.NewReader(`{"recipe":[]}`)), baristaClaims)

		assertErrorBody(t, w, http.StatusUnprocessableEntity, "unprocessable")
	})

	t.Run("duplicate title", func(t *testing.T) {
		handler, svc := newTestDrinkHandler()
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, services.ErrDuplicateTitle)

		body := `{"title":"water","recipe":{"name":"water","color":"blue","parts":1}}`
		w := httptest.NewRecorder()
		handler.HandleCreate(w, httptest.NewRequest(http.MethodPost, "/drinks", strings.NewReader(body)), baristaClaims)

		assertErrorBody(t, w, http.StatusUnprocessableEntity, "unprocessable")
	})
}

func TestHandleUpdate(t *testing.T) {
	t.Run("updates title", func(t *testing.T) {
		handler, svc := newTestDrinkHandler()
		updated := latte()
		updated.Title = "flat white"
		svc.On("Update", mock.Anything, int64(3), models.UpdateDrinkRequest{Title: "flat white"}).Return(updated, nil)

		req := withID(httptest.NewRequest(http.MethodPatch, "/drinks/3", strings.NewReader(`{"title":"flat white"}`)), "3")
		w := httptest.NewRecorder()
		handler.HandleUpdate(w, req, baristaClaims)

		assert.Equal(t, http.StatusOK, w.Code)
		drinks := decodeBody(t, w)["drinks"].([]interface{})
		assert.Equal(t, "flat white", drinks[0].(map[string]interface{})["title"])
		svc.AssertExpectations(t)
	})

	t.Run("unknown drink", func(t *testing.T) {
		handler, svc := newTestDrinkHandler()
		svc.On("Update", mock.Anything, int64(99), mock.Anything).Return(nil, services.ErrDrinkNotFound)

		req := withID(httptest.NewRequest(http.MethodPatch, "/drinks/99", strings.NewReader(`{"title":"x"}`)), "99")
		w := httptest.NewRecorder()
		handler.HandleUpdate(w, req, baristaClaims)

		assertErrorBody(t, w, http.StatusNotFound, "resource not found")
	})

	for _, id := range []string{"abc", "0", "-1", "1.5", ""} {
		t.Run("unparseable id "+id, func(t *testing.T) {
			handler, svc := newTestDrinkHandler()

			req := withID(httptest.NewRequest(http.MethodPatch, "/drinks/x", strings.NewReader(`{"title":"x"}`)), id)
			w := httptest.NewRecorder()
			handler.HandleUpdate(w, req, baristaClaims)

			assertErrorBody(t, w, http.StatusNotFound, "resource not found")
			svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		handler, svc := newTestDrinkHandler()

		req := withID(httptest.NewRequest(http.MethodPatch, "/drinks/3", strings.NewReader(`{`)), "3")
		w := httptest.NewRecorder()
		handler.HandleUpdate(w, req, baristaClaims)

		assertErrorBody(t, w, http.StatusBadRequest, "bad request")
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleDelete(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		handler, svc := newTestDrinkHandler()
		svc.On("Delete", mock.Anything, int64(3)).Return(nil)

		w := httptest.NewRecorder()
		handler.HandleDelete(w, withID(httptest.NewRequest(http.MethodDelete, "/drinks/3", nil), "3"), baristaClaims)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"delete":3}`, w.Body.String())
	})

	t.Run("unknown drink", func(t *testing.T) {
		handler, svc := newTestDrinkHandler()
		svc.On("Delete", mock.Anything, int64(7)).Return(services.ErrDrinkNotFound)

		w := httptest.NewRecorder()
		handler.HandleDelete(w, withID(httptest.NewRequest(http.MethodDelete, "/drinks/7", nil), "7"), baristaClaims)

		assertErrorBody(t, w, http.StatusNotFound, "resource not found")
	})
}
