package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/snehasish51/cartify-backend/internal/middleware"
	"github.com/snehasish51/cartify-backend/internal/model"
)

// withUserID はテスト用にリクエストコンテキストへuidを注入するヘルパー。
func withUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.ContextWithUserID(r.Context(), userID))
}

// parseAPIErrorResponse はレスポンスボディからエラーレスポンスをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorResponseBody {
	t.Helper()
	var result middleware.ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result
}

// decodeBody はレスポンスボディを汎用マップにデコードするヘルパー。
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v\nbody: %s", err, w.Body.String())
	}
	return result
}

// --- モック定義 ---

type mockUserService struct {
	registerFn      func(ctx context.Context, in model.UserRegistration) (*model.User, error)
	getProfileFn    func(ctx context.Context, uid string) (*model.User, error)
	updateProfileFn func(ctx context.Context, uid string, body map[string]any) (*model.User, error)
}

func (m *mockUserService) Register(ctx context.Context, in model.UserRegistration) (*model.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, in)
	}
	return &model.User{ID: "uid-1", Email: in.Email}, nil
}

func (m *mockUserService) GetProfile(ctx context.Context, uid string) (*model.User, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, uid)
	}
	return &model.User{ID: uid}, nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, uid string, body map[string]any) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, uid, body)
	}
	return &model.User{ID: uid}, nil
}

type mockCategoryService struct {
	listFn func(ctx context.Context) ([]model.Category, error)
}

func (m *mockCategoryService) List(ctx context.Context) ([]model.Category, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Category{}, nil
}

type mockProductService struct {
	createFn func(ctx context.Context, in model.ProductInput) (*model.Product, error)
}

func (m *mockProductService) Create(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return &model.Product{ID: "p-1", Name: in.Name}, nil
}

type mockTokenVerifier struct {
	verifyFn func(ctx context.Context, token string) (*model.Identity, error)
}

func (m *mockTokenVerifier) VerifyToken(ctx context.Context, token string) (*model.Identity, error) {
	return m.verifyFn(ctx, token)
}
