package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/snehasish51/cartify-backend/internal/middleware"
	"github.com/snehasish51/cartify-backend/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Register はIdPのアカウントとユーザードキュメントを作成する。
	Register(ctx context.Context, in model.UserRegistration) (*model.User, error)
	// GetProfile はuidのユーザーを返す。
	GetProfile(ctx context.Context, uid string) (*model.User, error)
	// UpdateProfile はボディのうち更新可能なフィールドを書き込み、更新後のユーザーを返す。
	UpdateProfile(ctx context.Context, uid string, body map[string]any) (*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

type userMessageResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

type currentUserResponse struct {
	UID  string      `json:"uid"`
	User *model.User `json:"user"`
}

// Register はアカウントを登録する。
// POST /users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in model.UserRegistration
	if err := decodeJSONBody(w, r, &in); err != nil && !errors.Is(err, errEmptyBody) {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	user, err := h.service.Register(r.Context(), in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, userMessageResponse{
		Message: "User created",
		User:    user,
	})
}

// Me は呼び出し元のユーザーを返す。
// GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	user, err := h.service.GetProfile(r.Context(), uid)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, currentUserResponse{UID: uid, User: user})
}

// UpdateMe は呼び出し元のプロフィールを部分更新する。
// 空のボディは更新対象なしとして扱う。
// PATCH /users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	uid, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	body := map[string]any{}
	if err := decodeJSONBody(w, r, &body); err != nil && !errors.Is(err, errEmptyBody) {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), uid, body)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, userMessageResponse{
		Message: "User updated",
		User:    user,
	})
}
