// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/snehasish51/cartify-backend/internal/auth"
	"github.com/snehasish51/cartify-backend/internal/model"
)

const bearerPrefix = "Bearer "

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに検証済みの呼び出し元情報を格納するためのキー。
var identityContextKey = contextKey("identity")

// AuthFailureRecorder は認証失敗の理由を記録するインターフェース。
type AuthFailureRecorder interface {
	RecordAuthFailure(reason string)
}

// BearerToken はAuthorizationヘッダーからトークンを取り出す。
// "Bearer " で始まらない場合はfalseを返す。
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), true
}

// NewAuthMiddleware はBearerトークンを検証し、呼び出し元の情報をコンテキストに注入するミドルウェアを返す。
// ヘッダーが無い、またはBearer形式でない場合は401 "No token provided"、
// トークンが不正・期限切れの場合は401 "Invalid or expired token" を返す。
// recorderはnilでもよい。
func NewAuthMiddleware(verifier auth.TokenVerifier, recorder AuthFailureRecorder) func(next http.Handler) http.Handler {
	record := func(reason string) {
		if recorder != nil {
			recorder.RecordAuthFailure(reason)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r.Header.Get("Authorization"))
			if !ok {
				record("missing_token")
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewMissingTokenError())
				return
			}

			identity, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, auth.ErrMalformedToken) {
					reason = "malformed_token"
				}
				record(reason)
				slog.Info("token verification failed",
					slog.String("reason", reason),
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewInvalidTokenError())
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// IdentityFromContext はリクエストコンテキストから呼び出し元の情報を取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (*model.Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok || identity == nil || identity.UID == "" {
		return nil, fmt.Errorf("identity not found in context")
	}
	return identity, nil
}

// UserIDFromContext はリクエストコンテキストから呼び出し元のuidを取得する。
func UserIDFromContext(ctx context.Context) (string, error) {
	identity, err := IdentityFromContext(ctx)
	if err != nil {
		return "", err
	}
	return identity.UID, nil
}

// ContextWithIdentity はコンテキストに呼び出し元の情報を注入する。
// アクセスログのフィールドがあればuidを書き込む。
func ContextWithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	if fields, ok := ctx.Value(logFieldsContextKey).(*requestLogFields); ok && identity != nil {
		fields.userID = identity.UID
	}
	return context.WithValue(ctx, identityContextKey, identity)
}

// ContextWithUserID はuidのみを持つ呼び出し元情報をコンテキストに注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return ContextWithIdentity(ctx, &model.Identity{UID: userID})
}
