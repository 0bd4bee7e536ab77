// Package auth はIdP（Firebase Authentication）によるIDトークン検証とアカウント作成を提供する。
// 署名検証そのものはIdP側のSDKに委譲する。
package auth

import (
	"context"
	"errors"

	"github.com/snehasish51/cartify-backend/internal/model"
)

var (
	// ErrMalformedToken はトークンがJWTとして解析できないことを示す。
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidToken はIdPがトークンを拒否したこと（不正・期限切れ・失効）を示す。
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrEmailAlreadyExists は登録しようとしたメールアドレスが既に使われていることを示す。
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// TokenVerifier はBearerトークンを検証し、呼び出し元の情報を返すインターフェース。
type TokenVerifier interface {
	// VerifyToken はIDトークンを検証する。
	// 失敗時はErrMalformedTokenまたはErrInvalidTokenをラップしたエラーを返す。
	VerifyToken(ctx context.Context, idToken string) (*model.Identity, error)
}

// NewAccount はIdPに作成するアカウントの情報。
type NewAccount struct {
	Email       string
	Password    string
	DisplayName string
}

// AccountManager はIdP上のアカウント操作のインターフェース。
type AccountManager interface {
	// CreateAccount はアカウントを作成し、IdPが発行したuidを返す。
	CreateAccount(ctx context.Context, account NewAccount) (string, error)
	// DeleteAccount はアカウントを削除する。登録処理の補償に使う。
	DeleteAccount(ctx context.Context, uid string) error
}
