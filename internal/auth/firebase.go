package auth

import (
	"context"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/snehasish51/cartify-backend/internal/model"
)

// firebaseClient は*fbauth.Clientのうち本パッケージが使うメソッドの部分集合。
type firebaseClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*fbauth.Token, error)
	CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
}

// FirebaseProvider はFirebase Authenticationを使ったTokenVerifierとAccountManagerの実装。
type FirebaseProvider struct {
	client       firebaseClient
	checkRevoked bool
}

// NewFirebaseProvider はFirebaseProviderを生成する。
// checkRevokedがtrueの場合、トークン検証時に失効状態もIdPに問い合わせる。
func NewFirebaseProvider(client *fbauth.Client, checkRevoked bool) *FirebaseProvider {
	return &FirebaseProvider{client: client, checkRevoked: checkRevoked}
}

// VerifyToken はIDトークンを検証し、uidとクレームを返す。
func (p *FirebaseProvider) VerifyToken(ctx context.Context, idToken string) (*model.Identity, error) {
	if err := CheckWellFormed(idToken); err != nil {
		return nil, err
	}

	var (
		token *fbauth.Token
		err   error
	)
	if p.checkRevoked {
		token, err = p.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	} else {
		token, err = p.client.VerifyIDToken(ctx, idToken)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email, _ := token.Claims["email"].(string)
	return &model.Identity{
		UID:    token.UID,
		Email:  email,
		Claims: token.Claims,
	}, nil
}

// CreateAccount はメールアドレスとパスワードでアカウントを作成する。
func (p *FirebaseProvider) CreateAccount(ctx context.Context, account NewAccount) (string, error) {
	params := (&fbauth.UserToCreate{}).
		Email(account.Email).
		Password(account.Password)
	if account.DisplayName != "" {
		params = params.DisplayName(account.DisplayName)
	}

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return "", fmt.Errorf("%w: %s", ErrEmailAlreadyExists, account.Email)
		}
		return "", fmt.Errorf("failed to create identity account: %w", err)
	}

	return record.UID, nil
}

// DeleteAccount はアカウントを削除する。
func (p *FirebaseProvider) DeleteAccount(ctx context.Context, uid string) error {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("failed to delete identity account: %w", err)
	}
	return nil
}

// compile-time interface check
var (
	_ TokenVerifier  = (*FirebaseProvider)(nil)
	_ AccountManager = (*FirebaseProvider)(nil)
)
