package auth

import (
	"context"
	"errors"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
)

type mockFirebaseClient struct {
	verifyFn        func(ctx context.Context, idToken string) (*fbauth.Token, error)
	verifyRevokedFn func(ctx context.Context, idToken string) (*fbauth.Token, error)
	createFn        func(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error)
	deleteFn        func(ctx context.Context, uid string) error
}

func (m *mockFirebaseClient) VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error) {
	return m.verifyFn(ctx, idToken)
}

func (m *mockFirebaseClient) VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*fbauth.Token, error) {
	return m.verifyRevokedFn(ctx, idToken)
}

func (m *mockFirebaseClient) CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error) {
	return m.createFn(ctx, user)
}

func (m *mockFirebaseClient) DeleteUser(ctx context.Context, uid string) error {
	return m.deleteFn(ctx, uid)
}

func validToken(t *testing.T) string {
	return signTestToken(t, jwt.MapClaims{"sub": "uid-123"})
}

func TestFirebaseProvider_VerifyToken_Success(t *testing.T) {
	client := &mockFirebaseClient{
		verifyFn: func(_ context.Context, _ string) (*fbauth.Token, error) {
			return &fbauth.Token{
				UID:    "uid-123",
				Claims: map[string]any{"email": "alice@example.com", "admin": true},
			}, nil
		},
	}
	p := &FirebaseProvider{client: client}

	identity, err := p.VerifyToken(context.Background(), validToken(t))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if identity.UID != "uid-123" {
		t.Errorf("UID = %q, want %q", identity.UID, "uid-123")
	}
	if identity.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", identity.Email, "alice@example.com")
	}
	if identity.Claims["admin"] != true {
		t.Error("Claims should carry custom claims")
	}
}

func TestFirebaseProvider_VerifyToken_CheckRevokedUsesRevocationCheck(t *testing.T) {
	called := false
	client := &mockFirebaseClient{
		verifyFn: func(_ context.Context, _ string) (*fbauth.Token, error) {
			t.Fatal("plain verification should not be used when checkRevoked is set")
			return nil, nil
		},
		verifyRevokedFn: func(_ context.Context, _ string) (*fbauth.Token, error) {
			called = true
			return &fbauth.Token{UID: "uid-123", Claims: map[string]any{}}, nil
		},
	}
	p := &FirebaseProvider{client: client, checkRevoked: true}

	if _, err := p.VerifyToken(context.Background(), validToken(t)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !called {
		t.Error("VerifyIDTokenAndCheckRevoked was not called")
	}
}

func TestFirebaseProvider_VerifyToken_MalformedSkipsProvider(t *testing.T) {
	client := &mockFirebaseClient{
		verifyFn: func(_ context.Context, _ string) (*fbauth.Token, error) {
			t.Fatal("provider should not be called for malformed tokens")
			return nil, nil
		},
	}
	p := &FirebaseProvider{client: client}

	_, err := p.VerifyToken(context.Background(), "garbage")
	if !errors.Is(err, ErrMalformedToken) {
		t.Errorf("error = %v, want ErrMalformedToken", err)
	}
}

func TestFirebaseProvider_VerifyToken_ProviderRejects(t *testing.T) {
	client := &mockFirebaseClient{
		verifyFn: func(_ context.Context, _ string) (*fbauth.Token, error) {
			return nil, errors.New("ID token has expired")
		},
	}
	p := &FirebaseProvider{client: client}

	_, err := p.VerifyToken(context.Background(), validToken(t))
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestFirebaseProvider_CreateAccount_ReturnsUID(t *testing.T) {
	client := &mockFirebaseClient{
		createFn: func(_ context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error) {
			if user == nil {
				t.Fatal("UserToCreate should not be nil")
			}
			return &fbauth.UserRecord{UserInfo: &fbauth.UserInfo{UID: "new-uid"}}, nil
		},
	}
	p := &FirebaseProvider{client: client}

	uid, err := p.CreateAccount(context.Background(), NewAccount{
		Email:       "bob@example.com",
		Password:    "secret123",
		DisplayName: "Bob Smith",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if uid != "new-uid" {
		t.Errorf("uid = %q, want %q", uid, "new-uid")
	}
}

func TestFirebaseProvider_CreateAccount_WrapsProviderError(t *testing.T) {
	client := &mockFirebaseClient{
		createFn: func(_ context.Context, _ *fbauth.UserToCreate) (*fbauth.UserRecord, error) {
			return nil, errors.New("quota exceeded")
		},
	}
	p := &FirebaseProvider{client: client}

	_, err := p.CreateAccount(context.Background(), NewAccount{Email: "bob@example.com", Password: "secret123"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrEmailAlreadyExists) {
		t.Error("generic provider errors should not map to ErrEmailAlreadyExists")
	}
}

func TestFirebaseProvider_DeleteAccount(t *testing.T) {
	var deleted string
	client := &mockFirebaseClient{
		deleteFn: func(_ context.Context, uid string) error {
			deleted = uid
			return nil
		},
	}
	p := &FirebaseProvider{client: client}

	if err := p.DeleteAccount(context.Background(), "uid-9"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted != "uid-9" {
		t.Errorf("deleted uid = %q, want %q", deleted, "uid-9")
	}
}
