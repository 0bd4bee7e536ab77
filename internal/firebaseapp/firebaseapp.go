// Package firebaseapp はサービスアカウント鍵からFirebaseアプリと各クライアントを初期化する。
package firebaseapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Clients はFirebaseアプリから取得したクライアント群。
type Clients struct {
	Auth      *fbauth.Client
	Firestore *firestore.Client // withFirestoreがfalseの場合はnil
}

// serviceAccount はサービスアカウント鍵のうち起動時に検証する項目。
type serviceAccount struct {
	Type      string `json:"type"`
	ProjectID string `json:"project_id"`
}

// ProjectIDFromKey はサービスアカウント鍵JSONからproject_idを取り出す。
// 鍵がJSONとして解析できない場合はエラーを返す。
func ProjectIDFromKey(credentialsJSON string) (string, error) {
	var sa serviceAccount
	if err := json.Unmarshal([]byte(credentialsJSON), &sa); err != nil {
		return "", fmt.Errorf("FIREBASE_KEY is not valid JSON: %w", err)
	}
	return sa.ProjectID, nil
}

// New はFirebaseアプリを初期化し、Authクライアントと（必要なら）Firestoreクライアントを返す。
// projectIDが空の場合は鍵のproject_idを使う。
func New(ctx context.Context, credentialsJSON, projectID string, withFirestore bool) (*Clients, error) {
	keyProjectID, err := ProjectIDFromKey(credentialsJSON)
	if err != nil {
		return nil, err
	}
	if projectID == "" {
		projectID = keyProjectID
	}
	if projectID == "" {
		return nil, errors.New("firebase project id is not set (FIREBASE_PROJECT_ID or project_id in FIREBASE_KEY)")
	}

	opt := option.WithCredentialsJSON([]byte(credentialsJSON))
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firebase auth client: %w", err)
	}

	clients := &Clients{Auth: authClient}
	if withFirestore {
		fsClient, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get firestore client: %w", err)
		}
		clients.Firestore = fsClient
	}

	return clients, nil
}

// Close はFirestoreクライアントを閉じる。
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
