package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/snehasish51/cartify-backend/internal/model"
)

// mapFirestoreError はgRPCステータスをリポジトリのエラーに変換する。
func mapFirestoreError(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	default:
		return err
	}
}

// FirestoreUserRepo はFirestoreを使用したユーザーリポジトリ。
type FirestoreUserRepo struct {
	client *firestore.Client
}

// NewFirestoreUserRepo はFirestoreUserRepoを生成する。
func NewFirestoreUserRepo(client *firestore.Client) *FirestoreUserRepo {
	return &FirestoreUserRepo{client: client}
}

// FindByID は指定uidのユーザーを取得する。見つからない場合はnilを返す。
func (r *FirestoreUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	snap, err := r.client.Collection(CollectionUsers).Doc(id).Get(ctx)
	if err != nil {
		if errors.Is(mapFirestoreError(err), ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user document: %w", err)
	}

	user := &model.User{}
	if err := snap.DataTo(user); err != nil {
		return nil, fmt.Errorf("failed to decode user document: %w", err)
	}
	user.ID = snap.Ref.ID

	return user, nil
}

// Create はuidをキーにユーザードキュメントを作成する。
func (r *FirestoreUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.client.Collection(CollectionUsers).Doc(user.ID).Create(ctx, user)
	if err != nil {
		if mapped := mapFirestoreError(err); errors.Is(mapped, ErrAlreadyExists) {
			return mapped
		}
		return fmt.Errorf("failed to create user document: %w", err)
	}
	return nil
}

// Update は指定フィールドのみを更新する。
func (r *FirestoreUserRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	_, err := r.client.Collection(CollectionUsers).Doc(id).Update(ctx, toFirestoreUpdates(fields))
	if err != nil {
		if mapped := mapFirestoreError(err); errors.Is(mapped, ErrNotFound) {
			return mapped
		}
		return fmt.Errorf("failed to update user document: %w", err)
	}
	return nil
}

// toFirestoreUpdates はフィールドマップをキー順のUpdate列に変換する。
func toFirestoreUpdates(fields map[string]any) []firestore.Update {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{Path: k, Value: fields[k]})
	}
	return updates
}

// FirestoreCategoryRepo はFirestoreを使用したカテゴリリポジトリ。
type FirestoreCategoryRepo struct {
	client *firestore.Client
}

// NewFirestoreCategoryRepo はFirestoreCategoryRepoを生成する。
func NewFirestoreCategoryRepo(client *firestore.Client) *FirestoreCategoryRepo {
	return &FirestoreCategoryRepo{client: client}
}

// List はcategoriesコレクションの全ドキュメントを返す。
func (r *FirestoreCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	snaps, err := r.client.Collection(CollectionCategories).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]model.Category, 0, len(snaps))
	for _, snap := range snaps {
		categories = append(categories, model.Category{
			ID:         snap.Ref.ID,
			Attributes: snap.Data(),
		})
	}
	return categories, nil
}

// FirestoreProductRepo はFirestoreを使用した商品リポジトリ。
type FirestoreProductRepo struct {
	client *firestore.Client
}

// NewFirestoreProductRepo はFirestoreProductRepoを生成する。
func NewFirestoreProductRepo(client *firestore.Client) *FirestoreProductRepo {
	return &FirestoreProductRepo{client: client}
}

// Create は商品ドキュメントを作成する。
func (r *FirestoreProductRepo) Create(ctx context.Context, product *model.Product) error {
	_, err := r.client.Collection(CollectionProducts).Doc(product.ID).Create(ctx, product)
	if err != nil {
		if mapped := mapFirestoreError(err); errors.Is(mapped, ErrAlreadyExists) {
			return mapped
		}
		return fmt.Errorf("failed to create product document: %w", err)
	}
	return nil
}

// compile-time interface check
var (
	_ UserRepository     = (*FirestoreUserRepo)(nil)
	_ CategoryRepository = (*FirestoreCategoryRepo)(nil)
	_ ProductRepository  = (*FirestoreProductRepo)(nil)
)
