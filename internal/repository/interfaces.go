// Package repository はデータ永続化のインターフェースと、Firestore・PostgreSQLによる実装を定義する。
package repository

import (
	"context"
	"errors"

	"github.com/snehasish51/cartify-backend/internal/model"
)

// コレクション名
const (
	CollectionUsers      = "users"
	CollectionCategories = "categories"
	CollectionProducts   = "products"
)

var (
	// ErrAlreadyExists は同じキーのドキュメントが既に存在することを示す。
	ErrAlreadyExists = errors.New("document already exists")
	// ErrNotFound は更新対象のドキュメントが存在しないことを示す。
	ErrNotFound = errors.New("document not found")
)

// UserRepository はユーザードキュメントの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定uidのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Create はuidをキーにユーザードキュメントを作成する。
	// 既に存在する場合はErrAlreadyExistsを返す。
	Create(ctx context.Context, user *model.User) error

	// Update は指定フィールドのみを上書きするマージ更新を行う。
	// ドキュメントが存在しない場合はErrNotFoundを返す。
	Update(ctx context.Context, id string, fields map[string]any) error
}

// CategoryRepository はカテゴリの読み取りインターフェース。
type CategoryRepository interface {
	// List はカテゴリを全件返す。0件の場合は空スライスを返す。
	List(ctx context.Context) ([]model.Category, error)
}

// ProductRepository は商品ドキュメントの永続化インターフェース。
type ProductRepository interface {
	// Create はIDをキーに商品ドキュメントを作成する。
	// 既に存在する場合はErrAlreadyExistsを返す。
	Create(ctx context.Context, product *model.Product) error
}
