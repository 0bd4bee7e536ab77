package repository

import (
	"context"
	"database/sql"

	"github.com/snehasish51/cartify-backend/internal/model"
)

// PostgresUserRepo はPostgreSQLのdocumentsテーブルを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	store documentStore
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{store: documentStore{db: db}}
}

// FindByID は指定uidのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	found, err := r.store.get(ctx, CollectionUsers, id, user)
	if err != nil || !found {
		return nil, err
	}
	user.ID = id
	return user, nil
}

// Create はユーザードキュメントを作成する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	return r.store.insert(ctx, CollectionUsers, user.ID, user)
}

// Update は指定フィールドのみをマージ更新する。
func (r *PostgresUserRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.store.merge(ctx, CollectionUsers, id, fields)
}

// PostgresCategoryRepo はPostgreSQLのdocumentsテーブルを使用したカテゴリリポジトリ。
type PostgresCategoryRepo struct {
	store documentStore
}

// NewPostgresCategoryRepo はPostgresCategoryRepoを生成する。
func NewPostgresCategoryRepo(db *sql.DB) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{store: documentStore{db: db}}
}

// List はカテゴリを全件返す。
func (r *PostgresCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	docs, err := r.store.list(ctx, CollectionCategories)
	if err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, model.Category{ID: doc.ID, Attributes: doc.Data})
	}
	return categories, nil
}

// PostgresProductRepo はPostgreSQLのdocumentsテーブルを使用した商品リポジトリ。
type PostgresProductRepo struct {
	store documentStore
}

// NewPostgresProductRepo はPostgresProductRepoを生成する。
func NewPostgresProductRepo(db *sql.DB) *PostgresProductRepo {
	return &PostgresProductRepo{store: documentStore{db: db}}
}

// Create は商品ドキュメントを作成する。
func (r *PostgresProductRepo) Create(ctx context.Context, product *model.Product) error {
	return r.store.insert(ctx, CollectionProducts, product.ID, product)
}

// compile-time interface check
var (
	_ UserRepository     = (*PostgresUserRepo)(nil)
	_ CategoryRepository = (*PostgresCategoryRepo)(nil)
	_ ProductRepository  = (*PostgresProductRepo)(nil)
)
