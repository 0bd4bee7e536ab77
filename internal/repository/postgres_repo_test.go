package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/snehasish51/cartify-backend/internal/database"
	"github.com/snehasish51/cartify-backend/internal/model"
)

// PostgresリポジトリがそれぞれのインターフェースをFirestore実装と同様に満たすことを検証
func TestPostgresRepos_ImplementInterfaces(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
	var _ CategoryRepository = (*PostgresCategoryRepo)(nil)
	var _ ProductRepository = (*PostgresProductRepo)(nil)
}

// getTestDB はTEST_DATABASE_URLが設定されている場合にマイグレーション済みのDBを返す。
func getTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres integration test")
	}

	db, err := database.Open(dbURL)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("database not reachable: %v", err)
	}
	if err := database.RunMigrations(dbURL); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgresUserRepo_CreateFindUpdate(t *testing.T) {
	db := getTestDB(t)
	repo := NewPostgresUserRepo(db)
	ctx := context.Background()

	id := uuid.NewString()
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &model.User{
		ID:        id,
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@example.com",
		Cart:      []any{},
		Wishlist:  []any{},
		Addresses: []any{},
		CreatedAt: created,
	}

	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := repo.Create(ctx, user); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("second Create error = %v, want ErrAlreadyExists", err)
	}

	if err := repo.Update(ctx, id, map[string]any{"cart": []any{"p1", "p2"}}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if got == nil {
		t.Fatal("expected user, got nil")
	}
	if got.ID != id {
		t.Errorf("ID = %q, want %q", got.ID, id)
	}
	if cart, ok := got.Cart.([]any); !ok || len(cart) != 2 {
		t.Errorf("Cart = %v, want 2 entries", got.Cart)
	}
	if got.LastName != "Lee" {
		t.Errorf("LastName = %v, want untouched %q", got.LastName, "Lee")
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
}

func TestPostgresUserRepo_LooseProfileShapes(t *testing.T) {
	repo := NewPostgresUserRepo(getTestDB(t))
	ctx := context.Background()

	id := uuid.NewString()
	if err := repo.Create(ctx, &model.User{ID: id, FirstName: "Ann", Email: "ann@example.com"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := repo.Update(ctx, id, map[string]any{
		"phone": 5551234,
		"cart":  map[string]any{"sku": "a"},
	}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if got.Phone != float64(5551234) {
		t.Errorf("Phone = %#v, want number 5551234", got.Phone)
	}
	if cart, ok := got.Cart.(map[string]any); !ok || cart["sku"] != "a" {
		t.Errorf("Cart = %#v, want object with sku", got.Cart)
	}
}

func TestPostgresUserRepo_FindByID_NotFound(t *testing.T) {
	repo := NewPostgresUserRepo(getTestDB(t))

	got, err := repo.FindByID(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestPostgresUserRepo_Update_NotFound(t *testing.T) {
	repo := NewPostgresUserRepo(getTestDB(t))

	err := repo.Update(context.Background(), uuid.NewString(), map[string]any{"phone": "1"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestPostgresProductRepo_Create_Duplicate(t *testing.T) {
	repo := NewPostgresProductRepo(getTestDB(t))
	ctx := context.Background()

	p := &model.Product{ID: uuid.NewString(), Name: "Tee", PackOf: 1}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := repo.Create(ctx, p); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("second Create error = %v, want ErrAlreadyExists", err)
	}
}

func TestPostgresCategoryRepo_List_IncludesSeed(t *testing.T) {
	repo := NewPostgresCategoryRepo(getTestDB(t))

	categories, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	ids := map[string]bool{}
	for _, c := range categories {
		ids[c.ID] = true
	}
	for _, want := range []string{"clothing", "footwear", "accessories"} {
		if !ids[want] {
			t.Errorf("category %q not listed", want)
		}
	}
}
