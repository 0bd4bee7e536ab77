package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/snehasish51/cartify-backend/internal/cache"
	"github.com/snehasish51/cartify-backend/internal/model"
)

// categoriesCacheKey はカテゴリ一覧のキャッシュキー。
const categoriesCacheKey = "cartify:categories:all"

// ByteCache はCachedCategoryRepoが使うキャッシュのインターフェース。
// キーが無い場合、GetはErrMissを返す。
type ByteCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CacheRecorder はキャッシュのヒット/ミスを記録するインターフェース。
type CacheRecorder interface {
	RecordCacheResult(cacheName, result string)
}

// CachedCategoryRepo はカテゴリ一覧をキャッシュするリポジトリ。
// キャッシュの障害時は下位リポジトリの結果をそのまま返す。
type CachedCategoryRepo struct {
	next     CategoryRepository
	cache    ByteCache
	ttl      time.Duration
	recorder CacheRecorder
}

// NewCachedCategoryRepo はCachedCategoryRepoを生成する。recorderはnilでもよい。
func NewCachedCategoryRepo(next CategoryRepository, c ByteCache, ttl time.Duration, recorder CacheRecorder) *CachedCategoryRepo {
	return &CachedCategoryRepo{next: next, cache: c, ttl: ttl, recorder: recorder}
}

// List はキャッシュを優先してカテゴリ一覧を返す。
func (r *CachedCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	b, err := r.cache.Get(ctx, categoriesCacheKey)
	switch {
	case err == nil:
		var categories []model.Category
		jsonErr := json.Unmarshal(b, &categories)
		if jsonErr == nil {
			r.record("hit")
			return categories, nil
		}
		slog.Warn("discarding undecodable category cache entry", slog.String("error", jsonErr.Error()))
	case errors.Is(err, cache.ErrMiss):
		r.record("miss")
	default:
		r.record("error")
		slog.Warn("category cache unavailable, reading from store", slog.String("error", err.Error()))
	}

	categories, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(categories); err == nil {
		if err := r.cache.Set(ctx, categoriesCacheKey, b, r.ttl); err != nil {
			slog.Warn("failed to backfill category cache", slog.String("error", err.Error()))
		}
	}

	return categories, nil
}

func (r *CachedCategoryRepo) record(result string) {
	if r.recorder != nil {
		r.recorder.RecordCacheResult("categories", result)
	}
}

var _ CategoryRepository = (*CachedCategoryRepo)(nil)
