// Package category はカテゴリ一覧の参照を提供する。
package category

import (
	"context"
	"fmt"

	"github.com/snehasish51/cartify-backend/internal/model"
	"github.com/snehasish51/cartify-backend/internal/repository"
)

// Service はカテゴリのサービス層。カテゴリは読み取り専用。
type Service struct {
	categories repository.CategoryRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(categories repository.CategoryRepository) *Service {
	return &Service{categories: categories}
}

// List は全カテゴリを返す。カテゴリが無い場合は空スライスを返す。
func (s *Service) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		return []model.Category{}, nil
	}
	return categories, nil
}
