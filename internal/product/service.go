// Package product は商品作成のドメインロジックを提供する。
package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/snehasish51/cartify-backend/internal/events"
	"github.com/snehasish51/cartify-backend/internal/model"
	"github.com/snehasish51/cartify-backend/internal/repository"
	"github.com/snehasish51/cartify-backend/internal/security"
)

const (
	// defaultPackOf はpackOf省略時の値。
	defaultPackOf = 1
	maxIDLength   = 128
)

// Sanitizer は説明文のHTMLを無害化するインターフェース。
// 設定されていない場合、説明文は受け取ったまま保存する。
type Sanitizer interface {
	Sanitize(raw string) string
}

// ImageProber は画像URLの到達性を確認するインターフェース。
type ImageProber interface {
	Probe(ctx context.Context, rawURL string) error
}

// CreationRecorder は商品作成を記録するインターフェース。
type CreationRecorder interface {
	RecordProductCreated()
}

// Service は商品のサービス層。
type Service struct {
	products  repository.ProductRepository
	sanitizer Sanitizer
	urls      security.URLValidator
	prober    ImageProber
	publisher events.Publisher
	recorder  CreationRecorder
	now       func() time.Time
	newID     func() (string, error)
}

// NewService はServiceの新しいインスタンスを生成する。
// sanitizerがnilの場合は説明文を加工しない。proberがnilの場合は画像を検証しない。
// publisherとrecorderもnilでよい。
func NewService(
	products repository.ProductRepository,
	sanitizer Sanitizer,
	urls security.URLValidator,
	prober ImageProber,
	publisher events.Publisher,
	recorder CreationRecorder,
) *Service {
	return &Service{
		products:  products,
		sanitizer: sanitizer,
		urls:      urls,
		prober:    prober,
		publisher: publisher,
		recorder:  recorder,
		now:       time.Now,
		newID:     newProductID,
	}
}

// newProductID は時刻順に並ぶUUIDv7を生成する。
func newProductID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Create は入力にデフォルト値を補って商品を作成する。
// IDが指定されていない場合は生成し、指定IDが既に存在する場合はALREADY_EXISTSを返す。
func (s *Service) Create(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	id := in.ID
	if strings.TrimSpace(id) == "" {
		generated, err := s.newID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate product id: %w", err)
		}
		id = generated
	}

	images := orEmpty(in.Images)
	if err := s.checkImages(ctx, images); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &model.Product{
		ID:            id,
		Name:          in.Name,
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		TypeID:        in.TypeID,
		SubtypeID:     in.SubtypeID,
		Price:         *in.Price,
		DiscountType:  in.DiscountType,
		PackOf:        defaultPackOf,
		Images:        images,
		Variants:      orEmpty(in.Variants),
		Attributes:    orEmpty(in.Attributes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.Description != nil {
		p.Description = *in.Description
		if s.sanitizer != nil {
			p.Description = s.sanitizer.Sanitize(p.Description)
		}
	}
	if in.DiscountValue != nil {
		p.DiscountValue = *in.DiscountValue
	}
	if in.PackOf != nil {
		p.PackOf = *in.PackOf
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}

	if err := s.products.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, model.NewAlreadyExistsError("Product")
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	slog.Info("product created",
		slog.String("product_id", p.ID),
		slog.String("category_id", p.CategoryID),
	)
	if s.recorder != nil {
		s.recorder.RecordProductCreated()
	}
	events.Emit(ctx, s.publisher, events.New(events.TypeProductCreated, p.ID, map[string]any{
		"name":       p.Name,
		"categoryId": p.CategoryID,
		"price":      p.Price,
	}))

	return p, nil
}

func validateInput(in model.ProductInput) error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		missing = append(missing, "categoryId")
	}
	if strings.TrimSpace(in.SubcategoryID) == "" {
		missing = append(missing, "subcategoryId")
	}
	if strings.TrimSpace(in.TypeID) == "" {
		missing = append(missing, "typeId")
	}
	if in.Price == nil {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return model.NewInvalidInputError("Missing required fields: " + strings.Join(missing, ", "))
	}

	if *in.Price < 0 {
		return model.NewInvalidInputError("price must not be negative")
	}
	if in.DiscountValue != nil && *in.DiscountValue < 0 {
		return model.NewInvalidInputError("discountValue must not be negative")
	}
	if in.PackOf != nil && *in.PackOf < 1 {
		return model.NewInvalidInputError("packOf must be at least 1")
	}
	if in.Rating != nil && *in.Rating < 0 {
		return model.NewInvalidInputError("rating must not be negative")
	}

	// ドキュメントキーとしてパス区切りは使えない
	id := in.ID
	if len(id) > maxIDLength || strings.Contains(id, "/") {
		return model.NewInvalidInputError("id must not contain '/' and must be at most 128 characters")
	}
	return nil
}

// checkImages は画像のうちURLを表す要素（文字列、または"url"キーを持つオブジェクト）を
// 検証し、到達性を確認する。proberが無い場合は何もしない。それ以外の要素は検証しない。
func (s *Service) checkImages(ctx context.Context, images []any) error {
	if s.prober == nil {
		return nil
	}
	for i, img := range images {
		rawURL, ok := imageURL(img)
		if !ok {
			continue
		}
		if err := s.urls.ValidateURL(rawURL); err != nil {
			return model.NewInvalidInputError(fmt.Sprintf("images[%d]: %v", i, err))
		}
		if err := s.prober.Probe(ctx, rawURL); err != nil {
			return model.NewInvalidInputError(fmt.Sprintf("images[%d]: %v", i, err))
		}
	}
	return nil
}

func imageURL(v any) (string, bool) {
	switch img := v.(type) {
	case string:
		return img, img != ""
	case map[string]any:
		u, ok := img["url"].(string)
		return u, ok && u != ""
	default:
		return "", false
	}
}

func orEmpty(v []any) []any {
	if v == nil {
		return []any{}
	}
	return v
}
