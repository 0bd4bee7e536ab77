package handler

import (
	"context"
	"net/http"

	"github.com/snehasish51/cartify-backend/internal/middleware"
	"github.com/snehasish51/cartify-backend/internal/model"
)

// ProductServiceInterface は商品ハンドラーが必要とするサービスインターフェース。
type ProductServiceInterface interface {
	Create(ctx context.Context, in model.ProductInput) (*model.Product, error)
}

// ProductHandler は商品のHTTPハンドラー。
type ProductHandler struct {
	service ProductServiceInterface
}

// NewProductHandler はProductHandlerを生成する。
func NewProductHandler(service ProductServiceInterface) *ProductHandler {
	return &ProductHandler{service: service}
}

// CreateProduct は商品を作成し、デフォルト値を補った商品を返す。
// POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if err := decodeJSONBody(w, r, &in); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	product, err := h.service.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, product)
}
