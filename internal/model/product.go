package model

import "time"

// Product はproductsコレクションのドキュメントを表す。
// SubtypeIDとDiscountTypeは未指定時にnullとして保存するためポインタで持つ。
type Product struct {
	ID            string    `json:"id" firestore:"-"`
	Name          string    `json:"name" firestore:"name"`
	Description   string    `json:"description" firestore:"description"`
	CategoryID    string    `json:"categoryId" firestore:"categoryId"`
	SubcategoryID string    `json:"subcategoryId" firestore:"subcategoryId"`
	TypeID        string    `json:"typeId" firestore:"typeId"`
	SubtypeID     *string   `json:"subtypeId" firestore:"subtypeId"`
	Price         float64   `json:"price" firestore:"price"`
	DiscountType  *string   `json:"discountType" firestore:"discountType"`
	DiscountValue float64   `json:"discountValue" firestore:"discountValue"`
	PackOf        int       `json:"packOf" firestore:"packOf"`
	Images        []any     `json:"images" firestore:"images"`
	Variants      []any     `json:"variants" firestore:"variants"`
	Attributes    []any     `json:"attributes" firestore:"attributes"`
	Rating        float64   `json:"rating" firestore:"rating"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// ProductInput は商品作成リクエストの入力値。
// 省略と明示的なゼロ値を区別するため、任意項目はポインタで受ける。
type ProductInput struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	CategoryID    string   `json:"categoryId"`
	SubcategoryID string   `json:"subcategoryId"`
	TypeID        string   `json:"typeId"`
	SubtypeID     *string  `json:"subtypeId"`
	Price         *float64 `json:"price"`
	DiscountType  *string  `json:"discountType"`
	DiscountValue *float64 `json:"discountValue"`
	PackOf        *int     `json:"packOf"`
	Images        []any    `json:"images"`
	Variants      []any    `json:"variants"`
	Attributes    []any    `json:"attributes"`
	Rating        *float64 `json:"rating"`
}
