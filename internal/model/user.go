// Package model はドメインモデルを定義する。
package model

import "time"

// User はusersコレクションのドキュメントを表す。
// IDはIdPが発行したuidで、ドキュメントキーとして使うためドキュメント本体には保存しない。
// プロフィール項目はPATCHで受け取った真値をそのまま保存するため、型を固定しない。
type User struct {
	ID        string    `json:"id" firestore:"-"`
	FirstName any       `json:"firstName" firestore:"firstName"`
	LastName  any       `json:"lastName" firestore:"lastName"`
	Email     string    `json:"email" firestore:"email"`
	Phone     any       `json:"phone" firestore:"phone"`
	Cart      any       `json:"cart" firestore:"cart"`
	Wishlist  any       `json:"wishlist" firestore:"wishlist"`
	Addresses any       `json:"addresses" firestore:"addresses"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// UserRegistration はアカウント登録リクエストの入力値。
type UserRegistration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// プロフィール更新で受け付けるフィールド名。
const (
	FieldCart      = "cart"
	FieldWishlist  = "wishlist"
	FieldAddresses = "addresses"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldPhone     = "phone"
)

// ProfileFields はPATCH /users/meで更新できるフィールド。
var ProfileFields = []string{FieldCart, FieldWishlist, FieldAddresses, FieldFirstName, FieldLastName, FieldPhone}

// Identity はIdPで検証済みのトークンから取り出した呼び出し元の情報。
type Identity struct {
	UID    string
	Email  string
	Claims map[string]any
}
