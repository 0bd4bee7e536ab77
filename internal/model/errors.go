// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// HTTPステータスへの変換はhandler層がCodeを元に行う。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ（レスポンスの "error" にそのまま入る）
	Category string // カテゴリ: auth, validation, user, product, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeInvalidToken   = "INVALID_TOKEN"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeNoValidFields  = "NO_VALID_FIELDS"
	ErrCodeUserNotFound   = "USER_NOT_FOUND"
	ErrCodeAlreadyExists  = "ALREADY_EXISTS"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// NewMissingTokenError はAuthorizationヘッダーが無い、またはBearer形式でない場合のエラーを生成する。
func NewMissingTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "No token provided",
		Category: "auth",
	}
}

// NewInvalidTokenError はトークンが不正・期限切れの場合のエラーを生成する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "Invalid or expired token",
		Category: "auth",
	}
}

// NewInvalidRequestError はリクエストボディがJSONとして解析できない場合のエラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "Invalid JSON payload",
		Category: "validation",
	}
}

// NewInvalidInputError は入力値の検証エラーを生成する。
func NewInvalidInputError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidInput,
		Message:  reason,
		Category: "validation",
	}
}

// NewNoValidFieldsError は更新対象フィールドが1つも無い場合のエラーを生成する。
func NewNoValidFieldsError() *APIError {
	return &APIError{
		Code:     ErrCodeNoValidFields,
		Message:  "No valid fields to update",
		Category: "validation",
	}
}

// NewUserNotFoundError はユーザードキュメントが存在しない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found",
		Category: "user",
	}
}

// NewAlreadyExistsError は一意制約に反する作成要求のエラーを生成する。
func NewAlreadyExistsError(what string) *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyExists,
		Message:  fmt.Sprintf("%s already exists", what),
		Category: "validation",
	}
}

// NewRateLimitedError はレート制限超過のエラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "Too many requests. Please try again later.",
		Category: "system",
	}
}

// NewInternalError は予期しないエラーを生成する。
// メッセージには下位クライアントのエラー文言をそのまま載せる。
func NewInternalError(err error) *APIError {
	msg := "internal server error"
	if err != nil {
		msg = err.Error()
	}
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  msg,
		Category: "system",
	}
}
