package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// CheckWellFormed はトークンがJWTとして構文的に正しいかを署名検証なしで確認する。
// 明らかに壊れたトークンでIdPへのネットワーク呼び出しを発生させないために使う。
func CheckWellFormed(token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}

	return nil
}
