// Package auth は資格情報の照合と署名付きトークンの発行・検証を提供する。
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken は署名不正・期限切れ・不正形式のトークンを示す。
// 呼び出し側はこれらの原因を区別してはならない。
var ErrInvalidToken = errors.New("invalid token")

// Claims は署名付きトークンの内容を表す。
// 検証済みユーザーIDを唯一のカスタムクレームとして持つ。
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// GenerateToken はユーザーIDを含むHS256署名付きトークンを発行する。
// 有効期限は現在時刻からttl後に設定される。
func GenerateToken(userID int64, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken はトークンの署名と有効期限を検証し、ユーザーIDを返す。
// 署名アルゴリズムはHS256のみを受け付ける。
// 失敗原因（署名不正・期限切れ・不正形式）はすべてErrInvalidTokenに収斂する。
func VerifyToken(tokenString string, secret []byte) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, ErrInvalidToken
	}

	if !token.Valid || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}
