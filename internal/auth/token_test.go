package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret-32-bytes-long-string")

func TestGenerateToken_VerifyRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	userID, err := VerifyToken(token, testSecret)
	if err != nil {
		t.Fatalf("VerifyToken returned error: %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
}

func TestVerifyToken_WrongSecret_Fails(t *testing.T) {
	token, err := GenerateToken(42, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	_, err = VerifyToken(token, []byte("another-secret-entirely-different"))
	if err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyToken_Malformed_Fails(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "not a JWT", token: "garbage"},
		{name: "truncated JWT", token: "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyToken(tt.token, testSecret); err != ErrInvalidToken {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestVerifyToken_Tampered_Fails(t *testing.T) {
	token, err := GenerateToken(42, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	// 末尾の署名部分を書き換える
	tampered := token[:len(token)-2] + "xx"

	if _, err := VerifyToken(tampered, testSecret); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

// 有効期限の境界: 1秒過去は失敗し、1秒未来は成功する。
func TestVerifyToken_ExpiryBoundary(t *testing.T) {
	expired, err := GenerateToken(42, testSecret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if _, err := VerifyToken(expired, testSecret); err != ErrInvalidToken {
		t.Errorf("expired token: err = %v, want ErrInvalidToken", err)
	}

	valid, err := GenerateToken(42, testSecret, 1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	userID, err := VerifyToken(valid, testSecret)
	if err != nil {
		t.Errorf("token expiring 1s in the future should verify, got %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
}

// 署名アルゴリズム"none"のトークンは拒否される。
func TestVerifyToken_NoneAlgorithm_Fails(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: 42,
	})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	if _, err := VerifyToken(unsigned, testSecret); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

// ユーザーIDクレームを欠くトークンは拒否される。
func TestVerifyToken_MissingUserID_Fails(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := VerifyToken(signed, testSecret); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
