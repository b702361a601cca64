package jwt

import (
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/1Swaraj1/Krishi-Scan-FYP/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		TokenTTL:  24 * time.Hour,
	})
}

func TestGenerateAndParse(t *testing.T) {
	m := newTestManager()

	token, err := m.Generate(42)
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("期望 UserID=42，实际=%d", claims.UserID)
	}
	if claims.Issuer != "krishi-scan" {
		t.Errorf("期望 Issuer=krishi-scan，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}

	// 有效期约为 24h
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Errorf("Token TTL 期望约24h，实际=%v", ttl)
	}
}

func TestParse_Expired(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		TokenTTL:  -1 * time.Hour, // 签发即过期
	})

	token, err := m.Generate(1)
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}

	_, err = m.Parse(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager(&config.AuthConfig{
		JWTSecret: "another-secret-key-0000000000000",
		TokenTTL:  24 * time.Hour,
	})

	token, err := other.Generate(1)
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}

	_, err = m.Parse(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParse_Malformed(t *testing.T) {
	m := newTestManager()

	_, err := m.Parse("not-a-jwt-at-all")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParse_MissingUserIDClaim(t *testing.T) {
	m := newTestManager()

	// 手工构造一个没有 user_id 的合法签名 Token
	now := time.Now()
	raw := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.RegisteredClaims{
		IssuedAt:  jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(now.Add(time.Hour)),
		Issuer:    "krishi-scan",
	})
	token, err := raw.SignedString([]byte("test-secret-key-for-unit-testing-2026"))
	if err != nil {
		t.Fatalf("SignedString 失败: %v", err)
	}

	_, err = m.Parse(token)
	if !errors.Is(err, ErrTokenMissingClaim) {
		t.Errorf("期望 ErrTokenMissingClaim，实际: %v", err)
	}
}
