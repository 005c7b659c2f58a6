package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"rescue-roster/config"
	"rescue-roster/internal/dto"
	"rescue-roster/internal/model"
	"rescue-roster/pkg/jwt"
)

// ── 测试辅助 ──

type fakeBlacklist struct {
	tokens map[string]time.Duration
	err    error
}

func (f *fakeBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.tokens[jti] = ttl
	return nil
}

func setupTestAuthService() (AuthService, *mocks, *fakeBlacklist, *jwt.Manager) {
	repo, m := newMockRepository()
	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 15 * time.Minute,
	})
	bl := &fakeBlacklist{tokens: make(map[string]time.Duration)}

	hash, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	_ = m.users.Create(context.Background(), &model.User{
		UserID:       "user-001",
		Username:     "tehran12",
		Name:         "Reza",
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	})

	return NewAuthService(repo, jwtMgr, bl, zap.NewNop()), m, bl, jwtMgr
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, _, jwtMgr := setupTestAuthService()

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "tehran12", Password: "Passw0rd!"})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.User.ID != "user-001" {
		t.Errorf("期望 user-001，实际=%s", resp.User.ID)
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("ExpiresIn 不正确: %d", resp.ExpiresIn)
	}

	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("签发的 Token 应可解析: %v", err)
	}
	if claims.UserID != "user-001" || claims.Role != model.RoleUser {
		t.Errorf("Claims 不正确: %+v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "tehran12", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "nobody", Password: "Passw0rd!"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── Logout 测试 ──

func TestAuthService_Logout_BlacklistsToken(t *testing.T) {
	svc, _, bl, _ := setupTestAuthService()

	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Logout 应成功: %v", err)
	}
	ttl, ok := bl.tokens["jti-1"]
	if !ok {
		t.Fatal("jti 应写入黑名单")
	}
	if ttl <= 0 || ttl > 10*time.Minute {
		t.Errorf("TTL 应为剩余有效期，实际=%v", ttl)
	}
}

func TestAuthService_Logout_ExpiredTokenSkipped(t *testing.T) {
	svc, _, bl, _ := setupTestAuthService()

	if err := svc.Logout(context.Background(), "jti-2", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("过期 Token 登出不应报错: %v", err)
	}
	if len(bl.tokens) != 0 {
		t.Error("过期 Token 不应写入黑名单")
	}
}

func TestAuthService_Logout_BlacklistError(t *testing.T) {
	svc, _, bl, _ := setupTestAuthService()
	bl.err = errors.New("redis down")

	if err := svc.Logout(context.Background(), "jti-3", time.Now().Add(time.Minute)); err == nil {
		t.Error("黑名单写入失败时应返回错误")
	}
}

func TestAuthService_Logout_NilBlacklist(t *testing.T) {
	repo, _ := newMockRepository()
	jwtMgr := jwt.NewManager(&config.AuthConfig{JWTSecret: "test-secret-key-for-unit-testing-2026", AccessTokenTTL: time.Minute})
	svc := NewAuthService(repo, jwtMgr, nil, zap.NewNop())

	if err := svc.Logout(context.Background(), "jti-4", time.Now().Add(time.Minute)); err != nil {
		t.Errorf("未配置黑名单时应静默成功: %v", err)
	}
}

// ── Me 测试 ──

func TestAuthService_Me(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	me, err := svc.Me(context.Background(), "user-001")
	if err != nil {
		t.Fatalf("Me 应成功: %v", err)
	}
	if me.Username != "tehran12" {
		t.Errorf("期望 tehran12，实际=%s", me.Username)
	}

	if _, err := svc.Me(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
