// Package auth 令牌校验单元测试
package auth

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/ashwinyue/next-dbagent/internal/config"
	"github.com/ashwinyue/next-dbagent/internal/model"
)

// fakeUserStore 内存实现的用户存储
type fakeUserStore struct {
	users map[string]*model.User // username -> user
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (s *fakeUserStore) CreateUser(ctx context.Context, user *model.User) error {
	copied := *user
	s.users[user.Username] = &copied
	return nil
}

func (s *fakeUserStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

func newTestService(ttl time.Duration) *Service {
	return &Service{
		users:     newFakeUserStore(),
		jwtSecret: []byte("test-secret"),
		tokenTTL:  ttl,
	}
}

// ========== Register / Login 测试 ==========

func TestRegister_FirstUserIsAdmin(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := context.Background()

	first, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if first.Role != "admin" {
		t.Errorf("first user role = %q, want admin", first.Role)
	}

	second, err := svc.Register(ctx, &RegisterRequest{Username: "bob", Password: "secret2"})
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if second.Role != "user" {
		t.Errorf("second user role = %q, want user", second.Role)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if _, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "other"}); err == nil {
		t.Fatal("Register() expected error for duplicate username, got nil")
	}
}

func TestLoginAndValidateToken_RoundTrip(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	resp, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Login() success = false: %s", resp.Message)
	}
	if resp.Token == "" {
		t.Fatal("Login() returned empty token")
	}

	user, err := svc.ValidateToken(ctx, resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("validated user ID = %q, want %q", user.ID, registered.ID)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	tests := []struct {
		name string
		req  *LoginRequest
	}{
		{name: "wrong password", req: &LoginRequest{Username: "alice", Password: "wrong"}},
		{name: "unknown user", req: &LoginRequest{Username: "mallory", Password: "secret1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(ctx, tt.req)
			if err != nil {
				t.Fatalf("Login() unexpected error: %v", err)
			}
			if resp.Success {
				t.Fatal("Login() success = true, want false")
			}
			// 不泄露是用户名还是密码错了
			if resp.Message != "Invalid username or password" {
				t.Errorf("message = %q, want the generic credentials message", resp.Message)
			}
		})
	}
}

// ========== ValidateToken 测试 ==========

func TestValidateToken_Invalid(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "garbage token", token: "not-a-jwt"},
		{name: "malformed segments", token: "aaa.bbb.ccc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateToken(ctx, tt.token); err == nil {
				t.Fatal("ValidateToken() expected error, got nil")
			}
		})
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	user := &model.User{ID: "u1", Username: "alice", Role: "admin"}

	issuer := newTestService(time.Hour)
	token, err := issuer.generateToken(user)
	if err != nil {
		t.Fatalf("generateToken() unexpected error: %v", err)
	}

	// 另一密钥签发的令牌必须被拒绝
	verifier := &Service{jwtSecret: []byte("other-secret"), tokenTTL: time.Hour}
	if _, err := verifier.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("ValidateToken() expected error for token signed with another secret")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	user := &model.User{ID: "u1", Username: "alice", Role: "admin"}

	svc := newTestService(-time.Hour)
	token, err := svc.generateToken(user)
	if err != nil {
		t.Fatalf("generateToken() unexpected error: %v", err)
	}

	if _, err := svc.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("ValidateToken() expected error for expired token")
	}
}

// ========== NewService 测试 ==========

func TestNewService_RandomSecretFallback(t *testing.T) {
	cfg := &config.Config{}

	svc := NewService(nil, cfg)
	if len(svc.jwtSecret) == 0 {
		t.Fatal("NewService() left jwtSecret empty")
	}
	if svc.tokenTTL != 24*time.Hour {
		t.Errorf("tokenTTL = %v, want 24h default", svc.tokenTTL)
	}

	// 每次启动的随机密钥应不同
	other := NewService(nil, cfg)
	if string(svc.jwtSecret) == string(other.jwtSecret) {
		t.Error("NewService() generated identical random secrets")
	}
}

func TestNewService_ConfiguredSecret(t *testing.T) {
	cfg := &config.Config{
		Auth: config.AuthConfig{JWTSecret: "configured", TokenTTLHours: 2},
	}

	svc := NewService(nil, cfg)
	if string(svc.jwtSecret) != "configured" {
		t.Errorf("jwtSecret = %q, want configured value", svc.jwtSecret)
	}
	if svc.tokenTTL != 2*time.Hour {
		t.Errorf("tokenTTL = %v, want 2h", svc.tokenTTL)
	}
}
