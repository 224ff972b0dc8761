package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/weeklypay/ledger-engine/internal/config"
	"github.com/weeklypay/ledger-engine/internal/ledger"
	customError "github.com/weeklypay/ledger-engine/pkg/errors"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"

	sessionKeyPrefix = "session:"
	adminHashKey     = "auth:admin_password_hash"
)

// Session is a verified identity handed back to callers after login.
type Session struct {
	Token     string    `json:"token"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthService is the identity collaborator. Admin sessions are verified
// against a configured phone and bcrypt hash; customer sessions only require
// the phone to own at least one loan record. Session tokens live in Redis
// with a TTL.
type AuthService struct {
	ledger *ledger.Ledger
	redis  *redis.Client
	config *config.Config

	mu        sync.RWMutex
	adminHash string
}

func NewAuthService(ctx context.Context, l *ledger.Ledger, client *redis.Client, cfg *config.Config) *AuthService {
	s := &AuthService{
		ledger:    l,
		redis:     client,
		config:    cfg,
		adminHash: cfg.Auth.AdminPasswordHash,
	}

	// A password changed at runtime survives restarts through Redis.
	if stored, err := client.Get(ctx, adminHashKey).Result(); err == nil && stored != "" {
		s.adminHash = stored
	}
	return s
}

// LoginAdmin verifies the administrative credentials and opens a session.
func (s *AuthService) LoginAdmin(ctx context.Context, phone, password string) (*Session, error) {
	s.mu.RLock()
	hash := s.adminHash
	s.mu.RUnlock()

	if phone != s.config.Auth.AdminPhone || hash == "" {
		return nil, customError.WrapUnauthorized()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, customError.WrapUnauthorized()
	}

	return s.openSession(ctx, phone, RoleAdmin, "")
}

// LoginCustomer opens a customer session when the phone owns at least one
// loan record; FindByPhone is the only identity-dependent ledger entry point.
func (s *AuthService) LoginCustomer(ctx context.Context, phone string) (*Session, error) {
	borrowers := s.ledger.FindByPhone(phone)
	if len(borrowers) == 0 {
		return nil, customError.WrapUnauthorized()
	}
	return s.openSession(ctx, phone, RoleCustomer, borrowers[0].Name)
}

// Logout removes the session; unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.redis.Del(ctx, sessionKeyPrefix+token).Err()
}

// ResolveSession returns the session behind a token, or an unauthorized
// outcome when the token is unknown or expired.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*Session, error) {
	raw, err := s.redis.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, customError.WrapUnauthorized()
	}
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, customError.WrapStorageError(err)
	}
	return &session, nil
}

// ChangeAdminPassword verifies the current password and installs a fresh hash.
func (s *AuthService) ChangeAdminPassword(ctx context.Context, phone, current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if phone != s.config.Auth.AdminPhone {
		return customError.WrapUnauthorized()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.adminHash), []byte(current)); err != nil {
		return customError.WrapUnauthorized()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing new password: %w", err)
	}

	if err := s.redis.Set(ctx, adminHashKey, string(hash), 0).Err(); err != nil {
		return customError.WrapStorageError(err)
	}
	s.adminHash = string(hash)
	return nil
}

func (s *AuthService) openSession(ctx context.Context, phone, role, name string) (*Session, error) {
	session := &Session{
		Token:     uuid.NewString(),
		Phone:     phone,
		Role:      role,
		Name:      name,
		CreatedAt: time.Now(),
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}

	if err := s.redis.Set(ctx, sessionKeyPrefix+session.Token, raw, s.config.GetSessionTTL()).Err(); err != nil {
		return nil, customError.WrapStorageError(err)
	}
	return session, nil
}
