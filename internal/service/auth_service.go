package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"time"

	"rbi-data/internal/config"
	"rbi-data/internal/repository"
	"rbi-data/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService staff login, token issuance and password reset.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ParseToken(token string) (*AccessClaims, error)

	SendResetCode(ctx context.Context, req SendResetCodeRequest) error
	VerifyResetCode(ctx context.Context, req VerifyResetCodeRequest) (bool, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

// AccessClaims JWT payload for staff sessions.
type AccessClaims struct {
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// ============================================
// Request/Response DTOs
// ============================================

type LoginRequest struct {
	TenantID string
	Account  string
	Password string
}

type LoginResponse struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
	Role      string
	Nickname  string
}

type SendResetCodeRequest struct {
	TenantID string
	Email    string
}

type VerifyResetCodeRequest struct {
	TenantID string
	Email    string
	Code     string
}

type ResetPasswordRequest struct {
	TenantID    string
	Email       string
	Code        string
	NewPassword string
}

// ============================================

type authService struct {
	usersRepo repository.UsersRepository
	kv        store.KV
	cfg       config.AuthConfig
	logger    *zap.Logger
}

func NewAuthService(usersRepo repository.UsersRepository, kv store.KV, cfg config.AuthConfig, logger *zap.Logger) AuthService {
	return &authService{
		usersRepo: usersRepo,
		kv:        kv,
		cfg:       cfg,
		logger:    logger,
	}
}

// HashAccount SHA-256 of the lowercased account name; matches the stored
// user_account_hash column.
func HashAccount(account string) []byte {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(account))))
	return h[:]
}

// HashEmail SHA-256 of the lowercased email address.
func HashEmail(email string) []byte {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return h[:]
}

// HashPassword bcrypt hash for storage.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.TenantID == "" || req.Account == "" || req.Password == "" {
		return nil, fmt.Errorf("tenant_id, account and password are required")
	}

	user, err := s.usersRepo.GetUserByAccountHash(ctx, req.TenantID, HashAccount(req.Account))
	if err != nil {
		// uniform failure message so account probing learns nothing
		return nil, fmt.Errorf("invalid account or password")
	}
	if user.Status != "active" {
		return nil, fmt.Errorf("account is not active")
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)) != nil {
		return nil, fmt.Errorf("invalid account or password")
	}

	expiresAt := time.Now().Add(s.cfg.TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		TenantID: user.TenantID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if err := s.usersRepo.TouchLastLogin(ctx, user.TenantID, user.UserID); err != nil {
		s.logger.Warn("failed to record last login", zap.Error(err))
	}

	nickname := user.UserAccount
	if user.Nickname.Valid && user.Nickname.String != "" {
		nickname = user.Nickname.String
	}

	return &LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		UserID:    user.UserID,
		Role:      user.Role,
		Nickname:  nickname,
	}, nil
}

func (s *authService) ParseToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func resetCodeKey(tenantID string, emailHash []byte) string {
	return fmt.Sprintf("reset:%s:%x", tenantID, emailHash)
}

func (s *authService) SendResetCode(ctx context.Context, req SendResetCodeRequest) error {
	if req.TenantID == "" || req.Email == "" {
		return fmt.Errorf("tenant_id and email are required")
	}

	emailHash := HashEmail(req.Email)
	if _, err := s.usersRepo.GetUserByEmailHash(ctx, req.TenantID, emailHash); err != nil {
		// do not reveal whether the email exists; succeed quietly
		s.logger.Info("reset code requested for unknown email")
		return nil
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := s.kv.Set(ctx, resetCodeKey(req.TenantID, emailHash), code, s.cfg.ResetCodeTTL); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	// delivery is handled by the LGU's SMS/email gateway; debug-log for dev
	s.logger.Debug("reset code issued", zap.String("code", code))
	return nil
}

func (s *authService) VerifyResetCode(ctx context.Context, req VerifyResetCodeRequest) (bool, error) {
	if req.TenantID == "" || req.Email == "" || req.Code == "" {
		return false, fmt.Errorf("tenant_id, email and code are required")
	}

	stored, err := s.kv.Get(ctx, resetCodeKey(req.TenantID, HashEmail(req.Email)))
	if err != nil {
		if err == store.ErrMiss {
			return false, nil
		}
		return false, fmt.Errorf("failed to read reset code: %w", err)
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(req.Code)) == 1, nil
}

func (s *authService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if req.NewPassword == "" {
		return fmt.Errorf("new password is required")
	}
	if len(req.NewPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	ok, err := s.VerifyResetCode(ctx, VerifyResetCodeRequest{
		TenantID: req.TenantID,
		Email:    req.Email,
		Code:     req.Code,
	})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("invalid or expired reset code")
	}

	emailHash := HashEmail(req.Email)
	user, err := s.usersRepo.GetUserByEmailHash(ctx, req.TenantID, emailHash)
	if err != nil {
		return fmt.Errorf("user not found")
	}

	passwordHash, err := HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.usersRepo.UpdateUserPassword(ctx, req.TenantID, user.UserID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// single-use code
	_ = s.kv.Delete(ctx, resetCodeKey(req.TenantID, emailHash))
	return nil
}
