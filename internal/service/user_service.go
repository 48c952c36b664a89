package service

import (
	"context"
	"database/sql"
	"fmt"

	"rbi-data/internal/domain"
	"rbi-data/internal/repository"

	"go.uber.org/zap"
)

// UserService staff account administration within one LGU.
type UserService interface {
	ListUsers(ctx context.Context, tenantID string, page, size int) (*ListUsersResponse, error)
	CreateUser(ctx context.Context, tenantID string, req CreateUserRequest) (*UserView, error)
}

type CreateUserRequest struct {
	Account      string `json:"account"`
	Password     string `json:"password"`
	Nickname     string `json:"nickname"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	BarangayCode string `json:"barangay_code"` // non-empty scopes the user to one barangay
}

// UserView API view of a staff account. Hashes never leave the service.
type UserView struct {
	UserID       string `json:"user_id"`
	Account      string `json:"account"`
	Nickname     string `json:"nickname"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	BarangayCode string `json:"barangay_code,omitempty"`
}

type ListUsersResponse struct {
	Users []*UserView `json:"users"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

type userService struct {
	usersRepo repository.UsersRepository
	logger    *zap.Logger
}

func NewUserService(usersRepo repository.UsersRepository, logger *zap.Logger) UserService {
	return &userService{usersRepo: usersRepo, logger: logger}
}

func (s *userService) ListUsers(ctx context.Context, tenantID string, page, size int) (*ListUsersResponse, error) {
	page, size = normalizePage(page, size)
	users, total, err := s.usersRepo.ListUsers(ctx, tenantID, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	views := make([]*UserView, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u))
	}
	return &ListUsersResponse{Users: views, Total: total, Page: page, Size: size}, nil
}

func (s *userService) CreateUser(ctx context.Context, tenantID string, req CreateUserRequest) (*UserView, error) {
	if req.Account == "" {
		return nil, fmt.Errorf("account is required")
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	switch req.Role {
	case domain.RoleLGUAdmin, domain.RoleEncoder, domain.RoleViewer:
	default:
		return nil, fmt.Errorf("invalid role: %s", req.Role)
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		UserAccount:     req.Account,
		UserAccountHash: HashAccount(req.Account),
		PasswordHash:    passwordHash,
		Role:            req.Role,
		Status:          "active",
	}
	if req.Nickname != "" {
		user.Nickname = sql.NullString{String: req.Nickname, Valid: true}
	}
	if req.Email != "" {
		user.EmailHash = HashEmail(req.Email)
	}
	if req.BarangayCode != "" {
		user.BarangayCode = sql.NullString{String: req.BarangayCode, Valid: true}
	}

	id, err := s.usersRepo.CreateUser(ctx, tenantID, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.UserID = id

	s.logger.Info("user created",
		zap.String("tenant_id", tenantID),
		zap.String("user_id", id),
		zap.String("role", req.Role))
	return userView(user), nil
}

func userView(u *domain.User) *UserView {
	view := &UserView{
		UserID:  u.UserID,
		Account: u.UserAccount,
		Role:    u.Role,
		Status:  u.Status,
	}
	if u.Nickname.Valid {
		view.Nickname = u.Nickname.String
	}
	if u.BarangayCode.Valid {
		view.BarangayCode = u.BarangayCode.String
	}
	return view
}
