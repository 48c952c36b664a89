package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rbi-data/internal/domain"
)

// PostgresUsersRepository staff accounts over PostgreSQL.
type PostgresUsersRepository struct {
	db *sql.DB
}

func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

const userColumns = `
	user_id::text,
	tenant_id::text,
	user_account,
	user_account_hash,
	password_hash,
	nickname,
	role,
	COALESCE(status, 'active'),
	email_hash,
	phone_hash,
	barangay_code,
	last_login_at`

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.UserID,
		&u.TenantID,
		&u.UserAccount,
		&u.UserAccountHash,
		&u.PasswordHash,
		&u.Nickname,
		&u.Role,
		&u.Status,
		&u.EmailHash,
		&u.PhoneHash,
		&u.BarangayCode,
		&u.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *PostgresUsersRepository) GetUser(ctx context.Context, tenantID, userID string) (*domain.User, error) {
	if tenantID == "" || userID == "" {
		return nil, fmt.Errorf("tenant_id and user_id are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE tenant_id = $1 AND user_id = $2`, userColumns)
	user, err := scanUser(p.db.QueryRowContext(ctx, query, tenantID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (p *PostgresUsersRepository) GetUserByAccountHash(ctx context.Context, tenantID string, accountHash []byte) (*domain.User, error) {
	if tenantID == "" || len(accountHash) == 0 {
		return nil, fmt.Errorf("tenant_id and account_hash are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE tenant_id = $1 AND user_account_hash = $2`, userColumns)
	user, err := scanUser(p.db.QueryRowContext(ctx, query, tenantID, accountHash))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get user by account: %w", err)
	}
	return user, nil
}

func (p *PostgresUsersRepository) GetUserByEmailHash(ctx context.Context, tenantID string, emailHash []byte) (*domain.User, error) {
	if tenantID == "" || len(emailHash) == 0 {
		return nil, fmt.Errorf("tenant_id and email_hash are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE tenant_id = $1 AND email_hash = $2`, userColumns)
	user, err := scanUser(p.db.QueryRowContext(ctx, query, tenantID, emailHash))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (p *PostgresUsersRepository) ListUsers(ctx context.Context, tenantID string, page, size int) ([]*domain.User, int, error) {
	if tenantID == "" {
		return []*domain.User{}, 0, nil
	}
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	var total int
	if err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE tenant_id = $1`, tenantID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE tenant_id = $1 ORDER BY user_account LIMIT $2 OFFSET $3`, userColumns)
	rows, err := p.db.QueryContext(ctx, query, tenantID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, total, nil
}

func (p *PostgresUsersRepository) CreateUser(ctx context.Context, tenantID string, user *domain.User) (string, error) {
	if tenantID == "" {
		return "", fmt.Errorf("tenant_id is required")
	}
	if user == nil {
		return "", fmt.Errorf("user is required")
	}
	if user.UserAccount == "" || len(user.UserAccountHash) == 0 {
		return "", fmt.Errorf("user_account and user_account_hash are required")
	}
	if len(user.PasswordHash) == 0 {
		return "", fmt.Errorf("password_hash is required")
	}

	role := user.Role
	if role == "" {
		role = domain.RoleViewer
	}
	status := user.Status
	if status == "" {
		status = "active"
	}

	var emailHashArg any
	if len(user.EmailHash) > 0 {
		emailHashArg = user.EmailHash
	}
	var phoneHashArg any
	if len(user.PhoneHash) > 0 {
		phoneHashArg = user.PhoneHash
	}
	var barangayArg any
	if user.BarangayCode.Valid && user.BarangayCode.String != "" {
		barangayArg = user.BarangayCode.String
	}
	var nicknameArg any
	if user.Nickname.Valid && user.Nickname.String != "" {
		nicknameArg = user.Nickname.String
	}

	var userID string
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO users (
			tenant_id, user_account, user_account_hash, password_hash,
			nickname, role, status, email_hash, phone_hash, barangay_code
		) VALUES ($1, LOWER($2), $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING user_id::text`,
		tenantID, user.UserAccount, user.UserAccountHash, user.PasswordHash,
		nicknameArg, role, status, emailHashArg, phoneHashArg, barangayArg,
	).Scan(&userID)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	return userID, nil
}

func (p *PostgresUsersRepository) UpdateUserPassword(ctx context.Context, tenantID, userID string, passwordHash []byte) error {
	if tenantID == "" || userID == "" {
		return fmt.Errorf("tenant_id and user_id are required")
	}
	if len(passwordHash) == 0 {
		return fmt.Errorf("password_hash is required")
	}

	result, err := p.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $3 WHERE tenant_id = $1 AND user_id = $2`,
		tenantID, userID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check password update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func (p *PostgresUsersRepository) TouchLastLogin(ctx context.Context, tenantID, userID string) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = $3 WHERE tenant_id = $1 AND user_id = $2`,
		tenantID, userID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to touch last login: %w", err)
	}
	return nil
}
