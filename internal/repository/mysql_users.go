package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"techshop-backend/internal/models"
)

type MySQLUsers struct {
	DB *sql.DB
}

func NewMySQLUsers(db *sql.DB) *MySQLUsers {
	return &MySQLUsers{DB: db}
}

const userColumns = "id, name, email, phone, password_hash, is_admin, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }, u *models.User) error {
	return row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

func (r *MySQLUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	row := r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err := scanUser(row, &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *MySQLUsers) GetByLogin(ctx context.Context, emailOrPhone string) (*models.User, error) {
	var u models.User
	// Email first, then phone; phone is '' for accounts without one, and the
	// form never submits an empty identifier past validation.
	query := "SELECT " + userColumns + " FROM users WHERE email = ? OR (phone <> '' AND phone = ?) LIMIT 1"
	row := r.DB.QueryRowContext(ctx, query, emailOrPhone, emailOrPhone)
	if err := scanUser(row, &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", emailOrPhone, ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *MySQLUsers) Create(ctx context.Context, u *models.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `
		INSERT INTO users (name, email, phone, password_hash, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.DB.ExecContext(ctx, query,
		u.Name, u.Email, u.Phone, u.PasswordHash, u.IsAdmin, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		// 1062: the unique email index rejected the insert.
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return fmt.Errorf("email %s: %w", u.Email, ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	u.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *MySQLUsers) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now()

	query := "UPDATE users SET name = ?, email = ?, phone = ?, updated_at = ? WHERE id = ?"
	_, err := r.DB.ExecContext(ctx, query, u.Name, u.Email, u.Phone, u.UpdatedAt, u.ID)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return fmt.Errorf("email %s: %w", u.Email, ErrDuplicate)
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *MySQLUsers) HasAdmin(ctx context.Context) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE is_admin = TRUE").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return count > 0, nil
}
