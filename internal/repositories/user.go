// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/go-sql-driver/mysql"

	"todo-manager/backend/internal/database"
	"todo-manager/backend/internal/models"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrUserNotFound   = errors.New("user not found")
)

// mysqlDuplicateEntry はMySQLの重複エントリーエラーコードです。
const mysqlDuplicateEntry = 1062

type UserRepository interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, newHash string) error
	UpdateRole(ctx context.Context, id int64, role models.UserRole) error
}

// MySQLUserRepo は UserRepository のMySQL実装です。
type MySQLUserRepo struct {
	DB *sql.DB
}

// NewMySQLUserRepo は新しいMySQLUserRepoを作成します。
func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo {
	return &MySQLUserRepo{DB: db}
}

// Create は新しいユーザーをデータベースに挿入します。
func (r *MySQLUserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := "INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)"
	result, err := database.Conn(ctx, r.DB).ExecContext(ctx, query, u.Email, u.PasswordHash, string(u.Role))
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return nil, ErrDuplicateEmail
		}
		log.Printf("Failed to insert user: %v", err)
		return nil, fmt.Errorf("could not insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	return r.FindByID(ctx, id)
}

const selectUser = "SELECT id, email, password_hash, role, created_at, modified_at FROM users"

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.ModifiedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		log.Printf("Failed to query user: %v", err)
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	u.Role = models.UserRole(role)
	return &u, nil
}

// FindByID はIDでユーザーを検索します。
func (r *MySQLUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(database.Conn(ctx, r.DB).QueryRowContext(ctx, selectUser+" WHERE id = ?", id))
}

// FindByEmail はメールアドレスでユーザーを検索します。
func (r *MySQLUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(database.Conn(ctx, r.DB).QueryRowContext(ctx, selectUser+" WHERE email = ?", email))
}

func (r *MySQLUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.DB).QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("could not check email: %w", err)
	}
	return exists, nil
}

// UpdatePassword はユーザーのパスワードを更新します。
func (r *MySQLUserRepo) UpdatePassword(ctx context.Context, id int64, newHash string) error {
	return r.update(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", newHash, id)
}

// UpdateRole はユーザーの権限を更新します。
func (r *MySQLUserRepo) UpdateRole(ctx context.Context, id int64, role models.UserRole) error {
	return r.update(ctx, "UPDATE users SET role = ? WHERE id = ?", string(role), id)
}

func (r *MySQLUserRepo) update(ctx context.Context, query string, args ...any) error {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, query, args...)
	if err != nil {
		log.Printf("Failed to update user: %v", err)
		return fmt.Errorf("could not update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	// MySQLは値が変わらない行を affected に数えないため、0件でも存在確認してから判定する
	if n == 0 {
		if _, err := r.FindByID(ctx, args[len(args)-1].(int64)); err != nil {
			return err
		}
	}
	return nil
}
