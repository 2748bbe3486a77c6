package models

import (
	"strings"
	"time"

	"todo-manager/backend/internal/apperror"
)

// UserRole はユーザーの権限です。ADMIN と USER のみ存在します。
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// ParseUserRole は大文字小文字を区別せずに文字列を UserRole に変換します。
// 一致しない場合は apperror.ErrInvalidUserRole を返します。
func ParseUserRole(s string) (UserRole, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleUser):
		return RoleUser, nil
	}
	return "", apperror.ErrInvalidUserRole
}

func (r UserRole) IsAdmin() bool { return r == RoleAdmin }

// User はユーザーのデータベース構造体を表します。
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // JSONに出さない
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// Public は外部に公開してよいフィールドだけを返します。
func (u *User) Public() *UserResponse {
	return &UserResponse{ID: u.ID, Email: u.Email}
}

// AuthUser はJWTから復元したリクエスト元ユーザーです。
type AuthUser struct {
	ID    int64
	Email string
	Role  UserRole
}

// UserResponse はユーザーの公開フィールド (id, email) です。
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"` // 生パスワード
	UserRole string `json:"user_role" binding:"required"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse は "Bearer " 付きのトークンを返します。
type AuthResponse struct {
	BearerToken string `json:"bearer_token"`
}

type UserChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type UserRoleChangeRequest struct {
	Role string `json:"role" binding:"required"`
}
