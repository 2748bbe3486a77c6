package services

import (
	"context"

	"todo-manager/backend/internal/apperror"
	"todo-manager/backend/internal/database"
	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/repositories"
)

// UserService はユーザー関連のビジネスロジックを扱います。
type UserService struct {
	tx      database.Transactor
	users   repositories.UserRepository
	encoder *PasswordEncoder
}

// NewUserService は新しいUserServiceを作成します。
func NewUserService(tx database.Transactor, users repositories.UserRepository, encoder *PasswordEncoder) *UserService {
	return &UserService{tx: tx, users: users, encoder: encoder}
}

// GetUser はユーザーの公開フィールドを返します。
func (s *UserService) GetUser(ctx context.Context, userID int64) (*models.UserResponse, error) {
	var res *models.UserResponse
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return translate(err, repositories.ErrUserNotFound, apperror.ErrUserNotFound)
		}
		res = u.Public()
		return nil
	})
	return res, err
}

// ChangePassword はパスワードを変更します。
//
// 判定順は「ユーザーの存在」「新パスワードが現在と同じでないか」「旧パスワードの一致」です。
// 旧パスワードが誤っていても、新パスワードが現在のものと同じなら ErrSameAsOldPassword になります。
func (s *UserService) ChangePassword(ctx context.Context, userID int64, req models.UserChangePasswordRequest) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return translate(err, repositories.ErrUserNotFound, apperror.ErrUserNotFound)
		}
		if s.encoder.Matches(req.NewPassword, u.PasswordHash) {
			return apperror.ErrSameAsOldPassword
		}
		if !s.encoder.Matches(req.OldPassword, u.PasswordHash) {
			return apperror.ErrInvalidPassword
		}

		hashed, err := s.encoder.Encode(req.NewPassword)
		if err != nil {
			return apperror.Internal("failed to hash password", err)
		}
		if err := s.users.UpdatePassword(ctx, u.ID, hashed); err != nil {
			return translate(err, repositories.ErrUserNotFound, apperror.ErrUserNotFound)
		}
		return nil
	})
}

// UserAdminService は管理者によるユーザー操作を扱います。
type UserAdminService struct {
	tx    database.Transactor
	users repositories.UserRepository
}

func NewUserAdminService(tx database.Transactor, users repositories.UserRepository) *UserAdminService {
	return &UserAdminService{tx: tx, users: users}
}

// ChangeUserRole はユーザーの権限を変更します。
func (s *UserAdminService) ChangeUserRole(ctx context.Context, userID int64, role string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return translate(err, repositories.ErrUserNotFound, apperror.ErrUserNotFound)
		}
		parsed, err := models.ParseUserRole(role)
		if err != nil {
			return err
		}
		if err := s.users.UpdateRole(ctx, u.ID, parsed); err != nil {
			return translate(err, repositories.ErrUserNotFound, apperror.ErrUserNotFound)
		}
		return nil
	})
}
