package services

import (
	"context"

	"todo-manager/backend/internal/apperror"
	"todo-manager/backend/internal/database"
	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/repositories"
)

const bearerPrefix = "Bearer "

// AuthService は会員登録とログインを扱います。
type AuthService struct {
	tx       database.Transactor
	users    repositories.UserRepository
	encoder  *PasswordEncoder
	jwtToken *JWTService
}

func NewAuthService(tx database.Transactor, users repositories.UserRepository, encoder *PasswordEncoder, jwtService *JWTService) *AuthService {
	return &AuthService{tx: tx, users: users, encoder: encoder, jwtToken: jwtService}
}

// Signup はユーザーを登録し、"Bearer " 付きのアクセストークンを返します。
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	var token string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.users.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return apperror.Internal("failed to check email", err)
		}
		if exists {
			return apperror.ErrDuplicateEmail
		}

		role, err := models.ParseUserRole(req.UserRole)
		if err != nil {
			return err
		}

		hashed, err := s.encoder.Encode(req.Password)
		if err != nil {
			return apperror.Internal("failed to hash password", err)
		}

		created, err := s.users.Create(ctx, &models.User{Email: req.Email, PasswordHash: hashed, Role: role})
		if err != nil {
			// 同時登録で一意制約に当たった場合
			return translate(err, repositories.ErrDuplicateEmail, apperror.ErrDuplicateEmail)
		}

		token, err = s.issue(created)
		return err
	})
	return token, err
}

// Signin はメールアドレスとパスワードを検証してアクセストークンを返します。
func (s *AuthService) Signin(ctx context.Context, req models.SigninRequest) (string, error) {
	var token string
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByEmail(ctx, req.Email)
		if err != nil {
			return translate(err, repositories.ErrUserNotFound, apperror.ErrUserNotFound)
		}
		if !s.encoder.Matches(req.Password, u.PasswordHash) {
			return apperror.ErrLoginFailed
		}
		token, err = s.issue(u)
		return err
	})
	return token, err
}

func (s *AuthService) issue(u *models.User) (string, error) {
	token, err := s.jwtToken.GenerateToken(u)
	if err != nil {
		return "", apperror.Internal("failed to generate token", err)
	}
	return bearerPrefix + token, nil
}
