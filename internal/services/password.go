package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordEncoder はbcryptでパスワードをハッシュ化・検証します。
type PasswordEncoder struct {
	cost int
}

// NewPasswordEncoder はコストを指定してPasswordEncoderを作成します。
func NewPasswordEncoder(cost int) *PasswordEncoder {
	return &PasswordEncoder{cost: cost}
}

// Encode はパスワードをハッシュ化します。同じ入力でも呼び出しごとに異なるハッシュになります。
func (e *PasswordEncoder) Encode(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), e.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Matches は生パスワードがハッシュと一致するかを返します。
func (e *PasswordEncoder) Matches(raw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(raw)) == nil
}
