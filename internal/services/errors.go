// Package services はビジネスロジックを提供します。
// すべての操作は1つのトランザクション内で実行され、失敗は apperror.Error で返します。
package services

import (
	"errors"

	"todo-manager/backend/internal/apperror"
)

// translate はリポジトリのエラーを apperror に変換します。
// notFound がリポジトリの sentinel と一致すれば as を返し、それ以外は内部エラーとして包みます。
func translate(err error, notFound error, as *apperror.Error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	if notFound != nil && errors.Is(err, notFound) {
		return as.Wrap(err)
	}
	return apperror.Internal("unexpected repository failure", err)
}
