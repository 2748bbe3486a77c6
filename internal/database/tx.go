package database

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX は *sql.DB と *sql.Tx の共通部分です。リポジトリはこれだけを使います。
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Transactor はサービスの1操作を1トランザクションで実行します。
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// SQLTransactor は database/sql のトランザクションで Transactor を実装します。
type SQLTransactor struct {
	DB *sql.DB
}

func NewTransactor(db *sql.DB) *SQLTransactor {
	return &SQLTransactor{DB: db}
}

func (t *SQLTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, nil, fn)
}

func (t *SQLTransactor) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// run は fn が成功すればコミット、エラーまたはpanicならロールバックします。
// 既にトランザクション内なら外側のトランザクションに参加します。
func (t *SQLTransactor) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.DB.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Conn はコンテキストにトランザクションがあればそれを、なければ db を返します。
func Conn(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// NoopTransactor はトランザクションを張らずに fn を実行します。インメモリのリポジトリ用です。
type NoopTransactor struct{}

func (NoopTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (NoopTransactor) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
