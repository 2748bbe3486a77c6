package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// 作成者ユーザーが削除されると todos.user_id は NULL になる (作成者不在のTodo)。
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'USER',
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		modified_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6)
	)`,
	`CREATE TABLE IF NOT EXISTS todos (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		contents TEXT NOT NULL,
		weather VARCHAR(255) NOT NULL,
		user_id BIGINT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		modified_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
		INDEX idx_todos_modified_at (modified_at),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		contents TEXT NOT NULL,
		todo_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		modified_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
		FOREIGN KEY (todo_id) REFERENCES todos(id) ON DELETE CASCADE,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS managers (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		todo_id BIGINT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (todo_id) REFERENCES todos(id) ON DELETE CASCADE
	)`,
}

// Tables は外部キーの依存順 (子 → 親) に並んだテーブル名です。
var Tables = []string{"managers", "comments", "todos", "users"}

// Migrate はテーブルが無ければ作成します。
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	log.Println("Database schema is up to date.")
	return nil
}
