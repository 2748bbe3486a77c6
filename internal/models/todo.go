// Package models はドメインの構造体とリクエスト/レスポンスを定義します。
package models

import (
	"time"
)

// Todo は作成者 (UserID) を一人だけ持つ。作成者が削除されると UserID は nil になる。
type Todo struct {
	ID         int64
	Title      string
	Contents   string
	Weather    string // 作成時点の天気
	UserID     *int64
	User       *UserResponse // UserID が nil のときは nil
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// HasOwner は作成者が存在するかを返します。
func (t *Todo) HasOwner() bool {
	return t.UserID != nil
}

// IsOwnedBy は作成者が userID であるかを返します。作成者がいなければ false です。
func (t *Todo) IsOwnedBy(userID int64) bool {
	return t.UserID != nil && *t.UserID == userID
}

type TodoSaveRequest struct {
	Title    string `json:"title" binding:"required"`    // タスクのタイトル（必須）
	Contents string `json:"contents" binding:"required"` // 本文（必須）
}

type TodoResponse struct {
	ID         int64         `json:"id"`
	Title      string        `json:"title"`
	Contents   string        `json:"contents"`
	Weather    string        `json:"weather"`
	User       *UserResponse `json:"user,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	ModifiedAt time.Time     `json:"modified_at"`
}

// NewTodoResponse は Todo をレスポンスに変換します。
func NewTodoResponse(t *Todo) TodoResponse {
	return TodoResponse{
		ID:         t.ID,
		Title:      t.Title,
		Contents:   t.Contents,
		Weather:    t.Weather,
		User:       t.User,
		CreatedAt:  t.CreatedAt,
		ModifiedAt: t.ModifiedAt,
	}
}
