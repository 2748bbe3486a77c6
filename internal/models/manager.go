package models

// Manager は「ユーザー UserID が Todo TodoID の担当者である」ことを表します。
// Todo の作成者とは別のユーザーです。
type Manager struct {
	ID     int64
	UserID int64
	TodoID int64
	User   *UserResponse
}

type ManagerSaveRequest struct {
	ManagerUserID int64 `json:"manager_user_id" binding:"required"` // 作成者が担当者として登録するユーザーID
}

// ManagerResponse は担当者IDと担当ユーザーの公開フィールドです。
type ManagerResponse struct {
	ID   int64         `json:"id"`
	User *UserResponse `json:"user"`
}

func NewManagerResponse(m *Manager) ManagerResponse {
	return ManagerResponse{ID: m.ID, User: m.User}
}
