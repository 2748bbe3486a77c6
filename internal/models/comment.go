package models

import "time"

type Comment struct {
	ID         int64
	Contents   string
	TodoID     int64
	UserID     int64
	User       *UserResponse
	CreatedAt  time.Time
	ModifiedAt time.Time
}

type CommentSaveRequest struct {
	Contents string `json:"contents" binding:"required"`
}

type CommentResponse struct {
	ID       int64         `json:"id"`
	Contents string        `json:"contents"`
	User     *UserResponse `json:"user"`
}

func NewCommentResponse(c *Comment) CommentResponse {
	return CommentResponse{ID: c.ID, Contents: c.Contents, User: c.User}
}
