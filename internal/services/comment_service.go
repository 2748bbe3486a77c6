package services

import (
	"context"

	"todo-manager/backend/internal/apperror"
	"todo-manager/backend/internal/database"
	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/repositories"
)

type CommentService struct {
	tx       database.Transactor
	todos    repositories.TodoRepository
	comments repositories.CommentRepository
}

func NewCommentService(tx database.Transactor, todos repositories.TodoRepository, comments repositories.CommentRepository) *CommentService {
	return &CommentService{tx: tx, todos: todos, comments: comments}
}

// SaveComment はTodoにコメントを追加します。
func (s *CommentService) SaveComment(ctx context.Context, author models.AuthUser, todoID int64, req models.CommentSaveRequest) (*models.Comment, error) {
	var created *models.Comment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		todo, err := s.todos.FindByID(ctx, todoID)
		if err != nil {
			return translate(err, repositories.ErrTodoNotFound, apperror.ErrTodoNotFound)
		}
		created, err = s.comments.Create(ctx, &models.Comment{
			Contents: req.Contents,
			TodoID:   todo.ID,
			UserID:   author.ID,
		})
		if err != nil {
			return apperror.Internal("failed to save comment", err)
		}
		return nil
	})
	return created, err
}

// GetComments はTodoのコメント一覧を返します。コメントが無ければ空のスライスです。
func (s *CommentService) GetComments(ctx context.Context, todoID int64) ([]models.CommentResponse, error) {
	res := []models.CommentResponse{}
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		if _, err := s.todos.FindByID(ctx, todoID); err != nil {
			return translate(err, repositories.ErrTodoNotFound, apperror.ErrTodoNotFound)
		}
		comments, err := s.comments.FindByTodoID(ctx, todoID)
		if err != nil {
			return apperror.Internal("failed to load comments", err)
		}
		for _, c := range comments {
			res = append(res, models.NewCommentResponse(c))
		}
		return nil
	})
	return res, err
}

// CommentAdminService は管理者によるコメント操作を扱います。
type CommentAdminService struct {
	tx       database.Transactor
	comments repositories.CommentRepository
}

func NewCommentAdminService(tx database.Transactor, comments repositories.CommentRepository) *CommentAdminService {
	return &CommentAdminService{tx: tx, comments: comments}
}

// DeleteComment はコメントを物理削除します。
func (s *CommentAdminService) DeleteComment(ctx context.Context, commentID int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.comments.FindByID(ctx, commentID); err != nil {
			return translate(err, repositories.ErrCommentNotFound, apperror.ErrCommentNotFound)
		}
		return translate(s.comments.Delete(ctx, commentID), repositories.ErrCommentNotFound, apperror.ErrCommentNotFound)
	})
}
