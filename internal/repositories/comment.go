package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"todo-manager/backend/internal/database"
	"todo-manager/backend/internal/models"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentRepository interface {
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	FindByID(ctx context.Context, id int64) (*models.Comment, error)
	FindByTodoID(ctx context.Context, todoID int64) ([]*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type MySQLCommentRepo struct {
	DB *sql.DB
}

func NewMySQLCommentRepo(db *sql.DB) *MySQLCommentRepo {
	return &MySQLCommentRepo{DB: db}
}

func (r *MySQLCommentRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	query := "INSERT INTO comments (contents, todo_id, user_id) VALUES (?, ?, ?)"
	result, err := database.Conn(ctx, r.DB).ExecContext(ctx, query, c.Contents, c.TodoID, c.UserID)
	if err != nil {
		log.Printf("Failed to insert comment: %v", err)
		return nil, fmt.Errorf("could not insert comment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	return r.FindByID(ctx, id)
}

const selectComment = `SELECT c.id, c.contents, c.todo_id, c.user_id, u.email, c.created_at, c.modified_at
	FROM comments c JOIN users u ON u.id = c.user_id`

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	var email string
	if err := row.Scan(&c.ID, &c.Contents, &c.TodoID, &c.UserID, &email, &c.CreatedAt, &c.ModifiedAt); err != nil {
		return nil, err
	}
	c.User = &models.UserResponse{ID: c.UserID, Email: email}
	return &c, nil
}

func (r *MySQLCommentRepo) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	c, err := scanComment(database.Conn(ctx, r.DB).QueryRowContext(ctx, selectComment+" WHERE c.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("could not query comment: %w", err)
	}
	return c, nil
}

// FindByTodoID はTodoに付いたコメントを作成者付きで古い順に返します。
func (r *MySQLCommentRepo) FindByTodoID(ctx context.Context, todoID int64) ([]*models.Comment, error) {
	rows, err := database.Conn(ctx, r.DB).QueryContext(ctx, selectComment+" WHERE c.todo_id = ? ORDER BY c.id", todoID)
	if err != nil {
		log.Printf("Failed to query comments: %v", err)
		return nil, fmt.Errorf("could not query comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *MySQLCommentRepo) Delete(ctx context.Context, id int64) error {
	result, err := database.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		log.Printf("Failed to delete comment: %v", err)
		return fmt.Errorf("could not delete comment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
