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

// ErrTodoNotFound はTODOが見つからない場合のエラーです。
var ErrTodoNotFound = errors.New("todo not found")

type TodoRepository interface {
	Create(ctx context.Context, t *models.Todo) (*models.Todo, error)
	FindByID(ctx context.Context, id int64) (*models.Todo, error)
	// FindPage は更新日時の降順で1ページ分と総件数を返します。
	FindPage(ctx context.Context, offset, limit int) ([]*models.Todo, int64, error)
}

type MySQLTodoRepo struct {
	DB *sql.DB
}

func NewMySQLTodoRepo(db *sql.DB) *MySQLTodoRepo {
	return &MySQLTodoRepo{DB: db}
}

// Create は新しいTodoタスクをデータベースに挿入し、作成者付きで読み直します。
func (r *MySQLTodoRepo) Create(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	var owner sql.NullInt64
	if t.UserID != nil {
		owner = sql.NullInt64{Int64: *t.UserID, Valid: true}
	}

	query := "INSERT INTO todos (title, contents, weather, user_id) VALUES (?, ?, ?, ?)"
	result, err := database.Conn(ctx, r.DB).ExecContext(ctx, query, t.Title, t.Contents, t.Weather, owner)
	if err != nil {
		log.Printf("Failed to insert todo: %v", err)
		return nil, fmt.Errorf("could not insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	return r.FindByID(ctx, id)
}

// 作成者は LEFT JOIN で取得する。作成者がいないTodoも返す。
const selectTodo = `SELECT t.id, t.title, t.contents, t.weather, t.user_id, u.email, t.created_at, t.modified_at
	FROM todos t LEFT JOIN users u ON u.id = t.user_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	var t models.Todo
	var owner sql.NullInt64
	var email sql.NullString
	if err := row.Scan(&t.ID, &t.Title, &t.Contents, &t.Weather, &owner, &email, &t.CreatedAt, &t.ModifiedAt); err != nil {
		return nil, err
	}
	if owner.Valid {
		id := owner.Int64
		t.UserID = &id
		t.User = &models.UserResponse{ID: id, Email: email.String}
	}
	return &t, nil
}

// FindByID は指定されたIDのTodoタスクを作成者付きで取得します。
func (r *MySQLTodoRepo) FindByID(ctx context.Context, id int64) (*models.Todo, error) {
	t, err := scanTodo(database.Conn(ctx, r.DB).QueryRowContext(ctx, selectTodo+" WHERE t.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		log.Printf("Failed to query todo by ID: %v", err)
		return nil, fmt.Errorf("could not query todo: %w", err)
	}
	return t, nil
}

func (r *MySQLTodoRepo) FindPage(ctx context.Context, offset, limit int) ([]*models.Todo, int64, error) {
	conn := database.Conn(ctx, r.DB)

	var total int64
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM todos").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("could not count todos: %w", err)
	}

	rows, err := conn.QueryContext(ctx, selectTodo+" ORDER BY t.modified_at DESC, t.id DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		log.Printf("Failed to query todos: %v", err)
		return nil, 0, fmt.Errorf("could not query todos: %w", err)
	}
	defer rows.Close()

	var todos []*models.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			log.Printf("Failed to scan todo: %v", err)
			return nil, 0, fmt.Errorf("could not scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating todos: %w", err)
	}
	return todos, total, nil
}
