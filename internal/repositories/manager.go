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

var ErrManagerNotFound = errors.New("manager not found")

type ManagerRepository interface {
	Create(ctx context.Context, m *models.Manager) (*models.Manager, error)
	FindByID(ctx context.Context, id int64) (*models.Manager, error)
	// FindByTodoID は担当ユーザーの公開フィールド付きでID順に返します。
	FindByTodoID(ctx context.Context, todoID int64) ([]*models.Manager, error)
	Delete(ctx context.Context, id int64) error
}

type MySQLManagerRepo struct {
	DB *sql.DB
}

func NewMySQLManagerRepo(db *sql.DB) *MySQLManagerRepo {
	return &MySQLManagerRepo{DB: db}
}

func (r *MySQLManagerRepo) Create(ctx context.Context, m *models.Manager) (*models.Manager, error) {
	result, err := database.Conn(ctx, r.DB).ExecContext(ctx, "INSERT INTO managers (user_id, todo_id) VALUES (?, ?)", m.UserID, m.TodoID)
	if err != nil {
		log.Printf("Failed to insert manager: %v", err)
		return nil, fmt.Errorf("could not insert manager: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	return r.FindByID(ctx, id)
}

const selectManager = `SELECT m.id, m.user_id, m.todo_id, u.email
	FROM managers m JOIN users u ON u.id = m.user_id`

func scanManager(row rowScanner) (*models.Manager, error) {
	var m models.Manager
	var email string
	if err := row.Scan(&m.ID, &m.UserID, &m.TodoID, &email); err != nil {
		return nil, err
	}
	m.User = &models.UserResponse{ID: m.UserID, Email: email}
	return &m, nil
}

func (r *MySQLManagerRepo) FindByID(ctx context.Context, id int64) (*models.Manager, error) {
	m, err := scanManager(database.Conn(ctx, r.DB).QueryRowContext(ctx, selectManager+" WHERE m.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrManagerNotFound
		}
		log.Printf("Failed to query manager by ID: %v", err)
		return nil, fmt.Errorf("could not query manager: %w", err)
	}
	return m, nil
}

func (r *MySQLManagerRepo) FindByTodoID(ctx context.Context, todoID int64) ([]*models.Manager, error) {
	rows, err := database.Conn(ctx, r.DB).QueryContext(ctx, selectManager+" WHERE m.todo_id = ? ORDER BY m.id", todoID)
	if err != nil {
		log.Printf("Failed to query managers: %v", err)
		return nil, fmt.Errorf("could not query managers: %w", err)
	}
	defer rows.Close()

	managers := []*models.Manager{}
	for rows.Next() {
		m, err := scanManager(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan manager: %w", err)
		}
		managers = append(managers, m)
	}
	return managers, rows.Err()
}

// Delete は担当者レコードを物理削除します。
func (r *MySQLManagerRepo) Delete(ctx context.Context, id int64) error {
	result, err := database.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM managers WHERE id = ?", id)
	if err != nil {
		log.Printf("Failed to delete manager: %v", err)
		return fmt.Errorf("could not delete manager: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrManagerNotFound
	}
	return nil
}
