package services

import (
	"context"

	"todo-manager/backend/internal/apperror"
	"todo-manager/backend/internal/database"
	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/repositories"
)

// WeatherProvider は今日の天気を返します。
type WeatherProvider interface {
	TodayWeather(ctx context.Context) (string, error)
}

// TodoService はTodo関連のビジネスロジックを扱います。
type TodoService struct {
	tx      database.Transactor
	todos   repositories.TodoRepository
	weather WeatherProvider
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(tx database.Transactor, todos repositories.TodoRepository, weather WeatherProvider) *TodoService {
	return &TodoService{tx: tx, todos: todos, weather: weather}
}

// SaveTodo は今日の天気を付けてTodoを作成します。作成者はリクエスト元ユーザーです。
func (s *TodoService) SaveTodo(ctx context.Context, author models.AuthUser, req models.TodoSaveRequest) (*models.Todo, error) {
	// 外部APIの呼び出しはトランザクションの外で行う
	weather, err := s.weather.TodayWeather(ctx)
	if err != nil {
		return nil, err
	}

	var created *models.Todo
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		owner := author.ID
		created, err = s.todos.Create(ctx, &models.Todo{
			Title:    req.Title,
			Contents: req.Contents,
			Weather:  weather,
			UserID:   &owner,
		})
		if err != nil {
			return apperror.Internal("failed to save todo", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetTodos は更新日時の降順でTodoを1ページ分返します。
func (s *TodoService) GetTodos(ctx context.Context, req models.PageRequest) (models.Page[models.TodoResponse], error) {
	req = req.Normalize()
	var page models.Page[models.TodoResponse]
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		todos, total, err := s.todos.FindPage(ctx, req.Offset(), req.Size)
		if err != nil {
			return apperror.Internal("failed to load todos", err)
		}
		content := make([]models.TodoResponse, 0, len(todos))
		for _, t := range todos {
			content = append(content, models.NewTodoResponse(t))
		}
		page = models.NewPage(content, req, total)
		return nil
	})
	return page, err
}

// GetTodo は指定IDのTodoを作成者付きで返します。
func (s *TodoService) GetTodo(ctx context.Context, todoID int64) (*models.Todo, error) {
	var todo *models.Todo
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		todo, err = s.todos.FindByID(ctx, todoID)
		return translate(err, repositories.ErrTodoNotFound, apperror.ErrTodoNotFound)
	})
	return todo, err
}
