package services

import (
	"context"

	"todo-manager/backend/internal/apperror"
	"todo-manager/backend/internal/database"
	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/repositories"
)

// ManagerService はTodoの担当者 (manager) の登録・一覧・削除を扱います。
type ManagerService struct {
	tx       database.Transactor
	users    repositories.UserRepository
	todos    repositories.TodoRepository
	managers repositories.ManagerRepository
}

func NewManagerService(tx database.Transactor, users repositories.UserRepository, todos repositories.TodoRepository, managers repositories.ManagerRepository) *ManagerService {
	return &ManagerService{tx: tx, users: users, todos: todos, managers: managers}
}

// SaveManager は candidateUserID のユーザーをTodoの担当者として登録します。
//
// 判定順:
//  1. Todoが存在する (ErrTodoNotFound)
//  2. Todoに作成者がいる (ErrInvalidWriterUser)
//  3. 担当者ユーザーが存在する (ErrManagerUserNotFound)
//  4. 担当者が作成者本人ではない (ErrCannotAssignSelf)
//
// リクエスト元ユーザーが作成者であるかは確認しません。
func (s *ManagerService) SaveManager(ctx context.Context, requester models.AuthUser, todoID, candidateUserID int64) (*models.Manager, error) {
	var created *models.Manager
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		todo, err := s.todos.FindByID(ctx, todoID)
		if err != nil {
			return translate(err, repositories.ErrTodoNotFound, apperror.ErrTodoNotFound)
		}
		if !todo.HasOwner() {
			return apperror.ErrInvalidWriterUser
		}

		candidate, err := s.users.FindByID(ctx, candidateUserID)
		if err != nil {
			return translate(err, repositories.ErrUserNotFound, apperror.ErrManagerUserNotFound)
		}
		if todo.IsOwnedBy(candidate.ID) {
			return apperror.ErrCannotAssignSelf
		}

		created, err = s.managers.Create(ctx, &models.Manager{UserID: candidate.ID, TodoID: todo.ID})
		if err != nil {
			return apperror.Internal("failed to save manager", err)
		}
		return nil
	})
	return created, err
}

// GetManagers はTodoの担当者一覧を返します。担当者がいなければ空のスライスです。
func (s *ManagerService) GetManagers(ctx context.Context, todoID int64) ([]models.ManagerResponse, error) {
	res := []models.ManagerResponse{}
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		if _, err := s.todos.FindByID(ctx, todoID); err != nil {
			return translate(err, repositories.ErrTodoNotFound, apperror.ErrTodoNotFound)
		}
		managers, err := s.managers.FindByTodoID(ctx, todoID)
		if err != nil {
			return apperror.Internal("failed to load managers", err)
		}
		for _, m := range managers {
			res = append(res, models.NewManagerResponse(m))
		}
		return nil
	})
	return res, err
}

// DeleteManager はTodoの作成者が担当者を削除します。
//
// 判定順:
//  1. リクエスト元ユーザーが存在する (存在しなくても ErrTodoNotFound を返す)
//  2. Todoが存在する (ErrTodoNotFound)
//  3. Todoの作成者がリクエスト元ユーザーである (ErrInvalidWriterUser、作成者不在も含む)
//  4. 担当者レコードが存在する (ErrManagerNotFound)
//  5. 担当者レコードがそのTodoのものである (ErrManagerNotAssignedTodo)
func (s *ManagerService) DeleteManager(ctx context.Context, requesterID, todoID, managerID int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		requester, err := s.users.FindByID(ctx, requesterID)
		if err != nil {
			return translate(err, repositories.ErrUserNotFound, apperror.ErrTodoNotFound)
		}

		todo, err := s.todos.FindByID(ctx, todoID)
		if err != nil {
			return translate(err, repositories.ErrTodoNotFound, apperror.ErrTodoNotFound)
		}
		if !todo.IsOwnedBy(requester.ID) {
			return apperror.ErrInvalidWriterUser
		}

		manager, err := s.managers.FindByID(ctx, managerID)
		if err != nil {
			return translate(err, repositories.ErrManagerNotFound, apperror.ErrManagerNotFound)
		}
		if manager.TodoID != todo.ID {
			return apperror.ErrManagerNotAssignedTodo
		}

		return translate(s.managers.Delete(ctx, manager.ID), repositories.ErrManagerNotFound, apperror.ErrManagerNotFound)
	})
}
