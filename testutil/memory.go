package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/repositories"
)

// MemoryStore はリポジトリのインメモリ実装が共有するデータです。
// 作成・更新のたびに時刻を1秒ずつ進めるので、更新日時の順序が決まります。
type MemoryStore struct {
	mu       sync.Mutex
	seq      map[string]int64
	clock    time.Time
	users    map[int64]*models.User
	todos    map[int64]*models.Todo
	comments map[int64]*models.Comment
	managers map[int64]*models.Manager
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seq:      map[string]int64{},
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    map[int64]*models.User{},
		todos:    map[int64]*models.Todo{},
		comments: map[int64]*models.Comment{},
		managers: map[int64]*models.Manager{},
	}
}

func (s *MemoryStore) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *MemoryStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

// DeleteUser はユーザー削除時の外部キー動作を再現します。
// 作成したTodoの作成者は nil になり、そのユーザーのコメントと担当者レコードは削除されます。
func (s *MemoryStore) DeleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	for _, t := range s.todos {
		if t.IsOwnedBy(id) {
			t.UserID = nil
			t.User = nil
		}
	}
	for cid, c := range s.comments {
		if c.UserID == id {
			delete(s.comments, cid)
		}
	}
	for mid, m := range s.managers {
		if m.UserID == id {
			delete(s.managers, mid)
		}
	}
}

// Users, Todos, Comments, Managers は同じストアを共有するリポジトリを返します。
func (s *MemoryStore) Users() *MemoryUserRepo       { return &MemoryUserRepo{s} }
func (s *MemoryStore) Todos() *MemoryTodoRepo       { return &MemoryTodoRepo{s} }
func (s *MemoryStore) Comments() *MemoryCommentRepo { return &MemoryCommentRepo{s} }
func (s *MemoryStore) Managers() *MemoryManagerRepo { return &MemoryManagerRepo{s} }

type MemoryUserRepo struct{ s *MemoryStore }

var _ repositories.UserRepository = (*MemoryUserRepo)(nil)

func (r *MemoryUserRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, repositories.ErrDuplicateEmail
		}
	}
	now := r.s.tick()
	c := *u
	c.ID = r.s.next("users")
	c.CreatedAt, c.ModifiedAt = now, now
	r.s.users[c.ID] = &c
	out := c
	return &out, nil
}

func (r *MemoryUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *MemoryUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *MemoryUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *MemoryUserRepo) UpdatePassword(_ context.Context, id int64, newHash string) error {
	return r.update(id, func(u *models.User) { u.PasswordHash = newHash })
}

func (r *MemoryUserRepo) UpdateRole(_ context.Context, id int64, role models.UserRole) error {
	return r.update(id, func(u *models.User) { u.Role = role })
}

func (r *MemoryUserRepo) update(id int64, fn func(u *models.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	fn(u)
	u.ModifiedAt = r.s.tick()
	return nil
}

type MemoryTodoRepo struct{ s *MemoryStore }

var _ repositories.TodoRepository = (*MemoryTodoRepo)(nil)

func (r *MemoryTodoRepo) Create(_ context.Context, t *models.Todo) (*models.Todo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.tick()
	c := *t
	c.ID = r.s.next("todos")
	c.CreatedAt, c.ModifiedAt = now, now
	if c.UserID != nil {
		owner := *c.UserID
		c.UserID = &owner
	}
	r.s.todos[c.ID] = &c
	return r.s.withOwner(&c), nil
}

func (s *MemoryStore) withOwner(t *models.Todo) *models.Todo {
	out := *t
	out.User = nil
	if out.UserID != nil {
		if u, ok := s.users[*out.UserID]; ok {
			out.User = u.Public()
		}
	}
	return &out
}

func (r *MemoryTodoRepo) FindByID(_ context.Context, id int64) (*models.Todo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.todos[id]
	if !ok {
		return nil, repositories.ErrTodoNotFound
	}
	return r.s.withOwner(t), nil
}

func (r *MemoryTodoRepo) FindPage(_ context.Context, offset, limit int) ([]*models.Todo, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*models.Todo, 0, len(r.s.todos))
	for _, t := range r.s.todos {
		all = append(all, r.s.withOwner(t))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].ModifiedAt.Equal(all[j].ModifiedAt) {
			return all[i].ModifiedAt.After(all[j].ModifiedAt)
		}
		return all[i].ID > all[j].ID
	})
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

type MemoryCommentRepo struct{ s *MemoryStore }

var _ repositories.CommentRepository = (*MemoryCommentRepo)(nil)

func (r *MemoryCommentRepo) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.tick()
	cp := *c
	cp.ID = r.s.next("comments")
	cp.CreatedAt, cp.ModifiedAt = now, now
	r.s.comments[cp.ID] = &cp
	return r.s.commentWithUser(&cp), nil
}

func (s *MemoryStore) commentWithUser(c *models.Comment) *models.Comment {
	out := *c
	if u, ok := s.users[c.UserID]; ok {
		out.User = u.Public()
	}
	return &out
}

func (r *MemoryCommentRepo) FindByID(_ context.Context, id int64) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, repositories.ErrCommentNotFound
	}
	return r.s.commentWithUser(c), nil
}

func (r *MemoryCommentRepo) FindByTodoID(_ context.Context, todoID int64) ([]*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Comment{}
	for _, c := range r.s.comments {
		if c.TodoID == todoID {
			out = append(out, r.s.commentWithUser(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryCommentRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return repositories.ErrCommentNotFound
	}
	delete(r.s.comments, id)
	return nil
}

type MemoryManagerRepo struct{ s *MemoryStore }

var _ repositories.ManagerRepository = (*MemoryManagerRepo)(nil)

func (r *MemoryManagerRepo) Create(_ context.Context, m *models.Manager) (*models.Manager, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	cp.ID = r.s.next("managers")
	r.s.managers[cp.ID] = &cp
	return r.s.managerWithUser(&cp), nil
}

func (s *MemoryStore) managerWithUser(m *models.Manager) *models.Manager {
	out := *m
	if u, ok := s.users[m.UserID]; ok {
		out.User = u.Public()
	}
	return &out
}

func (r *MemoryManagerRepo) FindByID(_ context.Context, id int64) (*models.Manager, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.managers[id]
	if !ok {
		return nil, repositories.ErrManagerNotFound
	}
	return r.s.managerWithUser(m), nil
}

func (r *MemoryManagerRepo) FindByTodoID(_ context.Context, todoID int64) ([]*models.Manager, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Manager{}
	for _, m := range r.s.managers {
		if m.TodoID == todoID {
			out = append(out, r.s.managerWithUser(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryManagerRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.managers[id]; !ok {
		return repositories.ErrManagerNotFound
	}
	delete(r.s.managers, id)
	return nil
}

// StaticWeather は常に同じ天気を返す WeatherProvider です。
type StaticWeather struct {
	Weather string
	Err     error
}

func (w StaticWeather) TodayWeather(context.Context) (string, error) {
	return w.Weather, w.Err
}
