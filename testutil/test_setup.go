// Package testutil はテスト用のルーター・リポジトリ・ヘルパーを提供します。
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"todo-manager/backend/internal/config"
	"todo-manager/backend/internal/database"
	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/repositories"
	"todo-manager/backend/internal/routes"
	"todo-manager/backend/internal/services"
)

// シードユーザー
const (
	NormalEmail    = "normal_user@example.com"
	NormalPassword = "password123"
	AdminEmail     = "admin@example.com"
	AdminPassword  = "adminpass123"
	TestWeather    = "Sunny"
)

// Env はテスト1件分のルーターと依存関係です。
type Env struct {
	Router     *gin.Engine
	DB         *sql.DB      // MySQL のときだけ
	Store      *MemoryStore // インメモリのときだけ
	Repos      routes.Repositories
	Services   *routes.Services
	AuditLog   *bytes.Buffer
	NormalUser *models.User
	AdminUser  *models.User
}

// TestConfig はテスト用の設定を返します。bcryptのコストは最小です。
func TestConfig() *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret",
		JWTTTL:       time.Hour,
		BcryptCost:   bcrypt.MinCost,
		AllowOrigins: []string{"http://localhost:3000"},
	}
}

// SetupMemory はインメモリのリポジトリでルーターを組み立て、通常ユーザーと管理者を登録します。
func SetupMemory(t *testing.T, weather services.WeatherProvider) *Env {
	t.Helper()
	if weather == nil {
		weather = StaticWeather{Weather: TestWeather}
	}
	store := NewMemoryStore()
	repos := routes.Repositories{
		Users:    store.Users(),
		Todos:    store.Todos(),
		Comments: store.Comments(),
		Managers: store.Managers(),
	}
	env := newEnv(t, database.NoopTransactor{}, repos, weather, nil)
	env.Store = store
	return env
}

// SetupTestDB はテスト用のMySQLに接続し、テーブルを作り直してシードユーザーを登録します。
// TEST_DB_NAME が設定されていなければスキップします。
func SetupTestDB(t *testing.T) *Env {
	t.Helper()
	_ = godotenv.Load("../../.env", "../../../.env")

	dbCfg := config.DBConfig{
		User: os.Getenv("TEST_DB_USER"),
		Pass: os.Getenv("TEST_DB_PASS"),
		Host: os.Getenv("TEST_DB_HOST"),
		Port: os.Getenv("TEST_DB_PORT"),
		Name: os.Getenv("TEST_DB_NAME"),
	}
	if dbCfg.Name == "" {
		t.Skip("TEST_DB_NAME is not set; skipping MySQL test")
	}
	if dbCfg.Port == "" {
		dbCfg.Port = "3306"
	}

	db, err := database.InitDB(dbCfg)
	require.NoError(t, err, "Failed to connect test database")
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx, db))
	// 外部キー制約があるため子テーブルから空にする
	_, err = db.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS=0")
	require.NoError(t, err)
	for _, table := range database.Tables {
		_, err := db.ExecContext(ctx, "TRUNCATE TABLE "+table)
		require.NoError(t, err, "Failed to truncate %s", table)
	}
	_, err = db.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS=1")
	require.NoError(t, err)

	repos := routes.Repositories{
		Users:    repositories.NewMySQLUserRepo(db),
		Todos:    repositories.NewMySQLTodoRepo(db),
		Comments: repositories.NewMySQLCommentRepo(db),
		Managers: repositories.NewMySQLManagerRepo(db),
	}
	return newEnv(t, database.NewTransactor(db), repos, StaticWeather{Weather: TestWeather}, db)
}

func newEnv(t *testing.T, tx database.Transactor, repos routes.Repositories, weather services.WeatherProvider, db *sql.DB) *Env {
	gin.SetMode(gin.TestMode)

	auditLog := &bytes.Buffer{}
	svc := routes.NewServices(tx, repos, TestConfig(), weather)
	router := routes.NewRouter(svc, routes.Options{
		AllowOrigins: TestConfig().AllowOrigins,
		DB:           db,
		AuditLogger:  log.New(auditLog),
	})

	return &Env{
		Router:     router,
		DB:         db,
		Repos:      repos,
		Services:   svc,
		AuditLog:   auditLog,
		NormalUser: CreateTestUser(t, repos.Users, NormalEmail, NormalPassword, models.RoleUser),
		AdminUser:  CreateTestUser(t, repos.Users, AdminEmail, AdminPassword, models.RoleAdmin),
	}
}

// CreateTestUser はリポジトリに直接ユーザーを登録します。
func CreateTestUser(t *testing.T, userRepo repositories.UserRepository, email, password string, role models.UserRole) *models.User {
	t.Helper()
	hashed, err := services.NewPasswordEncoder(bcrypt.MinCost).Encode(password)
	require.NoError(t, err)

	created, err := userRepo.Create(context.Background(), &models.User{
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	require.NotZero(t, created.ID)
	return created
}

// DoJSON は body をJSONにしてリクエストを送ります。bearer が空なら Authorization ヘッダーを付けません。
func DoJSON(t *testing.T, router *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// LoginAndGetToken はサインインして "Bearer " 付きのトークンを返します。
func LoginAndGetToken(t *testing.T, router *gin.Engine, email, password string) (string, error) {
	t.Helper()
	resp := DoJSON(t, router, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", resp.Code, resp.Body.String())
	}

	var loginRes models.AuthResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &loginRes); err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	if loginRes.BearerToken == "" {
		return "", errors.New("token not found in login response")
	}
	return loginRes.BearerToken, nil
}

// MustLogin は LoginAndGetToken の失敗をテスト失敗にします。
func MustLogin(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()
	token, err := LoginAndGetToken(t, router, email, password)
	require.NoError(t, err)
	return token
}

// CreateTestTodo はAPI経由でTodoを作成します。
func CreateTestTodo(t *testing.T, router *gin.Engine, bearer, title, contents string) *models.TodoResponse {
	t.Helper()
	resp := DoJSON(t, router, http.MethodPost, "/api/todos", bearer, map[string]string{
		"title":    title,
		"contents": contents,
	})
	require.Equal(t, http.StatusCreated, resp.Code, "TODO作成に失敗しました: %s", resp.Body.String())

	var created models.TodoResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	return &created
}

// DecodeError はエラーレスポンスを読みます。
func DecodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
