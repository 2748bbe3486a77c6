// Package routes はルーティングとミドルウェアを提供します。
package routes

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"todo-manager/backend/internal/config"
	"todo-manager/backend/internal/database"
	"todo-manager/backend/internal/handlers"
	"todo-manager/backend/internal/repositories"
	"todo-manager/backend/internal/services"
)

// Repositories はサービスが使うリポジトリの組です。
type Repositories struct {
	Users    repositories.UserRepository
	Todos    repositories.TodoRepository
	Comments repositories.CommentRepository
	Managers repositories.ManagerRepository
}

// Services はルーターに登録するサービスの組です。
type Services struct {
	JWT          *services.JWTService
	Auth         *services.AuthService
	User         *services.UserService
	UserAdmin    *services.UserAdminService
	Todo         *services.TodoService
	Comment      *services.CommentService
	CommentAdmin *services.CommentAdminService
	Manager      *services.ManagerService
}

// NewServices はリポジトリと設定からサービスを組み立てます。
func NewServices(tx database.Transactor, repos Repositories, cfg *config.Config, weather services.WeatherProvider) *Services {
	encoder := services.NewPasswordEncoder(cfg.BcryptCost)
	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	return &Services{
		JWT:          jwtService,
		Auth:         services.NewAuthService(tx, repos.Users, encoder, jwtService),
		User:         services.NewUserService(tx, repos.Users, encoder),
		UserAdmin:    services.NewUserAdminService(tx, repos.Users),
		Todo:         services.NewTodoService(tx, repos.Todos, weather),
		Comment:      services.NewCommentService(tx, repos.Todos, repos.Comments),
		CommentAdmin: services.NewCommentAdminService(tx, repos.Comments),
		Manager:      services.NewManagerService(tx, repos.Users, repos.Todos, repos.Managers),
	}
}

// Options はルーターの付帯設定です。
type Options struct {
	AllowOrigins []string
	DB           *sql.DB     // nil なら /api/dbcheck は 503
	AuditLogger  *log.Logger // nil なら標準エラー出力
}

// SetupRouter はMySQLのリポジトリでGinルーターをセットアップします。
func SetupRouter(db *sql.DB, cfg *config.Config, weather services.WeatherProvider) *gin.Engine {
	repos := Repositories{
		Users:    repositories.NewMySQLUserRepo(db),
		Todos:    repositories.NewMySQLTodoRepo(db),
		Comments: repositories.NewMySQLCommentRepo(db),
		Managers: repositories.NewMySQLManagerRepo(db),
	}
	svc := NewServices(database.NewTransactor(db), repos, cfg, weather)
	return NewRouter(svc, Options{AllowOrigins: cfg.AllowOrigins, DB: db})
}

// NewRouter はすべてのエンドポイントを登録したGinルーターを返します。
func NewRouter(svc *Services, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = opts.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = true
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(corsConfig))

	auditLogger := opts.AuditLogger
	if auditLogger == nil {
		auditLogger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "admin",
		})
	}

	// ハンドラー
	authHandler := handlers.NewAuthHandler(svc.Auth)
	userHandler := handlers.NewUserHandler(svc.User)
	userAdminHandler := handlers.NewUserAdminHandler(svc.UserAdmin)
	todoHandler := handlers.NewTodoHandler(svc.Todo)
	commentHandler := handlers.NewCommentHandler(svc.Comment)
	commentAdminHandler := handlers.NewCommentAdminHandler(svc.CommentAdmin)
	managerHandler := handlers.NewManagerHandler(svc.Manager)

	api := r.Group("/api")
	api.GET("/hello", HelloHandler)
	api.GET("/dbcheck", dbCheckHandler(opts.DB))
	api.POST("/auth/signup", authHandler.SignupHandler)
	api.POST("/auth/signin", authHandler.SigninHandler)

	authorized := api.Group("")
	authorized.Use(AuthMiddleware(svc.JWT))
	{
		authorized.GET("/users/:userId", userHandler.GetUserHandler)
		authorized.PUT("/users", userHandler.ChangePasswordHandler)

		authorized.POST("/todos", todoHandler.SaveTodoHandler)
		authorized.GET("/todos", todoHandler.GetTodosHandler)
		authorized.GET("/todos/:todoId", todoHandler.GetTodoHandler)

		authorized.POST("/todos/:todoId/comments", commentHandler.SaveCommentHandler)
		authorized.GET("/todos/:todoId/comments", commentHandler.GetCommentsHandler)

		authorized.POST("/todos/:todoId/managers", managerHandler.SaveManagerHandler)
		authorized.GET("/todos/:todoId/managers", managerHandler.GetManagersHandler)
		authorized.DELETE("/todos/:todoId/managers/:managerId", managerHandler.DeleteManagerHandler)
	}

	admin := authorized.Group("/admin")
	admin.Use(AdminMiddleware(), AdminAuditLogger(auditLogger))
	{
		admin.PATCH("/users/:userId", userAdminHandler.ChangeUserRoleHandler)
		admin.DELETE("/comments/:commentId", commentAdminHandler.DeleteCommentHandler)
	}

	return r
}

func HelloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from Go Backend!"})
}

func dbCheckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": "database is not configured"})
			return
		}
		stats := database.Health(c.Request.Context(), db)
		if stats["status"] != "up" {
			c.JSON(http.StatusInternalServerError, stats)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
