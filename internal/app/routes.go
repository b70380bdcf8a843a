package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/faithingod1/parish-record/internal/auth"
	"github.com/faithingod1/parish-record/internal/cache"
	"github.com/faithingod1/parish-record/internal/config"
	"github.com/faithingod1/parish-record/internal/handlers"
	"github.com/faithingod1/parish-record/internal/repo"
	"github.com/faithingod1/parish-record/internal/service"
)

// Setup builds the production dependency graph and registers all routes.
func Setup(r *gin.Engine, cfg config.Config, db *sql.DB, rdb *redis.Client) {
	sessions := auth.NewRedisStore(rdb, cfg.Session.TTL.Duration())

	userRepo := repo.NewSQLiteUserRepo(db)
	userSvc := service.NewUserService(userRepo)

	confRepo := repo.NewSQLiteConfirmationRepo(db)
	confCache := cache.NewConfirmationCache(rdb, cfg.Redis.DefaultTTL.Duration())
	confSvc := service.NewConfirmationService(confRepo, confCache)

	Register(r, cfg, sessions, userSvc, confSvc)
}

// Register wires routes against the given collaborators. Tests call this
// directly with an in-memory session store and a cacheless service.
func Register(r *gin.Engine, cfg config.Config, sessions auth.Store, userSvc *service.UserService, confSvc *service.ConfirmationService) {
	guard := auth.NewGuard(sessions)

	authHandler := handlers.NewAuthHandler(sessions, guard, userSvc, int(cfg.Session.TTL.Duration().Seconds()))
	confHandler := handlers.NewConfirmationHandler(confSvc, guard)
	backupHandler := handlers.NewBackupHandler(confSvc, cfg.SQLite.Path)

	r.GET("/", authHandler.Root)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	protected := r.Group("", auth.RequireSession(sessions))
	protected.GET("/dashboard", confHandler.Dashboard)
	protected.GET("/confirmations", confHandler.List)
	protected.GET("/confirmations/new", confHandler.NewForm)
	protected.POST("/confirmations/new", confHandler.Create)
	protected.GET("/confirmations/:id", confHandler.View)
	protected.GET("/confirmations/:id/edit", confHandler.EditForm)
	protected.POST("/confirmations/:id/edit", confHandler.Update)
	protected.POST("/confirmations/:id/delete", confHandler.Delete)
	protected.GET("/backup/db", backupHandler.DownloadDB)
	protected.GET("/backup/csv", backupHandler.ExportCSV)
}
