package router

import (
	"log/slog"
	"os"
	"time"

	"thrive/api"
	"thrive/config"
	_ "thrive/docs"
	"thrive/middleware"
	"thrive/repository"
	"thrive/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Deps 路由依赖。除 DB 外均可为空
type Deps struct {
	DB *gorm.DB
	// Redis shares the global rate limit window across replicas.
	Redis  redis.Cmdable
	Mailer service.GoalNotifier
	Logger *slog.Logger
	Now    service.Clock
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	api.RegisterValidators()

	logger := deps.Logger
	if logger == nil {
		logger = middleware.NewLogger(os.Stdout, cfg.Server.Mode)
	}
	var counter middleware.WindowCounter = middleware.NewMemoryCounter()
	if deps.Redis != nil {
		counter = middleware.NewRedisCounter(deps.Redis, "")
	}
	var mailer service.GoalNotifier = service.NewMailService(cfg.Email)
	if deps.Mailer != nil {
		mailer = deps.Mailer
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.SecurityHeaders(),
		middleware.CORSMiddleware(),
		middleware.RateLimit(cfg.RateLimit.RequestsPerMinute, time.Minute, counter),
		middleware.StoreTimeout(cfg.Database.QueryTimeout),
	)

	// 仓储与服务
	tokens := middleware.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireTime)
	users := repository.NewUserRepository(deps.DB)
	expenses := repository.NewExpenseRepository(deps.DB)
	incomes := repository.NewIncomeRepository(deps.DB)
	goals := repository.NewGoalRepository(deps.DB)
	predictions := repository.NewPredictionRepository(deps.DB)

	adminService := service.NewAdminService(users, expenses, incomes, goals)

	authHandler := api.NewAuthHandler(service.NewAuthService(users, tokens))
	expenseHandler := api.NewExpenseHandler(service.NewExpenseService(expenses, deps.Now))
	incomeHandler := api.NewIncomeHandler(service.NewIncomeService(incomes, deps.Now))
	goalHandler := api.NewGoalHandler(service.NewGoalService(goals, users, mailer))
	predictHandler := api.NewPredictHandler(service.NewAnalyticsService(expenses, incomes, goals, predictions, deps.Now))
	adminHandler := api.NewAdminHandler(adminService, service.NewExportService(adminService), cfg.Admin.BootstrapEnabled)

	r.GET("/", api.Health(cfg.Server.Mode))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	claimsOnly := middleware.Authenticate(tokens, middleware.ClaimsOnly, nil)
	loginLimit := middleware.LoginRateLimit(cfg.RateLimit.LoginAttemptsPerMinute, time.Minute)

	v := r.Group("/api")
	{
		auth := v.Group("/auth")
		{
			auth.POST("/register", loginLimit, authHandler.Register)
			auth.POST("/login", loginLimit, authHandler.Login)
			auth.GET("/me", claimsOnly, authHandler.Me)
		}

		authorized := v.Group("", claimsOnly)
		{
			expenses := authorized.Group("/expenses")
			{
				expenses.GET("", expenseHandler.List)
				expenses.POST("", expenseHandler.Create)
				expenses.GET("/:id", expenseHandler.Get)
				expenses.PUT("/:id", expenseHandler.Update)
				expenses.DELETE("/:id", expenseHandler.Delete)
			}

			incomes := authorized.Group("/incomes")
			{
				incomes.GET("", incomeHandler.List)
				incomes.POST("", incomeHandler.Create)
				incomes.GET("/:id", incomeHandler.Get)
				incomes.PUT("/:id", incomeHandler.Update)
				incomes.DELETE("/:id", incomeHandler.Delete)
			}

			goals := authorized.Group("/goals")
			{
				goals.GET("", goalHandler.List)
				goals.POST("", goalHandler.Create)
				goals.GET("/:id", goalHandler.Get)
				goals.PUT("/:id", goalHandler.Update)
				goals.PATCH("/:id/add", goalHandler.AddFunds)
				goals.DELETE("/:id", goalHandler.Delete)
			}

			predict := authorized.Group("/predict")
			{
				predict.GET("", predictHandler.Predict)
				predict.GET("/dashboard", predictHandler.Dashboard)
				predict.GET("/analytics/categories", predictHandler.CategoryAnalytics)
			}
		}

		admin := v.Group("/admin")
		{
			// 首个管理员（无需登录，可通过配置关闭）
			admin.POST("/create-admin", loginLimit, adminHandler.CreateAdmin)

			gated := admin.Group("",
				middleware.Authenticate(tokens, middleware.StoreVerified, users),
				middleware.RequireAdmin(users),
			)
			{
				gated.GET("/users", adminHandler.Users)
				gated.GET("/stats", adminHandler.Stats)
				gated.GET("/expenses", adminHandler.Expenses)
				gated.GET("/incomes", adminHandler.Incomes)
				gated.GET("/goals", adminHandler.Goals)
				gated.GET("/export/excel", adminHandler.ExportExcel)
				gated.DELETE("/users/:id", adminHandler.DeleteUser)
				gated.PATCH("/users/:id/make-admin", adminHandler.MakeAdmin)
				gated.PATCH("/users/:id/remove-admin", adminHandler.RemoveAdmin)
			}
		}
	}

	return r
}
