package router

import (
	"time"

	"budget/api"
	"budget/config"
	_ "budget/docs"
	"budget/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(5, time.Minute), authHandler.Login)
		}

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			// 用户相关
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// 预算相关
			budgetHandler := api.NewBudgetHandler()
			quotaHandler := api.NewQuotaHandler()
			budgets := authorized.Group("/budgets")
			{
				budgets.POST("", budgetHandler.Create)
				budgets.GET("", budgetHandler.List)
				budgets.GET("/mine", budgetHandler.ListMine)
				budgets.GET("/search", budgetHandler.SearchByCode)
				budgets.GET("/next-code", budgetHandler.NextCode)
				budgets.GET("/check-code", budgetHandler.CheckCode)
				budgets.GET("/:id", budgetHandler.Get)
				budgets.DELETE("/:id", budgetHandler.Delete)
				budgets.GET("/:id/remaining", budgetHandler.GetRemaining)
				budgets.POST("/:id/quotas", budgetHandler.AddQuota)
				budgets.GET("/:id/quotas", quotaHandler.ListByBudget)
				budgets.GET("/:id/quotas/stats", quotaHandler.GetStats)
			}

			// 缴款记录相关
			quotas := authorized.Group("/quotas")
			{
				quotas.GET("/:id", quotaHandler.Get)
				quotas.PUT("/:id", quotaHandler.Update)
				quotas.DELETE("/:id", quotaHandler.Delete)
			}

			// 利率配置相关
			interestHandler := api.NewInterestHandler()
			interests := authorized.Group("/interests")
			{
				interests.POST("", interestHandler.Create)
				interests.GET("", interestHandler.List)
				interests.GET("/terms", interestHandler.GetTerms)
				interests.GET("/:id", interestHandler.Get)
				interests.PUT("/:id", interestHandler.Update)
				interests.DELETE("/:id", interestHandler.Delete)
			}

			// 金额试算
			calculatorHandler := api.NewCalculatorHandler()
			authorized.POST("/calculator", calculatorHandler.Calculate)

			// 导出相关
			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/json", exportHandler.ExportJSON)
			}

			// 管理接口（需要管理员权限）
			adminHandler := api.NewAdminHandler(cfg)
			admin := authorized.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.POST("/maintenance", adminHandler.RunMaintenance)
				admin.GET("/status-summary", adminHandler.GetStatusSummary)
				admin.GET("/users", adminHandler.GetAllUsers)
				admin.GET("/export/excel", adminHandler.ExportExcel)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
