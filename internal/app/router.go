package app

import (
	"elearn_backend/docs"
	"elearn_backend/internal/config"
	"elearn_backend/internal/middleware"
	"elearn_backend/internal/model"

	"elearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, a.services.auth), middleware.ActivityMiddleware(repos.user))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerLecturerRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/modules", c.module.ListModules)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/logout", c.auth.Logout)
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.auth.UpdateProfile)

	// 模块浏览与学习
	rg.GET("/modules/:id", c.module.GetModule)
	rg.GET("/modules/:id/content", c.content.GetModuleContent)
	rg.GET("/modules/:id/progress", c.enrollment.GetModuleProgress)

	// 选课
	rg.POST("/modules/:id/enroll", c.enrollment.Enroll)
	rg.GET("/enrollments", c.enrollment.ListMyEnrollments)
	rg.POST("/enrollments/:id/complete", c.enrollment.CompleteEnrollment)

	// 学习进度与测验
	rg.POST("/content/:id/complete", c.enrollment.CompleteContent)
	rg.POST("/content/:id/quiz/submit", c.quiz.SubmitQuiz)
	rg.GET("/content/:id/quiz/attempts", c.quiz.ListAttempts)

	// 内容创作：属主校验在服务层，这里只挡角色
	lecturerOnly := middleware.RoleMiddleware(model.Lecturer)
	rg.POST("/modules/:id/content", lecturerOnly, c.content.CreateContent)
	rg.DELETE("/content/:id", lecturerOnly, c.content.DeleteContent)
}

func (a *App) registerLecturerRoutes(rg *gin.RouterGroup, c *controllers) {
	lecturer := rg.Group("/lecturer")
	lecturer.Use(middleware.RoleMiddleware(model.Lecturer))
	{
		lecturer.GET("/modules", c.module.ListMyModules)
		lecturer.POST("/modules", c.module.CreateModule)
		lecturer.PUT("/modules/:id", c.module.UpdateModule)
		lecturer.DELETE("/modules/:id", c.module.DeleteModule)
		lecturer.GET("/modules/:id/learners", c.module.ListModuleLearners)

		lecturer.POST("/modules/:id/video-chunk", c.content.UploadVideoChunk)
		lecturer.GET("/upload-progress/:identifier", c.content.GetUploadProgress)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.GET("/users/:id", c.user.GetUser)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.PUT("/users/:id/password", c.user.ResetPassword)
		admin.DELETE("/users/:id", c.user.DeleteUser)

		admin.GET("/modules", c.module.ListAllModules)
		admin.GET("/report", c.report.PlatformReport)
	}
}
