package routes

import (
	"brims-http-service/config"
	"brims-http-service/controllers"
	_ "brims-http-service/docs"
	"brims-http-service/middleware"
	"brims-http-service/services/container"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter initializes and returns the configured router
func SetupRouter(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	serviceContainer := container.NewServiceContainer(db, cfg, redisClient)
	middleware.InitAuthMiddleware(cfg)

	// Swagger documentation route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes configures every API route
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	api := r.Group("/api")
	registerPublicRoutes(api, container)
	registerStaffRoutes(api, container)
	registerAdminRoutes(api, container)
}

// registerPublicRoutes registers routes that need no token
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// health check
	healthController := controllers.NewHealthCheckController()
	api.GET("/ping", healthController.Ping)

	// login is throttled per client IP
	api.POST("/auth/login",
		middleware.LoginRateLimiter(1, 5),
		controllers.HandleJWTFunc(container, "login"))
}

// registerStaffRoutes registers routes open to staff and admins
func registerStaffRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	auth := api.Group("/")
	auth.Use(middleware.AuthenticateStaff())

	// resident directory
	auth.Group("/residents").GET("", controllers.HandleResidentFunc(container, "getResidents"))
	auth.Group("/residents").GET("/:id", controllers.HandleResidentFunc(container, "getResident"))
	auth.Group("/residents").POST("", controllers.HandleResidentFunc(container, "createResident"))
	auth.Group("/residents").PUT("/:id", controllers.HandleResidentFunc(container, "updateResident"))
	auth.Group("/residents").DELETE("/:id", controllers.HandleResidentFunc(container, "deleteResident"))

	// document request workflow
	auth.Group("/requests").GET("", controllers.HandleRequestFunc(container, "getRequests"))
	auth.Group("/requests").GET("/document-types", controllers.HandleRequestFunc(container, "getDocumentTypes"))
	auth.Group("/requests").GET("/:id", controllers.HandleRequestFunc(container, "getRequest"))
	auth.Group("/requests").POST("", controllers.HandleRequestFunc(container, "createRequest"))
	auth.Group("/requests").PUT("/:id", controllers.HandleRequestFunc(container, "updateRequest"))
	auth.Group("/requests").DELETE("/:id", controllers.HandleRequestFunc(container, "deleteRequest"))
	auth.Group("/requests").POST("/:id/complete", controllers.HandleRequestFunc(container, "completeRequest"))
	auth.Group("/requests").GET("/:id/certificate", controllers.HandleDocumentFunc(container, "renderCertificate"))
	auth.Group("/requests").GET("/:id/document", controllers.HandleDocumentFunc(container, "getDocumentText"))

	// reports and dashboards
	auth.Group("/reports").GET("/dashboard", controllers.HandleReportFunc(container, "getDashboardStats"))
	auth.Group("/reports").GET("/dashboard/me", controllers.HandleReportFunc(container, "getStaffDashboard"))
	auth.Group("/reports").GET("/requests/monthly", controllers.HandleReportFunc(container, "getMonthlyRequests"))
	auth.Group("/reports").GET("/requests/types", controllers.HandleReportFunc(container, "getRequestTypes"))
	auth.Group("/reports").GET("/residents/age-brackets", controllers.HandleReportFunc(container, "getAgeBrackets"))
	auth.Group("/reports").GET("/residents/gender", controllers.HandleReportFunc(container, "getGenderDistribution"))
	auth.Group("/reports").GET("/residents/civil-status", controllers.HandleReportFunc(container, "getCivilStatusDistribution"))
	auth.Group("/reports").GET("/residents/demographics", controllers.HandleReportFunc(container, "getDemographics"))
	auth.Group("/reports").GET("/residents/demographics/summary", controllers.HandleReportFunc(container, "getDemographicsSummary"))
	auth.Group("/reports").GET("/activity/top-actions", controllers.HandleReportFunc(container, "getTopActions"))
	auth.Group("/reports").GET("/activity/recent", controllers.HandleReportFunc(container, "getRecentActivity"))

	// exports
	auth.Group("/exports").GET("/activity", controllers.HandleExportFunc(container, "exportActivity"))
	auth.Group("/exports").GET("/residents", controllers.HandleExportFunc(container, "exportResidents"))
	auth.Group("/exports").GET("/requests", controllers.HandleExportFunc(container, "exportRequests"))
}

// registerAdminRoutes registers admin-only routes
func registerAdminRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	admin := api.Group("/")
	admin.Use(middleware.AuthenticateAdmin())

	// request approvals
	admin.Group("/requests").POST("/:id/approve", controllers.HandleRequestFunc(container, "approveRequest"))
	admin.Group("/requests").POST("/:id/reject", controllers.HandleRequestFunc(container, "rejectRequest"))
	admin.Group("/requests").POST("/:id/reopen", controllers.HandleRequestFunc(container, "reopenRequest"))

	// account management
	admin.Group("/users").GET("", controllers.HandleUserFunc(container, "getUsers"))
	admin.Group("/users").POST("", controllers.HandleUserFunc(container, "createUser"))
	admin.Group("/users").PUT("/:id", controllers.HandleUserFunc(container, "updateUser"))
	admin.Group("/users").POST("/:id/toggle-status", controllers.HandleUserFunc(container, "toggleStaffStatus"))
	admin.Group("/users").DELETE("/:id", controllers.HandleUserFunc(container, "deleteUser"))

	// audit trail history
	admin.Group("/activities").GET("", controllers.HandleActivityFunc(container, "getActivities"))
	admin.Group("/activities").GET("/filters", controllers.HandleActivityFunc(container, "getActivityFilters"))
}
