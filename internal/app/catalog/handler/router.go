package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pepagora/internal/app/catalog/entity"
	"pepagora/pkg/logger"
	"pepagora/pkg/metrics"
)

// Handlers - набор обработчиков для сборки роутера
type Handlers struct {
	Auth        *AuthHandler
	User        *UserHandler
	Category    *CategoryHandler
	Subcategory *SubcategoryHandler
	Product     *ProductHandler
}

// SetupRoutes настраивает все маршруты сервиса
// Права: чтение - любой аутентифицированный пользователь,
// запись - admin и category_manager, удаление категорий и
// администрирование пользователей - только admin
func SetupRoutes(h Handlers, authMiddleware *AuthMiddleware, frontendURL string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("pepagora-catalog"))

	// Фронт живет на другом origin, cookie требуют credentials
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Публичные эндпоинты - без аутентификации
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "pepagora-catalog",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	writeRoles := []entity.Role{entity.RoleAdmin, entity.RoleCategoryManager}

	auth := router.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)

		auth.POST("/logout", authMiddleware.Authenticate(), h.Auth.Logout)
		auth.GET("/me", authMiddleware.Authenticate(), h.Auth.Me)

		// Администрирование пользователей - только admin
		users := auth.Group("/users")
		users.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole(entity.RoleAdmin))
		{
			users.GET("", h.User.List)
			users.GET("/:id", h.User.Get)
			users.PUT("/:id", h.User.Update)
			users.DELETE("/:id", h.User.Delete)
		}
	}

	categories := router.Group("/categories")
	categories.Use(authMiddleware.Authenticate())
	{
		categories.GET("", h.Category.List)
		categories.GET("/all", h.Category.GetAll)
		categories.GET("/:id", h.Category.Get)

		categories.POST("", authMiddleware.RequireRole(writeRoles...), h.Category.Create)
		categories.PUT("/:id", authMiddleware.RequireRole(writeRoles...), h.Category.Update)
		categories.DELETE("/:id", authMiddleware.RequireRole(entity.RoleAdmin), h.Category.Delete)
	}

	subcategories := router.Group("/subcategories")
	subcategories.Use(authMiddleware.Authenticate())
	{
		subcategories.GET("", h.Subcategory.List)
		subcategories.GET("/filter", h.Subcategory.Filter)
		subcategories.GET("/count", h.Subcategory.Count)
		subcategories.GET("/by-category/:id", h.Subcategory.ListByCategory)
		subcategories.GET("/:id", h.Subcategory.Get)

		subcategories.POST("", authMiddleware.RequireRole(writeRoles...), h.Subcategory.Create)
		subcategories.PUT("/:id", authMiddleware.RequireRole(writeRoles...), h.Subcategory.Update)
		subcategories.DELETE("/:id", authMiddleware.RequireRole(writeRoles...), h.Subcategory.Delete)
	}

	products := router.Group("/products")
	products.Use(authMiddleware.Authenticate())
	{
		products.GET("", h.Product.List)
		products.GET("/filter", h.Product.Filter)
		products.GET("/count", h.Product.Count)
		products.GET("/:id", h.Product.Get)

		products.POST("", authMiddleware.RequireRole(writeRoles...), h.Product.Create)
		products.PATCH("/:id", authMiddleware.RequireRole(writeRoles...), h.Product.Update)
		products.DELETE("/:id", authMiddleware.RequireRole(writeRoles...), h.Product.Delete)
	}

	return router
}
