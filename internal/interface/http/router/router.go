// Package router 组装gin引擎:全局中间件与/api/v1路由表
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/onlinebookstore/internal/domain/user"
	"github.com/xiebiao/onlinebookstore/internal/infrastructure/config"
	"github.com/xiebiao/onlinebookstore/internal/interface/http/handler"
	"github.com/xiebiao/onlinebookstore/internal/interface/http/middleware"
	"github.com/xiebiao/onlinebookstore/pkg/response"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	User     *handler.UserHandler
	Book     *handler.BookHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
}

// New 创建并配置Gin引擎
// 中间件顺序:Recovery → 请求日志 → 追踪 → 指标 → CORS
func New(cfg *config.Config, h *Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.Tracing(),
	)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
	r.Use(middleware.CORS(cfg.CORS))

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// 生产环境建议关闭或加访问控制
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	admin := middleware.RequireRole(string(user.RoleAdmin))
	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/refresh", h.User.Refresh)
		users.POST("/logout", auth.RequireAuth(), h.User.Logout)
	}

	books := v1.Group("/books")
	{
		books.GET("", h.Book.List)
		books.GET("/search", h.Book.Search)
		books.GET("/:id", h.Book.Get)

		books.POST("", auth.RequireAuth(), admin, h.Book.Create)
		books.PUT("/:id", auth.RequireAuth(), admin, h.Book.Update)
		books.DELETE("/:id", auth.RequireAuth(), admin, h.Book.Delete)
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.GET("/:id/books", h.Book.ListByCategory)

		categories.POST("", auth.RequireAuth(), admin, h.Category.Create)
		categories.PUT("/:id", auth.RequireAuth(), admin, h.Category.Update)
		categories.DELETE("/:id", auth.RequireAuth(), admin, h.Category.Delete)
	}

	carts := v1.Group("/cart")
	carts.Use(auth.RequireAuth())
	{
		carts.GET("", h.Cart.Get)
		carts.POST("", h.Cart.AddItem)
		carts.PUT("/cart-items/:id", h.Cart.UpdateItem)
		carts.DELETE("/cart-items/:id", h.Cart.RemoveItem)
		carts.GET("/all", admin, h.Cart.ListAll)
	}

	orders := v1.Group("/orders")
	orders.Use(auth.RequireAuth())
	{
		orders.POST("", h.Order.Place)
		orders.GET("", h.Order.List)
		orders.GET("/:id/items", h.Order.ListItems)
		orders.GET("/:id/items/:itemId", h.Order.GetItem)
		orders.PATCH("/:id", admin, h.Order.UpdateStatus)
	}

	return r
}
