//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后执行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/onlinebookstore/internal/application/book"
	appcart "github.com/xiebiao/onlinebookstore/internal/application/cart"
	appcategory "github.com/xiebiao/onlinebookstore/internal/application/category"
	apporder "github.com/xiebiao/onlinebookstore/internal/application/order"
	appuser "github.com/xiebiao/onlinebookstore/internal/application/user"
	"github.com/xiebiao/onlinebookstore/internal/domain/book"
	"github.com/xiebiao/onlinebookstore/internal/domain/cart"
	"github.com/xiebiao/onlinebookstore/internal/domain/category"
	"github.com/xiebiao/onlinebookstore/internal/infrastructure/config"
	"github.com/xiebiao/onlinebookstore/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/onlinebookstore/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/onlinebookstore/internal/interface/http/handler"
	"github.com/xiebiao/onlinebookstore/internal/interface/http/middleware"
	"github.com/xiebiao/onlinebookstore/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、消息
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideEventPublisher,
	mysql.NewTxManager,
	wire.Bind(new(apporder.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(appuser.Transactor), new(*mysql.TxManager)),
)

// repositorySet 仓储
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewCategoryRepository,
	mysql.NewCartStore,
	mysql.NewOrderRepository,
	provideBookRepository,
	wire.Bind(new(book.CategoryLookup), new(category.Repository)),
	wire.Bind(new(cart.BookLookup), new(book.Repository)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideUserService,
	category.NewService,
	book.NewProviderRegistry,
	book.NewSpecificationBuilder,
	book.NewService,
	cart.NewService,
	provideTransitionPolicy,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewEnsureAdminUseCase,
	provideLoginUseCase,
	appuser.NewRefreshUseCase,
	provideLogoutUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewManageBookUseCase,
	appcategory.NewCategoryUseCase,
	appcart.NewCartUseCase,
	apporder.NewPlaceOrderUseCase,
	apporder.NewListUserOrdersUseCase,
	apporder.NewOrderItemsUseCase,
	apporder.NewUpdateStatusUseCase,
)

// middlewareSet JWT与会话
var middlewareSet = wire.NewSet(
	provideJWTManager,
	redis.NewSessionStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器与路由
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewCategoryHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// initializeApp 组装整个应用
// cleanup按依赖的逆序释放消息连接、Redis与数据库连接
func initializeApp(cfg *config.Config) (*app, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		wire.Struct(new(app), "*"),
	)
	return nil, nil, nil
}
