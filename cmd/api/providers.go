package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	appuser "github.com/xiebiao/onlinebookstore/internal/application/user"
	"github.com/xiebiao/onlinebookstore/internal/domain/book"
	"github.com/xiebiao/onlinebookstore/internal/domain/order"
	"github.com/xiebiao/onlinebookstore/internal/domain/user"
	"github.com/xiebiao/onlinebookstore/internal/infrastructure/config"
	"github.com/xiebiao/onlinebookstore/internal/infrastructure/messaging"
	"github.com/xiebiao/onlinebookstore/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/onlinebookstore/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/onlinebookstore/pkg/jwt"
	"github.com/xiebiao/onlinebookstore/pkg/logger"
	"github.com/xiebiao/onlinebookstore/pkg/mq"
)

// app serve命令运行所需的全部对象
type app struct {
	Config      *config.Config
	Engine      *gin.Engine
	EnsureAdmin *appuser.EnsureAdminUseCase
}

func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func provideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideBookRepository cache.enabled为true时在MySQL仓储外包一层Redis详情缓存
func provideBookRepository(cfg *config.Config, db *gorm.DB, client *goredis.Client) book.Repository {
	repo := mysql.NewBookRepository(db)
	if !cfg.Cache.Enabled {
		return repo
	}
	return redis.NewCachedBookRepository(repo, client, cfg.Cache.BookTTL)
}

// provideEventPublisher rabbitmq.enabled为false时订单事件只写日志
func provideEventPublisher(cfg *config.Config) (order.EventPublisher, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		return messaging.NewLogPublisher(), func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.ExchangeType)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}
	logger.L().WithField("exchange", cfg.RabbitMQ.Exchange).Info("订单事件发布到RabbitMQ")

	cleanup := func() {
		if err := publisher.Close(); err != nil {
			logger.L().WithError(err).Warn("关闭RabbitMQ连接失败")
		}
	}
	return messaging.NewOrderEventPublisher(publisher), cleanup, nil
}

func provideTransitionPolicy(cfg *config.Config) order.TransitionPolicy {
	return order.TransitionPolicy{EnforceForward: cfg.Order.EnforceForwardTransitions}
}

func provideUserService(repo user.Repository) user.Service {
	return user.NewService(repo, bcrypt.DefaultCost)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideLoginUseCase 会话有效期与Refresh Token一致
func provideLoginUseCase(userService user.Service, jwtManager *jwt.Manager, sessions appuser.SessionStore, cfg *config.Config) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(userService, jwtManager, sessions, cfg.JWT.RefreshTokenExpire)
}

// provideLogoutUseCase 黑名单只需保留到Access Token自然过期
func provideLogoutUseCase(sessions appuser.SessionStore, jwtManager *jwt.Manager) *appuser.LogoutUseCase {
	return appuser.NewLogoutUseCase(sessions, jwtManager.AccessTokenTTL())
}
