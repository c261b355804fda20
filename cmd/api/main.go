// @title           Online Bookstore API
// @version         1.0
// @description     图书目录、检索、购物车与下单接口
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     格式: Bearer {access_token}
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	_ "github.com/xiebiao/onlinebookstore/docs"
	"github.com/xiebiao/onlinebookstore/internal/infrastructure/config"
	"github.com/xiebiao/onlinebookstore/internal/infrastructure/messaging"
	"github.com/xiebiao/onlinebookstore/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/onlinebookstore/pkg/logger"
	"github.com/xiebiao/onlinebookstore/pkg/metrics"
	"github.com/xiebiao/onlinebookstore/pkg/mq"
	"github.com/xiebiao/onlinebookstore/pkg/tracing"
)

func main() {
	cliApp := &cli.App{
		Name:  "bookstore",
		Usage: "在线书店后端",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config.yaml所在目录",
				EnvVars: []string{"BOOKSTORE_CONFIG_DIR"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "启动HTTP服务",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "根据GORM模型建表",
				Action: migrate,
			},
			{
				Name:   "events",
				Usage:  "消费订单事件并写入日志",
				Action: consumeEvents,
			},
		},
		DefaultCommand: "serve",
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.L().WithError(err).Fatal("程序退出")
	}
}

// setup 加载配置并初始化日志
func setup(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	err = logger.Init(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	log := logger.L()

	if cfg.Metrics.Enabled {
		metrics.InitMetrics()
	}

	shutdownTracer, err := tracing.InitTracer(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Tracing.ServiceName,
		CollectorURL: cfg.Tracing.CollectorURL,
		SampleRatio:  cfg.Tracing.SampleRatio,
		Insecure:     cfg.Tracing.Insecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			log.WithError(err).Warn("关闭Tracer失败")
		}
	}()

	application, cleanup, err := initializeApp(cfg)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	defer cleanup()

	if err := application.EnsureAdmin.Execute(c.Context, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return fmt.Errorf("初始化管理员失败: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      application.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).WithField("mode", cfg.Server.Mode).Info("HTTP服务启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("启动服务失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("收到退出信号,开始优雅关闭")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭服务失败: %w", err)
	}
	log.Info("服务已停止")
	return nil
}

func migrate(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}

	db, cleanup, err := provideDB(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := mysql.AutoMigrate(db); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	logger.L().Info("数据库迁移完成")
	return nil
}

// consumeEvents 订阅订单事件交换机,直到收到退出信号
func consumeEvents(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	if !cfg.RabbitMQ.Enabled {
		return errors.New("rabbitmq.enabled为false,没有可消费的事件")
	}

	consumer, err := mq.NewConsumer(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.ExchangeType,
		cfg.RabbitMQ.Queue,
		messaging.RoutingKeys(),
	)
	if err != nil {
		return fmt.Errorf("连接RabbitMQ失败: %w", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = consumer.Consume(ctx, messaging.NewEventLogger().Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
