// Package logger 基于logrus的结构化日志
//
// 约定：
//   - 进程启动时调用Init一次，之后通过L()或FromContext(ctx)取logger
//   - 请求链路中的日志统一带request_id、trace_id字段（由中间件写入ctx）
//   - 业务日志使用WithFields记录user_id、order_id等维度，不要拼接字符串
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config 日志配置
type Config struct {
	Level        string // debug, info, warn, error
	Format       string // json, console
	Output       string // stdout, stderr, 或文件路径
	EnableCaller bool
}

type ctxKey struct{}

var std = logrus.New()

// Init 按配置初始化全局logger
func Init(cfg Config) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	std.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		std.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	} else {
		std.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	out, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}
	std.SetOutput(out)
	std.SetReportCaller(cfg.EnableCaller)

	return nil
}

func openOutput(output string) (io.Writer, error) {
	switch output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
}

// L 全局logger
func L() *logrus.Logger {
	return std
}

// SetOutput 替换输出（测试中用于捕获日志）
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// WithContext 把带字段的entry放入ctx
func WithContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// FromContext 取ctx中的entry，没有则返回全局logger的entry
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(std)
}
