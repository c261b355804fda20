package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/onlinebookstore/pkg/logger"
	"github.com/xiebiao/onlinebookstore/pkg/tracing"
)

// HeaderRequestID 请求ID响应头,客户端传入时沿用
const HeaderRequestID = "X-Request-ID"

// RequestLogger 请求日志中间件
// 1. 生成请求ID并写入响应头
// 2. 把带request_id的logrus.Entry放进request context,下游用logger.FromContext取用
// 3. 请求结束后记录方法、路径、状态码、耗时
//
// 不记录请求体和Authorization头
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		entry := logger.L().WithField("request_id", requestID)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), entry))

		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields["trace_id"] = traceID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		log := entry.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("请求处理失败")
		case status >= 400:
			log.Warn("请求被拒绝")
		default:
			log.Info("请求完成")
		}
	}
}
