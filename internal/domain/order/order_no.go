package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNo 生成对外展示的订单号
// 格式: ORD + yyyyMMddHHmmss + 8位随机十六进制
// 示例: ORD20240105093012a1b2c3d4
// 时间前缀保证大致有序,随机后缀防止被遍历
func GenerateOrderNo(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "ORD" + now.Format("20060102150405") + suffix
}
