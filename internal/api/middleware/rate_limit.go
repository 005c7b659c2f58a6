package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"

	"rescue-roster/pkg/redis"
	"rescue-roster/pkg/response"
)

const rateLimitPrefix = "rate_limit"

// RateLimit 按客户端 IP 的全局限流中间件
// rate 为 limiter 格式（如 "300-M"）。rdb 可用时计数存于 Redis，多实例共享；否则退化为进程内存计数
func RateLimit(rate string, rdb *redis.Client, logger *zap.Logger) (gin.HandlerFunc, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}

	var store limiter.Store
	if rdb != nil {
		store, err = sredis.NewStoreWithOptions(rdb.Raw(), limiter.StoreOptions{Prefix: rateLimitPrefix})
		if err != nil {
			logger.Warn("Redis 限流存储初始化失败，改用内存存储", zap.Error(err))
			store = nil
		}
	}
	if store == nil {
		store = memory.NewStore()
	}

	instance := limiter.New(store, r)
	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			response.TooManyRequests(c)
			c.Abort()
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// 计数存储故障时放行
			logger.Warn("限流计数失败，放行请求", zap.Error(err))
			c.Next()
		}),
	), nil
}
