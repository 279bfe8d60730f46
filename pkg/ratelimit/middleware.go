package ratelimit

import (
	"context"
	"math"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Middleware 令牌耗尽时直接返回 429 和 Retry-After
func Middleware(tb *TokenBucket) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if tb.Allow() {
			ctx.Next(c)
			return
		}

		retryAfter := int(math.Ceil(tb.RetryAfter().Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		ctx.Header("Retry-After", strconv.Itoa(retryAfter))
		ctx.AbortWithStatusJSON(consts.StatusTooManyRequests, utils.H{"error": "too many requests"})
	}
}
