package router

import (
	"context"
	"crypto/subtle"

	"ats-engine/internal/api/handler"
	"ats-engine/internal/logger"
	"ats-engine/pkg/ratelimit"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"
)

// APIKeyHeader 携带 API Key 的请求头
const APIKeyHeader = "X-API-Key"

// Options 路由可选项
type Options struct {
	APIKeys       []string              // 非空时除健康检查外的接口都需要 API Key
	UploadLimiter *ratelimit.TokenBucket // PDF 上传限流，nil 表示不限
}

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler, matchHandler *handler.MatchHandler, opts Options) {
	api := h.Group("/api/v1")

	// 健康检查不做认证
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	var secured []app.HandlerFunc
	if len(opts.APIKeys) > 0 {
		secured = append(secured, APIKeyAuth(opts.APIKeys))
	}
	v1 := api.Group("", secured...)

	v1.POST("/resume/parse", resumeHandler.HandleParseText)
	if opts.UploadLimiter != nil {
		v1.POST("/resume/upload", ratelimit.Middleware(opts.UploadLimiter), resumeHandler.HandleUpload)
	} else {
		v1.POST("/resume/upload", resumeHandler.HandleUpload)
	}

	v1.POST("/match/score", matchHandler.HandleScore)
	v1.POST("/match/candidates", matchHandler.HandleMatchCandidates)
	v1.POST("/match/dashboard", matchHandler.HandleDashboard)
}

// APIKeyAuth 校验 X-API-Key 请求头
func APIKeyAuth(apiKeys []string) app.HandlerFunc {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return keyauth.New(
		keyauth.WithKeyLookUp("header:"+APIKeyHeader, ""),
		keyauth.WithValidator(func(_ context.Context, _ *app.RequestContext, key string) (bool, error) {
			for _, k := range keys {
				if subtle.ConstantTimeCompare([]byte(key), k) == 1 {
					return true, nil
				}
			}
			return false, nil
		}),
		keyauth.WithErrorHandler(func(_ context.Context, ctx *app.RequestContext, err error) {
			logger.Warn().Err(err).Str("path", string(ctx.Path())).Msg("API Key 校验失败")
			ctx.AbortWithStatusJSON(consts.StatusUnauthorized, utils.H{"error": "invalid or missing API key"})
		}),
	)
}
