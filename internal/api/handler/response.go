package handler

import (
	"context"
	"errors"

	"ats-engine/internal/logger"
	"ats-engine/internal/processor"
	"ats-engine/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.opentelemetry.io/otel/trace"
)

// StatusFor 错误对应的 HTTP 状态码
func StatusFor(err error) int {
	switch {
	case errors.Is(err, processor.ErrInvalidInput),
		errors.Is(err, processor.ErrUnsupportedFile),
		errors.Is(err, processor.ErrNoExtractableText):
		return consts.StatusBadRequest
	case errors.Is(err, processor.ErrInputTooLarge):
		return consts.StatusRequestEntityTooLarge
	default:
		return consts.StatusInternalServerError
	}
}

// writeError 按错误类型写响应，响应体为 {"error": msg}
// 错误同时记录到请求所在的 span 上
func writeError(ctx context.Context, c *app.RequestContext, err error) {
	status := StatusFor(err)
	tracing.RecordHTTPError(trace.SpanFromContext(ctx), err, status)

	event := logger.Warn()
	if status >= consts.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("path", string(c.Path())).
		Int("status", status).
		Msg("请求处理失败")

	c.JSON(status, utils.H{"error": processor.PublicMessage(err)})
}
