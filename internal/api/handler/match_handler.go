package handler

import (
	"context"

	"ats-engine/internal/processor"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// MatchHandler 人岗匹配接口
type MatchHandler struct {
	service *processor.MatchService
}

// NewMatchHandler 创建人岗匹配接口
func NewMatchHandler(service *processor.MatchService) *MatchHandler {
	return &MatchHandler{service: service}
}

// HandleScore 单个岗位与单个候选人打分
// POST /api/v1/match/score
func (h *MatchHandler) HandleScore(ctx context.Context, c *app.RequestContext) {
	var req processor.ScoreRequest
	if err := processor.DecodeJSON(c.Request.Body(), &req); err != nil {
		writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, h.service.Score(ctx, req))
}

// HandleMatchCandidates 为岗位筛选并排序候选人
// POST /api/v1/match/candidates
func (h *MatchHandler) HandleMatchCandidates(ctx context.Context, c *app.RequestContext) {
	var req processor.MatchCandidatesRequest
	if err := processor.DecodeJSON(c.Request.Body(), &req); err != nil {
		writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, h.service.MatchCandidates(ctx, req))
}

// HandleDashboard 为开放岗位推荐候选人
// POST /api/v1/match/dashboard
func (h *MatchHandler) HandleDashboard(ctx context.Context, c *app.RequestContext) {
	var req processor.DashboardRequest
	if err := processor.DecodeJSON(c.Request.Body(), &req); err != nil {
		writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, h.service.Dashboard(ctx, req))
}
