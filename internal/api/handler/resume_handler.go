package handler

import (
	"context"

	"ats-engine/internal/config"
	"ats-engine/internal/processor"
	"ats-engine/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// ResumeUploadField 上传表单中的文件字段
const ResumeUploadField = "resume"

// ResumeHandler 简历解析接口
type ResumeHandler struct {
	service      *processor.ResumeService
	placeholders config.PlaceholderConfig
}

// NewResumeHandler 创建简历解析接口
func NewResumeHandler(service *processor.ResumeService, placeholders config.PlaceholderConfig) *ResumeHandler {
	return &ResumeHandler{
		service:      service,
		placeholders: placeholders,
	}
}

// ParseResponse 解析接口的响应
type ParseResponse struct {
	ParseID    string                 `json:"parseId"`
	Cached     bool                   `json:"cached"`
	Data       types.ExtractedProfile `json:"data"`
	TextLength int                    `json:"textLength,omitempty"`
}

// HandleParseText 解析 JSON 中的简历文本
// POST /api/v1/resume/parse
func (h *ResumeHandler) HandleParseText(ctx context.Context, c *app.RequestContext) {
	var req processor.ParseTextRequest
	if err := processor.DecodeJSON(c.Request.Body(), &req); err != nil {
		writeError(ctx, c, err)
		return
	}

	result, err := h.service.ParseText(ctx, *req.Text)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, h.response(result))
}

// HandleUpload 解析上传的 PDF 简历
// POST /api/v1/resume/upload，表单字段 resume
func (h *ResumeHandler) HandleUpload(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile(ResumeUploadField)
	if err != nil {
		writeError(ctx, c, processor.NewInvalidInputError(ResumeUploadField, "file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	defer file.Close()

	result, err := h.service.ParsePDF(ctx, file, fileHeader.Filename, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, h.response(result))
}

func (h *ResumeHandler) response(result *processor.ParseResult) ParseResponse {
	return ParseResponse{
		ParseID:    result.ParseID,
		Cached:     result.Cached,
		Data:       h.withPlaceholders(result.Profile),
		TextLength: result.TextLength,
	}
}

// withPlaceholders 空字段替换为提示文本，只影响展示
func (h *ResumeHandler) withPlaceholders(p types.ExtractedProfile) types.ExtractedProfile {
	if !h.placeholders.Enabled {
		return p
	}
	if p.CoreSkills == "" {
		p.CoreSkills = h.placeholders.Skills
	}
	if p.Experience == "" {
		p.Experience = h.placeholders.Experience
	}
	if p.Education == "" {
		p.Education = h.placeholders.Education
	}
	return p
}
