package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"ats-engine/internal/config"
	"ats-engine/internal/logger"
	"ats-engine/internal/parser"
	"ats-engine/internal/storage"
	"ats-engine/internal/tracing"
	"ats-engine/internal/types"
	"ats-engine/pkg/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("processor")

// 默认上限
const (
	DefaultMaxInputBytes = 64 * 1024
	DefaultMaxFileBytes  = 5 * 1024 * 1024
)

// 返回给调用方的上传错误说明
const (
	MsgOnlyPDF      = "Only PDF files are supported"
	MsgFileTooLarge = "File size must be less than 5MB"
	MsgNoPDFText    = "Could not extract text from PDF. Please ensure it's a text-based PDF, not a scanned image."
	MsgPDFFailed    = "Failed to extract text from PDF"
)

// ParseResult 一次简历解析的结果
type ParseResult struct {
	ParseID    string                 `json:"parseId"`
	Cached     bool                   `json:"cached"`
	Profile    types.ExtractedProfile `json:"data"`
	TextLength int                    `json:"textLength,omitempty"`
}

// ResumeService 简历解析服务
// 在抽取器外面加上大小限制、PDF 提取和结果缓存
type ResumeService struct {
	extractor     *parser.Extractor
	pdf           PDFExtractor
	cache         ProfileCache
	maxInputBytes int
	maxFileBytes  int64
	allowedMIME   []string
	logger        zerolog.Logger
}

// ResumeServiceOption 服务选项
type ResumeServiceOption func(*ResumeService)

// WithPDFExtractor 设置 PDF 文本提取器，未设置时不支持 PDF
func WithPDFExtractor(pdf PDFExtractor) ResumeServiceOption {
	return func(s *ResumeService) {
		s.pdf = pdf
	}
}

// WithProfileCache 设置解析结果缓存
func WithProfileCache(cache ProfileCache) ResumeServiceOption {
	return func(s *ResumeService) {
		s.cache = cache
	}
}

// WithServiceLogger 设置日志
func WithServiceLogger(l zerolog.Logger) ResumeServiceOption {
	return func(s *ResumeService) {
		s.logger = l
	}
}

// WithMaxInputBytes 文本输入上限
func WithMaxInputBytes(n int) ResumeServiceOption {
	return func(s *ResumeService) {
		if n > 0 {
			s.maxInputBytes = n
		}
	}
}

// WithMaxFileBytes 上传文件上限
func WithMaxFileBytes(n int64) ResumeServiceOption {
	return func(s *ResumeService) {
		if n > 0 {
			s.maxFileBytes = n
		}
	}
}

// WithAllowedMIMETypes 允许上传的文件类型
func WithAllowedMIMETypes(mimeTypes ...string) ResumeServiceOption {
	return func(s *ResumeService) {
		if len(mimeTypes) > 0 {
			s.allowedMIME = mimeTypes
		}
	}
}

// NewResumeService 创建简历解析服务
func NewResumeService(extractor *parser.Extractor, opts ...ResumeServiceOption) *ResumeService {
	if extractor == nil {
		extractor = parser.NewExtractor()
	}
	s := &ResumeService{
		extractor:     extractor,
		maxInputBytes: DefaultMaxInputBytes,
		maxFileBytes:  DefaultMaxFileBytes,
		allowedMIME:   []string{"application/pdf"},
		logger:        logger.Named("resume_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewResumeServiceFromConfig 按配置创建服务，pdf 和 cache 可以为 nil
func NewResumeServiceFromConfig(cfg *config.Config, pdf PDFExtractor, cache ProfileCache, l zerolog.Logger) *ResumeService {
	extractorOpts := []parser.ExtractorOption{
		parser.WithMaxHeaderLength(cfg.Extractor.MaxHeaderLength),
		parser.WithMaxSectionLines(cfg.Extractor.MaxSectionLines),
	}
	if len(cfg.Extractor.SkillVocabulary) > 0 {
		extractorOpts = append(extractorOpts, parser.WithSkillVocabulary(types.NewSkillVocabulary(cfg.Extractor.SkillVocabulary...)))
	}

	opts := []ResumeServiceOption{
		WithServiceLogger(l),
		WithMaxInputBytes(cfg.Extractor.MaxInputBytes),
		WithMaxFileBytes(cfg.MaxUploadBytes()),
		WithAllowedMIMETypes(cfg.Upload.AllowedMIMETypes...),
	}
	if pdf != nil {
		opts = append(opts, WithPDFExtractor(pdf))
	}
	if cache != nil {
		opts = append(opts, WithProfileCache(cache))
	}
	return NewResumeService(parser.NewExtractor(extractorOpts...), opts...)
}

// Fingerprint 解析结果的缓存指纹
// 包含抽取器签名，词表或章节配置变化后不会命中旧结果
func (s *ResumeService) Fingerprint(text string) string {
	var b strings.Builder
	b.WriteString(s.extractor.Signature())
	b.WriteByte('\n')
	b.WriteString(text)
	return utils.CalculateMD5([]byte(b.String()))
}

// ParseText 解析纯文本简历
func (s *ResumeService) ParseText(ctx context.Context, text string) (*ParseResult, error) {
	parseID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "ResumeService.ParseText")
	defer span.End()
	span.SetAttributes(
		attribute.String("parse.id", parseID),
		attribute.Int("resume.text_length", len(text)),
	)

	if len(text) > s.maxInputBytes {
		err := NewTooLargeError("parse", parseID,
			fmt.Sprintf("resume text must be at most %d bytes", s.maxInputBytes))
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	if !utf8.ValidString(text) {
		err := NewInvalidInputError("text", "must be valid UTF-8")
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	start := time.Now()
	fingerprint := s.Fingerprint(text)
	log := s.logger.With().Str("parse_id", parseID).Str("fingerprint", fingerprint).Logger()

	if s.cache != nil {
		cached, err := s.cache.GetCachedProfile(ctx, fingerprint)
		switch {
		case err == nil && cached != nil:
			span.SetAttributes(attribute.Bool("parse.cached", true))
			span.SetStatus(codes.Ok, "")
			log.Debug().Msg("命中解析结果缓存")
			return &ParseResult{ParseID: parseID, Cached: true, Profile: *cached}, nil
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			log.Warn().Err(err).Msg("读取解析结果缓存失败，重新解析")
		}
	}

	profile := s.extractor.Extract(text)

	if s.cache != nil {
		if err := s.cache.CacheProfile(ctx, fingerprint, &profile); err != nil {
			log.Warn().Err(err).Msg("缓存解析结果失败")
		}
	}

	span.SetAttributes(
		attribute.Bool("parse.cached", false),
		safeAttr("resume.email", profile.Email),
		safeAttr("resume.skills", profile.CoreSkills),
		attribute.Bool("resume.empty", profile.IsEmpty()),
	)
	span.SetStatus(codes.Ok, "")

	if profile.IsEmpty() {
		log.Warn().Int("text_length", len(text)).Msg("未抽取到任何字段")
	}
	log.Info().
		Str("name", tracing.SafeAttributeValue("name", profile.Name, tracing.DefaultMaxLength)).
		Str("email", tracing.SafeAttributeValue("email", profile.Email, tracing.DefaultMaxLength)).
		Str("skills", tracing.SafeAttributeValue("skills", profile.CoreSkills, tracing.DefaultMaxLength)).
		Bool("has_experience", profile.Experience != "").
		Bool("has_education", profile.Education != "").
		Dur("duration", time.Since(start)).
		Msg("简历解析完成")

	return &ParseResult{ParseID: parseID, Profile: profile}, nil
}

// ParsePDF 提取 PDF 文本后解析
// size 为调用方已知的文件大小，未知时传 -1，此时按读取到的字节数判断
func (s *ResumeService) ParsePDF(ctx context.Context, reader io.Reader, filename string, size int64, contentType string) (*ParseResult, error) {
	requestID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "ResumeService.ParsePDF")
	defer span.End()
	span.SetAttributes(
		attribute.String("upload.request_id", requestID),
		attribute.String("upload.filename", tracing.TruncateString(filename, tracing.DefaultMaxLength)),
		attribute.String("upload.content_type", contentType),
		attribute.Int64("upload.size", size),
	)
	log := s.logger.With().Str("request_id", requestID).Str("filename", filename).Logger()

	if !s.mimeAllowed(contentType) {
		err := NewUnsupportedFileError(requestID, MsgOnlyPDF)
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		log.Warn().Str("content_type", contentType).Msg("不支持的文件类型")
		return nil, err
	}
	if size > s.maxFileBytes {
		err := NewTooLargeError("upload", requestID, MsgFileTooLarge)
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	if s.pdf == nil {
		err := NewPDFExtractError(requestID, MsgPDFFailed)
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		log.Error().Msg("PDF提取器未配置")
		return nil, err
	}

	// 多读一个字节用于判断是否超限
	data, err := io.ReadAll(io.LimitReader(reader, s.maxFileBytes+1))
	if err != nil {
		procErr := NewPDFExtractError(requestID, MsgPDFFailed)
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		log.Error().Err(err).Msg("读取上传文件失败")
		return nil, procErr
	}
	if int64(len(data)) > s.maxFileBytes {
		err := NewTooLargeError("upload", requestID, MsgFileTooLarge)
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	text, _, err := s.pdf.ExtractTextFromReader(ctx, bytes.NewReader(data), filename, map[string]any{
		"request_id": requestID,
	})
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeParse)
		log.Error().Err(err).Msg("提取PDF文本失败")
		return nil, NewPDFExtractError(requestID, MsgPDFFailed)
	}

	text = strings.ToValidUTF8(text, "")
	if strings.TrimSpace(text) == "" {
		err := NewNoTextError(requestID, MsgNoPDFText)
		tracing.RecordError(span, err, tracing.ErrorTypeParse)
		log.Warn().Msg("PDF中没有可提取的文本")
		return nil, err
	}
	span.SetAttributes(attribute.Int("upload.text_length", len(text)))

	result, err := s.ParseText(ctx, text)
	if err != nil {
		return nil, err
	}
	result.TextLength = len(text)
	span.SetStatus(codes.Ok, "")
	return result, nil
}

// safeAttr 按属性名掩码或截断后生成 span 属性
func safeAttr(name, value string) attribute.KeyValue {
	return attribute.String(name, tracing.SafeAttributeValue(name, value, tracing.DefaultMaxLength))
}

func (s *ResumeService) mimeAllowed(contentType string) bool {
	mediaType := strings.TrimSpace(strings.ToLower(strings.SplitN(contentType, ";", 2)[0]))
	for _, allowed := range s.allowedMIME {
		if strings.EqualFold(mediaType, allowed) {
			return true
		}
	}
	return false
}
