package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"
)

// DefaultPDFTimeout 单个 PDF 的解析超时
const DefaultPDFTimeout = 30 * time.Second

// EinoPDFTextExtractor 使用 eino PDF parser 提取纯文本
type EinoPDFTextExtractor struct {
	parser  *pdf.PDFParser
	logger  zerolog.Logger
	timeout time.Duration
}

// EinoPDFOption PDF 提取器配置选项
type EinoPDFOption func(*EinoPDFTextExtractor)

// WithEinoLogger 设置日志
func WithEinoLogger(logger zerolog.Logger) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		e.logger = logger
	}
}

// WithEinoTimeout 设置解析超时，<= 0 时忽略
func WithEinoTimeout(timeout time.Duration) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// NewEinoPDFTextExtractor 创建提取器
// 不按页拆分，整个 PDF 的文本作为一个字符串返回
func NewEinoPDFTextExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino PDF parser: %w", err)
	}

	extractor := &EinoPDFTextExtractor{
		parser:  p,
		logger:  zerolog.Nop(),
		timeout: DefaultPDFTimeout,
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor, nil
}

// ExtractFromFile 从本地 PDF 文件提取文本
func (e *EinoPDFTextExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]any, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open PDF file %s: %w", filePath, err)
	}
	defer file.Close()

	return e.ExtractTextFromReader(ctx, file, filePath, map[string]any{
		"source_file_path": filePath,
	})
}

// ExtractTextFromReader 从 reader 提取文本，返回文本和元数据
// extraMeta 会合并进返回的元数据
func (e *EinoPDFTextExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string, extraMeta map[string]any) (string, map[string]any, error) {
	if extraMeta == nil {
		extraMeta = make(map[string]any)
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(extraMeta),
	)
	duration := time.Since(start)
	if err != nil {
		e.logger.Warn().Err(err).Str("uri", uri).Dur("duration", duration).Msg("PDF解析失败")
		return "", extraMeta, fmt.Errorf("eino PDF parser failed for URI %s: %w", uri, err)
	}
	if len(docs) == 0 {
		e.logger.Warn().Str("uri", uri).Dur("duration", duration).Msg("PDF解析无结果")
		return "", extraMeta, fmt.Errorf("eino PDF parser returned no documents for URI %s", uri)
	}

	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.Content)
	}
	fullText := strings.Join(contents, "\n\n")

	metadata := make(map[string]any)
	for k, v := range docs[0].MetaData {
		metadata[k] = v
	}
	for k, v := range extraMeta {
		metadata[k] = v
	}
	metadata["processing_duration_ms"] = duration.Milliseconds()
	metadata["document_count"] = len(docs)
	metadata["text_length"] = len(fullText)

	e.logger.Debug().
		Str("uri", uri).
		Int("documents", len(docs)).
		Int("text_length", len(fullText)).
		Dur("duration", duration).
		Msg("PDF文本提取完成")
	return fullText, metadata, nil
}
