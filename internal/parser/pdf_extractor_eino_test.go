package parser

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEinoPDFTextExtractor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	extractor, err := NewEinoPDFTextExtractor(ctx)
	require.NoError(t, err, "创建PDF提取器不应返回错误")
	require.NotNil(t, extractor.parser)
	assert.Equal(t, DefaultPDFTimeout, extractor.timeout)

	var buf bytes.Buffer
	custom := zerolog.New(&buf)
	withOpts, err := NewEinoPDFTextExtractor(ctx, WithEinoLogger(custom), WithEinoTimeout(3*time.Second), WithEinoTimeout(0))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, withOpts.timeout, "非正数超时应被忽略")
}

func TestExtractFromNonExistentFile(t *testing.T) {
	ctx := context.Background()
	extractor, err := NewEinoPDFTextExtractor(ctx)
	require.NoError(t, err)

	_, _, err = extractor.ExtractFromFile(ctx, filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open PDF file")
}

// 非法 PDF 不应 panic，元数据保留调用方传入的值
func TestExtractTextFromMockPDF(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	extractor, err := NewEinoPDFTextExtractor(ctx)
	require.NoError(t, err)

	mock := []byte("%PDF-1.5\nMock PDF content for testing\nThis is not a real PDF file\n")
	require.NotPanics(t, func() {
		text, metadata, err := extractor.ExtractTextFromReader(ctx, bytes.NewReader(mock), "mock.pdf", map[string]any{
			"test_id": "mock_test_001",
		})
		if err != nil {
			t.Logf("预期的错误: %v", err)
		} else {
			t.Logf("模拟PDF解析成功，文本长度 %d", len(text))
		}
		require.NotNil(t, metadata)
		assert.Equal(t, "mock_test_001", metadata["test_id"])
	})
}

func findTestPDF() string {
	for _, dir := range []string{"testdata", "../testdata", "../../testdata"} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
				return filepath.Join(dir, entry.Name())
			}
		}
	}
	return ""
}

func TestExtractFromFile_RealPDF(t *testing.T) {
	path := findTestPDF()
	if path == "" {
		t.Skip("找不到测试PDF文件，跳过测试")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	extractor, err := NewEinoPDFTextExtractor(ctx)
	require.NoError(t, err)

	text, metadata, err := extractor.ExtractFromFile(ctx, path)
	require.NoError(t, err)
	assert.NotEmpty(t, text)
	assert.Equal(t, path, metadata["source_file_path"])
	assert.Equal(t, len(text), metadata["text_length"])

	profile := Extract(text)
	t.Logf("从 %s 抽取: name=%q skills=%q", path, profile.Name, profile.CoreSkills)
}
