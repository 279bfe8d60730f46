package processor

import (
	"context"
	"io"

	"ats-engine/internal/types"
)

// PDFExtractor PDF 文本提取器
type PDFExtractor interface {
	// ExtractTextFromReader 从 reader 提取文本，extraMeta 合并进返回的元数据
	ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string, extraMeta map[string]any) (string, map[string]any, error)
}

// ProfileCache 解析结果缓存
// 未命中时 GetCachedProfile 返回 storage.ErrNotFound
type ProfileCache interface {
	GetCachedProfile(ctx context.Context, fingerprint string) (*types.ExtractedProfile, error)
	CacheProfile(ctx context.Context, fingerprint string, profile *types.ExtractedProfile) error
}
