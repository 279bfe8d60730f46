package constants

import "time"

const (
	// AppVersion 服务版本，写入 tracing resource 和健康检查
	AppVersion = "1.0.0"

	// ExtractorVersion 规则抽取器版本，参与缓存键计算，规则变化时需要递增
	ExtractorVersion = "rules-v1"

	// DefaultProfileCacheTTL 解析结果默认缓存时间
	DefaultProfileCacheTTL = 24 * time.Hour
)
