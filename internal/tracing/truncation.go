package tracing

import (
	"strings"
)

const (
	// DefaultMaxLength 默认最大属性长度
	DefaultMaxLength = 200

	// MaxRedisLength Redis 键最大长度
	MaxRedisLength = 100
)

// piiKeywords 属性名包含这些关键字时，值需要掩码
var piiKeywords = []string{
	"email", "phone", "address", "name", "password", "secret", "token",
	"姓名", "地址",
}

// SafeAttributeValue 敏感属性返回掩码值，其他属性按 maxLength 截断
func SafeAttributeValue(name string, value string, maxLength int) string {
	lowerName := strings.ToLower(name)
	for _, keyword := range piiKeywords {
		if strings.Contains(lowerName, keyword) {
			return MaskPII(value)
		}
	}
	return TruncateString(value, maxLength)
}

// MaskPII 对个人信息做掩码
// 两个字符保留首字符，三到四个字符保留首尾，更长的保留首尾各两个字符
func MaskPII(value string) string {
	if value == "" {
		return ""
	}

	runes := []rune(value)
	n := len(runes)

	switch {
	case n == 1:
		return "*"
	case n == 2:
		return string(runes[0]) + "*"
	case n <= 4:
		return string(runes[0]) + strings.Repeat("*", n-2) + string(runes[n-1])
	default:
		return string(runes[:2]) + strings.Repeat("*", n-4) + string(runes[n-2:])
	}
}

// TruncateString 超长时保留首尾，中间用 ... 连接
func TruncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}

	half := max((maxLength-3)/2, 1)
	return string(runes[:half]) + "..." + string(runes[len(runes)-half:])
}

// SafeRedisKey 截断 Redis 键
func SafeRedisKey(key string) string {
	return TruncateString(key, MaxRedisLength)
}
