package utils

import (
	"crypto/md5"
	"encoding/hex"
)

// CalculateMD5 计算字节切片的 MD5，返回十六进制字符串
func CalculateMD5(data []byte) string {
	hasher := md5.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// Deref 取指针的值，nil 时返回零值
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// TruncateRunes 按字符截取前 n 个，不会切开多字节字符
// n < 0 时不截断，第二个返回值表示是否发生了截断
func TruncateRunes(s string, n int) (string, bool) {
	if n < 0 {
		return s, false
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}
