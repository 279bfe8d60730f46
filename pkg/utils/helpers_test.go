package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMD5(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", CalculateMD5(nil))
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", CalculateMD5([]byte("hello")))
}

func TestDeref(t *testing.T) {
	s := "x"
	assert.Equal(t, "x", Deref(&s))
	assert.Equal(t, "", Deref[string](nil))
	assert.Equal(t, 0, Deref[int](nil))
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		n         int
		want      string
		truncated bool
	}{
		{"不截断", "hello", -1, "hello", false},
		{"长度恰好", "hello", 5, "hello", false},
		{"ASCII", "hello", 3, "hel", true},
		{"零长度", "hello", 0, "", true},
		{"多字节字符", "简历解析", 2, "简历", true},
		{"混合", "a简b", 2, "a简", true},
		{"空串", "", 3, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := TruncateRunes(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.truncated, truncated)
		})
	}
}
