package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"ats-engine/internal/types"
)

// 基本信息识别模式
// 所有模式均为"第一个匹配即返回"，不尝试在多个候选中挑选最优
var (
	// 邮箱：本地部分允许字母数字和 ._-，域名可含多级，顶级域至少两个字符
	emailPattern = regexp.MustCompile(`(?i)[a-z0-9._-]+@[a-z0-9_-]+(?:\.[a-z0-9_-]+)*\.[a-z0-9_-]{2,}`)

	// 电话：可选 + 和 1-3 位国家码，可选括号区号，3-3-4 位数字，分隔符为空格、点或连字符
	// 刻意宽松，门牌号等数字串也可能被识别为电话
	phonePattern = regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	// 地址：仅支持美国格式 "<门牌号> <街道>, <城市>, <州缩写> <邮编>"
	addressPattern = regexp.MustCompile(`\d+\s+[A-Za-z\s]+,\s*[A-Za-z\s]+,\s*[A-Z]{2}\s*\d{5}`)
)

// FindEmail 返回文本中第一个邮箱，找不到时返回空字符串
func FindEmail(text string) string {
	return emailPattern.FindString(text)
}

// FindPhone 返回文本中第一个电话号码形态的子串
func FindPhone(text string) string {
	return phonePattern.FindString(text)
}

// FindAddress 返回文本中第一个美国邮政格式地址
func FindAddress(text string) string {
	return addressPattern.FindString(text)
}

// DetectSkills 在已转小写的文本中查找词表技能
// 结果按词表顺序，首字母大写，以 ", " 连接；没有命中时返回空字符串
func DetectSkills(lowerText string, vocabulary types.SkillVocabulary) string {
	found := vocabulary.FindIn(lowerText)
	if len(found) == 0 {
		return ""
	}
	for i, skill := range found {
		found[i] = capitalizeFirst(skill)
	}
	return strings.Join(found, ", ")
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
