package parser

import (
	"strings"
	"unicode/utf8"

	"ats-engine/internal/types"
)

const (
	// DefaultMaxHeaderLength 标题行长度上限（字符数），超过则视为正文
	DefaultMaxHeaderLength = 50
	// DefaultMaxSectionLines 没有找到结束标题时，章节最多包含的行数
	DefaultMaxSectionLines = 15
)

// DefaultStopKeywords 各章节共用的结束标题
var DefaultStopKeywords = []string{
	"experience", "education", "skills", "projects", "certifications", "awards", "references",
}

// SectionSpec 描述如何在简历中定位一个章节
type SectionSpec struct {
	Type            types.SectionType
	Keywords        []string // 标题关键词，小写子串匹配
	StopKeywords    []string // 结束标题：整行相等或以 "关键词:" 开头
	MaxHeaderLength int      // 0 表示使用 DefaultMaxHeaderLength
	MaxLines        int      // 0 表示使用 DefaultMaxSectionLines
}

// 内置章节定义
var (
	ExperienceSection = SectionSpec{
		Type:         types.SectionExperience,
		Keywords:     []string{"experience", "work history", "employment", "professional experience"},
		StopKeywords: DefaultStopKeywords,
	}
	EducationSection = SectionSpec{
		Type:         types.SectionEducation,
		Keywords:     []string{"education", "academic", "qualification"},
		StopKeywords: DefaultStopKeywords,
	}
	SummarySection = SectionSpec{
		Type:         types.SectionSummary,
		Keywords:     []string{"summary", "profile", "about", "objective"},
		StopKeywords: DefaultStopKeywords,
	}
)

func (s SectionSpec) maxHeaderLength() int {
	if s.MaxHeaderLength > 0 {
		return s.MaxHeaderLength
	}
	return DefaultMaxHeaderLength
}

func (s SectionSpec) maxLines() int {
	if s.MaxLines > 0 {
		return s.MaxLines
	}
	return DefaultMaxSectionLines
}

// isHeader 判断一行是否为该章节的标题
func (s SectionSpec) isHeader(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	if utf8.RuneCountInString(lower) >= s.maxHeaderLength() {
		return false
	}
	for _, kw := range s.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// isStop 判断一行是否为结束标题
func (s SectionSpec) isStop(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, kw := range s.StopKeywords {
		if lower == kw || strings.HasPrefix(lower, kw+":") {
			return true
		}
	}
	return false
}

// ExtractSection 自上而下扫描原文，返回第一个匹配标题之后的章节正文
// 按原始行切分，空行计入行数上限，章节内的空行和缩进原样保留，只去掉整段首尾空白
// 正文止于第一个结束标题；没有结束标题时最多取 MaxLines 行
// 找不到标题时返回空字符串。相邻章节的扫描范围可能重叠，这里不做处理
func ExtractSection(text string, spec SectionSpec) string {
	return extractSection(splitLines(text), spec)
}

func extractSection(lines []string, spec SectionSpec) string {
	start := -1
	for i, line := range lines {
		if spec.isHeader(line) {
			start = i + 1
			break
		}
	}
	if start == -1 {
		return ""
	}

	end := -1
	for i := start; i < len(lines); i++ {
		if spec.isStop(lines[i]) {
			end = i
			break
		}
	}
	if end == -1 {
		end = min(start+spec.maxLines(), len(lines))
	}
	if start >= end {
		return ""
	}

	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}
