package parser

import (
	"fmt"
	"strings"

	"ats-engine/internal/types"
)

// Extractor 基于规则的简历字段抽取器
// 无状态，可在多个 goroutine 间共享
type Extractor struct {
	vocabulary      types.SkillVocabulary
	sections        map[types.SectionType]SectionSpec
	maxHeaderLength int // 0 表示沿用章节自身或默认值
	maxSectionLines int
}

// sectionOrder 生成签名时遍历章节的固定顺序
var sectionOrder = []types.SectionType{
	types.SectionExperience,
	types.SectionEducation,
	types.SectionSummary,
}

// ExtractorOption 抽取器配置选项
type ExtractorOption func(*Extractor)

// WithSkillVocabulary 替换技能词表
func WithSkillVocabulary(vocabulary types.SkillVocabulary) ExtractorOption {
	return func(e *Extractor) {
		if len(vocabulary) > 0 {
			e.vocabulary = types.NewSkillVocabulary(vocabulary...)
		}
	}
}

// WithSectionSpec 替换某个章节的定义，关键词统一转小写
func WithSectionSpec(spec SectionSpec) ExtractorOption {
	return func(e *Extractor) {
		spec.Keywords = lowerAll(spec.Keywords)
		spec.StopKeywords = lowerAll(spec.StopKeywords)
		e.sections[spec.Type] = spec
	}
}

// WithMaxHeaderLength 为未单独设置上限的章节设置标题行长度上限
func WithMaxHeaderLength(n int) ExtractorOption {
	return func(e *Extractor) {
		e.maxHeaderLength = max(n, 0)
	}
}

// WithMaxSectionLines 为未单独设置上限的章节设置无结束标题时的最大行数
func WithMaxSectionLines(n int) ExtractorOption {
	return func(e *Extractor) {
		e.maxSectionLines = max(n, 0)
	}
}

// NewExtractor 创建抽取器，默认使用内置词表和章节定义
func NewExtractor(options ...ExtractorOption) *Extractor {
	e := &Extractor{
		vocabulary: types.DefaultSkillVocabulary(),
		sections: map[types.SectionType]SectionSpec{
			types.SectionExperience: ExperienceSection,
			types.SectionEducation:  EducationSection,
			types.SectionSummary:    SummarySection,
		},
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// section 返回生效的章节定义
// SectionSpec 自身的上限优先，其次是抽取器级别的上限，与选项顺序无关
func (e *Extractor) section(t types.SectionType) SectionSpec {
	spec := e.sections[t]
	if spec.MaxHeaderLength <= 0 {
		spec.MaxHeaderLength = e.maxHeaderLength
	}
	if spec.MaxLines <= 0 {
		spec.MaxLines = e.maxSectionLines
	}
	return spec
}

// Signature 描述影响抽取结果的全部配置，配置不同则签名不同
func (e *Extractor) Signature() string {
	var b strings.Builder
	b.WriteString(strings.Join(e.vocabulary, ","))
	for _, t := range sectionOrder {
		spec := e.section(t)
		fmt.Fprintf(&b, "\n%s|%s|%s|%d|%d", t,
			strings.Join(spec.Keywords, ","), strings.Join(spec.StopKeywords, ","),
			spec.maxHeaderLength(), spec.maxLines())
	}
	return b.String()
}

// Extract 从简历原文抽取结构化信息，不会失败
// 空文本或纯空白文本返回全空的结果
func (e *Extractor) Extract(rawText string) types.ExtractedProfile {
	doc := NewRawDocument(rawText)
	if doc.Len() == 0 {
		return types.ExtractedProfile{}
	}

	lines := splitLines(rawText)
	return types.ExtractedProfile{
		Name:        doc.FirstLine(),
		Email:       FindEmail(rawText),
		Phone:       FindPhone(rawText),
		Address:     FindAddress(rawText),
		CoreSkills:  DetectSkills(strings.ToLower(rawText), e.vocabulary),
		Experience:  extractSection(lines, e.section(types.SectionExperience)),
		Education:   extractSection(lines, e.section(types.SectionEducation)),
		ProfileInfo: extractSection(lines, e.section(types.SectionSummary)),
	}
}

var defaultExtractor = NewExtractor()

// Extract 使用默认配置抽取简历字段
func Extract(rawText string) types.ExtractedProfile {
	return defaultExtractor.Extract(rawText)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
