package types

// SectionType 表示简历章节类型
type SectionType string

const (
	// SectionExperience 工作经历章节
	SectionExperience SectionType = "EXPERIENCE"
	// SectionEducation 教育经历章节
	SectionEducation SectionType = "EDUCATION"
	// SectionSummary 个人简介 / 求职意向章节
	SectionSummary SectionType = "SUMMARY"
)

// ExtractedProfile 从简历原文中抽取的结构化候选人信息
// 所有字段找不到时均为空字符串，任意字段缺失都不影响其他字段的抽取
type ExtractedProfile struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	CoreSkills  string `json:"coreSkills"`  // 逗号分隔的技能列表，按词表顺序
	Experience  string `json:"experience"`  // 工作经历章节原文
	Education   string `json:"education"`   // 教育经历章节原文
	ProfileInfo string `json:"profileInfo"` // 个人简介章节原文
}

// IsEmpty 判断是否所有字段都未抽取到
func (p ExtractedProfile) IsEmpty() bool {
	return p == ExtractedProfile{}
}
