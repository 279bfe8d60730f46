package types

import "strings"

// SkillVocabulary 有序的技能关键词表（全部小写）
// 简历抽取和人岗匹配共用同一份词表，避免两边关键词不一致
type SkillVocabulary []string

// defaultSkillTerms 默认技能词表，顺序即输出顺序
var defaultSkillTerms = []string{
	"javascript", "python", "java", "react", "node", "sql", "html", "css",
	"typescript", "angular", "vue", "mongodb", "postgresql", "aws", "docker",
	"kubernetes", "git", "agile", "scrum", "api", "rest", "graphql", "c++",
	"c#", "php", "ruby", "go", "rust", "swift", "kotlin", "flutter", "django",
	"flask", "spring", "express", "nextjs", "redux", "tailwind", "bootstrap",
}

// DefaultSkillVocabulary 返回默认词表的副本
func DefaultSkillVocabulary() SkillVocabulary {
	v := make(SkillVocabulary, len(defaultSkillTerms))
	copy(v, defaultSkillTerms)
	return v
}

// NewSkillVocabulary 规范化词表：转小写、去空白、去重，保留首次出现的顺序
func NewSkillVocabulary(terms ...string) SkillVocabulary {
	seen := make(map[string]struct{}, len(terms))
	v := make(SkillVocabulary, 0, len(terms))
	for _, term := range terms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		v = append(v, t)
	}
	return v
}

// FindIn 返回在 lowerText 中出现（子串包含）的词表项，按词表顺序
// 调用方需保证 lowerText 已经转为小写
func (v SkillVocabulary) FindIn(lowerText string) []string {
	var found []string
	for _, term := range v {
		if strings.Contains(lowerText, term) {
			found = append(found, term)
		}
	}
	return found
}
