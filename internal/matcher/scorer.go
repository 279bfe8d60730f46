// Package matcher 基于关键词重合度的人岗匹配打分
package matcher

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ats-engine/internal/types"
)

// 各规则的分值
const (
	SkillPoints     = 15 // 每个共同技能
	LevelPoints     = 20 // 职级一致
	LocationPoints  = 15 // 地点匹配
	EducationPoints = 10 // 双方均提及学历

	overlapMinTokenLen  = 5 // 通用词重合只统计长度大于 4 的词
	overlapThreshold    = 5 // 重合数需超过该值才加分
	overlapPointsPerHit = 2
	overlapMaxPoints    = 20

	maxSkillsInReason = 3

	MaxScore = 100
)

// 匹配理由文本
const (
	ReasonLocationMatch   = "Location match"
	ReasonEducation       = "Education background"
	ReasonGeneralFallback = "General profile compatibility"
)

// ExperienceLevels 职级关键词，按列表顺序取第一个命中的
var ExperienceLevels = []string{"senior", "junior", "mid-level", "lead", "manager", "intern", "entry"}

// EducationKeywords 学历关键词
var EducationKeywords = []string{"bachelor", "master", "phd", "degree", "university", "college", "graduate"}

// Scorer 人岗匹配打分器，纯函数实现，无内部可变状态
type Scorer struct {
	vocabulary types.SkillVocabulary
}

// ScorerOption 打分器配置选项
type ScorerOption func(*Scorer)

// WithSkillVocabulary 替换技能词表，应与简历抽取使用同一份
func WithSkillVocabulary(vocabulary types.SkillVocabulary) ScorerOption {
	return func(s *Scorer) {
		if len(vocabulary) > 0 {
			s.vocabulary = types.NewSkillVocabulary(vocabulary...)
		}
	}
}

// NewScorer 创建打分器
func NewScorer(options ...ScorerOption) *Scorer {
	s := &Scorer{vocabulary: types.DefaultSkillVocabulary()}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Score 计算岗位与候选人的匹配分
// 各规则独立累加，总分截断到 100；没有任何规则命中时给出通用理由
func (s *Scorer) Score(job types.JobPosting, candidate types.CandidateProfile) types.MatchScore {
	jobText := jobText(job)
	candidateText := candidateText(candidate)

	score := 0
	var reasons []string

	// 1. 技能重合
	if matched := s.sharedSkills(jobText, candidateText); len(matched) > 0 {
		score += len(matched) * SkillPoints
		reasons = append(reasons, skillReason(matched))
	}

	// 2. 职级
	jobLevel := firstContained(jobText, ExperienceLevels)
	candidateLevel := firstContained(candidateText, ExperienceLevels)
	if jobLevel != "" && jobLevel == candidateLevel {
		score += LevelPoints
		reasons = append(reasons, "Experience level match: "+jobLevel)
	}

	// 3. 地点
	if locationMatches(job.Location, candidate.Address) {
		score += LocationPoints
		reasons = append(reasons, ReasonLocationMatch)
	}

	// 4. 学历，双方提到的关键词可以不同
	if firstContained(jobText, EducationKeywords) != "" && firstContained(candidateText, EducationKeywords) != "" {
		score += EducationPoints
		reasons = append(reasons, ReasonEducation)
	}

	// 5. 通用词重合，只加分不给理由
	if common := commonTokenCount(jobText, candidateText); common > overlapThreshold {
		score += min(common*overlapPointsPerHit, overlapMaxPoints)
	}

	score = min(score, MaxScore)

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralFallback)
	}

	return types.MatchScore{Score: score, Reasons: reasons}
}

var defaultScorer = NewScorer()

// Score 使用默认词表打分
func Score(job types.JobPosting, candidate types.CandidateProfile) types.MatchScore {
	return defaultScorer.Score(job, candidate)
}

func jobText(job types.JobPosting) string {
	return strings.ToLower(fmt.Sprintf("%s %s %s %s",
		job.Title, job.BriefDesc, job.KeyResponsibilities, job.RequiredQualifications))
}

func candidateText(c types.CandidateProfile) string {
	return strings.ToLower(fmt.Sprintf("%s %s %s %s", c.Name, c.Email, c.ProfileInfo, c.Address))
}

// sharedSkills 返回双方文本都包含的技能，按词表顺序
func (s *Scorer) sharedSkills(jobText, candidateText string) []string {
	var matched []string
	for _, skill := range s.vocabulary.FindIn(jobText) {
		if strings.Contains(candidateText, skill) {
			matched = append(matched, skill)
		}
	}
	return matched
}

func skillReason(matched []string) string {
	plural := ""
	if len(matched) > 1 {
		plural = "s"
	}
	shown := matched[:min(len(matched), maxSkillsInReason)]
	return fmt.Sprintf("%d matching skill%s: %s", len(matched), plural, strings.Join(shown, ", "))
}

// firstContained 按关键词列表顺序返回第一个出现在文本中的关键词
func firstContained(text string, keywords []string) string {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return kw
		}
	}
	return ""
}

// locationMatches 候选人地址包含岗位地点，或岗位地点包含候选人地址第一个逗号前的部分
// 两个方向刻意不对称
func locationMatches(jobLocation, candidateAddress string) bool {
	if jobLocation == "" || candidateAddress == "" {
		return false
	}
	loc := strings.ToLower(jobLocation)
	addr := strings.ToLower(candidateAddress)
	city, _, _ := strings.Cut(addr, ",")
	return strings.Contains(addr, loc) || strings.Contains(loc, city)
}

// commonTokenCount 统计岗位文本中（按出现次数）也出现在候选人文本里的长词数量
func commonTokenCount(jobText, candidateText string) int {
	candidateTokens := make(map[string]struct{})
	for _, tok := range strings.Fields(candidateText) {
		if utf8.RuneCountInString(tok) >= overlapMinTokenLen {
			candidateTokens[tok] = struct{}{}
		}
	}

	count := 0
	for _, tok := range strings.Fields(jobText) {
		if utf8.RuneCountInString(tok) < overlapMinTokenLen {
			continue
		}
		if _, ok := candidateTokens[tok]; ok {
			count++
		}
	}
	return count
}
