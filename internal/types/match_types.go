package types

// JobPosting 岗位的文本字段
// 可选字段缺失时为空字符串
type JobPosting struct {
	ID                     string `json:"id,omitempty"`
	Title                  string `json:"title"`
	BriefDesc              string `json:"briefDesc"`
	KeyResponsibilities    string `json:"keyResponsibilities,omitempty"`
	RequiredQualifications string `json:"requiredQualifications,omitempty"`
	Location               string `json:"location,omitempty"`
	WorkMode               string `json:"workMode,omitempty"`
	ApplicationCount       int    `json:"applicationCount,omitempty"` // 已收到的申请数，用于筛选开放岗位
}

// CandidateProfile 候选人的文本字段
type CandidateProfile struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ProfileInfo string `json:"profileInfo,omitempty"`
	Address     string `json:"address,omitempty"`
}

// MatchScore 单个岗位与单个候选人的匹配结果
// Score 取值 [0,100]，Reasons 至少包含一条
type MatchScore struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// CandidateMatch 批量匹配中的一条结果
type CandidateMatch struct {
	Candidate CandidateProfile `json:"candidate"`
	Score     int              `json:"score"`
	Reasons   []string         `json:"reasons"`
	Label     string           `json:"label"`
}

// JobMatches 某个岗位及其推荐候选人
type JobMatches struct {
	Job     JobPosting       `json:"job"`
	Matches []CandidateMatch `json:"matches"`
}
