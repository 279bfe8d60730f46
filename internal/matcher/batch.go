package matcher

import (
	"sort"

	"ats-engine/internal/types"
)

// DefaultMinScore 批量匹配的默认分数阈值，得分必须严格大于它才会保留
const DefaultMinScore = 20

// 匹配等级阈值
const (
	ExcellentMatchScore = 70
	GoodMatchScore      = 50
)

// MatchOptions 批量匹配参数
type MatchOptions struct {
	MinScore int // 只保留 score > MinScore 的结果
	Limit    int // <= 0 表示不截断
}

// DefaultMatchOptions 默认阈值 20，不截断
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{MinScore: DefaultMinScore}
}

// MatchCandidatesToJob 对一个岗位的所有候选人打分，过滤、按分数降序排序并截断
// 同分的候选人保持输入顺序
func (s *Scorer) MatchCandidatesToJob(job types.JobPosting, candidates []types.CandidateProfile, opts MatchOptions) []types.CandidateMatch {
	matches := make([]types.CandidateMatch, 0, len(candidates))
	for _, c := range candidates {
		ms := s.Score(job, c)
		if ms.Score <= opts.MinScore {
			continue
		}
		matches = append(matches, types.CandidateMatch{
			Candidate: c,
			Score:     ms.Score,
			Reasons:   ms.Reasons,
			Label:     MatchLabel(ms.Score),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches
}

// MatchCandidatesToJob 使用默认打分器做批量匹配
func MatchCandidatesToJob(job types.JobPosting, candidates []types.CandidateProfile, opts MatchOptions) []types.CandidateMatch {
	return defaultScorer.MatchCandidatesToJob(job, candidates, opts)
}

// DashboardOptions 看板推荐参数
type DashboardOptions struct {
	MaxApplications int // 投递数小于该值的岗位视为仍在招聘，<= 0 表示不过滤
	JobLimit        int // 最多处理的岗位数，<= 0 表示不限
	MatchesPerJob   int // 每个岗位最多返回的候选人数
	MinScore        int
}

// DefaultDashboardOptions 投递数少于 3 的前 3 个岗位，每个岗位取前 5 名
func DefaultDashboardOptions() DashboardOptions {
	return DashboardOptions{
		MaxApplications: 3,
		JobLimit:        3,
		MatchesPerJob:   5,
		MinScore:        DefaultMinScore,
	}
}

// MatchOpenJobs 为仍在招聘的岗位推荐候选人
// 没有候选人过线的岗位也会返回，Matches 为空
func (s *Scorer) MatchOpenJobs(jobs []types.JobPosting, candidates []types.CandidateProfile, opts DashboardOptions) []types.JobMatches {
	result := make([]types.JobMatches, 0)
	for _, job := range jobs {
		if opts.JobLimit > 0 && len(result) >= opts.JobLimit {
			break
		}
		if opts.MaxApplications > 0 && job.ApplicationCount >= opts.MaxApplications {
			continue
		}
		result = append(result, types.JobMatches{
			Job: job,
			Matches: s.MatchCandidatesToJob(job, candidates, MatchOptions{
				MinScore: opts.MinScore,
				Limit:    opts.MatchesPerJob,
			}),
		})
	}
	return result
}

// MatchOpenJobs 使用默认打分器生成看板推荐
func MatchOpenJobs(jobs []types.JobPosting, candidates []types.CandidateProfile, opts DashboardOptions) []types.JobMatches {
	return defaultScorer.MatchOpenJobs(jobs, candidates, opts)
}

// MatchLabel 分数对应的展示等级
func MatchLabel(score int) string {
	switch {
	case score >= ExcellentMatchScore:
		return "Excellent Match"
	case score >= GoodMatchScore:
		return "Good Match"
	default:
		return "Potential Match"
	}
}
