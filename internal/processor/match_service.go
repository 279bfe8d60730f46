package processor

import (
	"context"
	"time"

	"ats-engine/internal/config"
	"ats-engine/internal/logger"
	"ats-engine/internal/matcher"
	"ats-engine/internal/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// MatchResult 单对打分结果
type MatchResult struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
	Label   string   `json:"label"`
}

// CandidateMatchesResult 单岗位批量匹配结果
type CandidateMatchesResult struct {
	RequestID string                 `json:"requestId"`
	Matches   []types.CandidateMatch `json:"matches"`
}

// DashboardResult 看板推荐结果
type DashboardResult struct {
	RequestID string             `json:"requestId"`
	Jobs      []types.JobMatches `json:"jobs"`
}

// MatchService 岗位与候选人匹配服务
type MatchService struct {
	scorer    *matcher.Scorer
	defaults  matcher.MatchOptions
	dashboard matcher.DashboardOptions
	logger    zerolog.Logger
}

// MatchServiceOption 服务选项
type MatchServiceOption func(*MatchService)

// WithMatchDefaults 未指定时使用的最低分和数量上限
func WithMatchDefaults(opts matcher.MatchOptions) MatchServiceOption {
	return func(s *MatchService) {
		s.defaults = opts
	}
}

// WithDashboardOptions 看板推荐参数
func WithDashboardOptions(opts matcher.DashboardOptions) MatchServiceOption {
	return func(s *MatchService) {
		s.dashboard = opts
	}
}

// WithMatchLogger 设置日志
func WithMatchLogger(l zerolog.Logger) MatchServiceOption {
	return func(s *MatchService) {
		s.logger = l
	}
}

// NewMatchService 创建匹配服务
func NewMatchService(scorer *matcher.Scorer, opts ...MatchServiceOption) *MatchService {
	if scorer == nil {
		scorer = matcher.NewScorer()
	}
	s := &MatchService{
		scorer:    scorer,
		defaults:  matcher.DefaultMatchOptions(),
		dashboard: matcher.DefaultDashboardOptions(),
		logger:    logger.Named("match_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewMatchServiceFromConfig 按配置创建匹配服务，打分词表与抽取器共用
func NewMatchServiceFromConfig(cfg *config.Config, l zerolog.Logger) *MatchService {
	var scorerOpts []matcher.ScorerOption
	if len(cfg.Extractor.SkillVocabulary) > 0 {
		scorerOpts = append(scorerOpts, matcher.WithSkillVocabulary(types.NewSkillVocabulary(cfg.Extractor.SkillVocabulary...)))
	}

	return NewMatchService(matcher.NewScorer(scorerOpts...),
		WithMatchLogger(l),
		WithMatchDefaults(matcher.MatchOptions{
			MinScore: cfg.Matcher.MinScore,
			Limit:    cfg.Matcher.DefaultLimit,
		}),
		WithDashboardOptions(matcher.DashboardOptions{
			MaxApplications: cfg.Matcher.Dashboard.MaxApplications,
			JobLimit:        cfg.Matcher.Dashboard.JobLimit,
			MatchesPerJob:   cfg.Matcher.Dashboard.MatchesPerJob,
			MinScore:        cfg.Matcher.MinScore,
		}),
	)
}

// Score 单对打分
func (s *MatchService) Score(ctx context.Context, req ScoreRequest) MatchResult {
	_, span := tracer.Start(ctx, "MatchService.Score")
	defer span.End()

	job := req.Job.Posting()
	candidate := req.Candidate.Profile()
	result := s.scorer.Score(job, candidate)

	span.SetAttributes(
		attribute.String("job.id", job.ID),
		attribute.String("candidate.id", candidate.ID),
		attribute.Int("match.score", result.Score),
	)
	span.SetStatus(codes.Ok, "")

	return MatchResult{
		Score:   result.Score,
		Reasons: result.Reasons,
		Label:   matcher.MatchLabel(result.Score),
	}
}

// MatchCandidates 为一个岗位筛选并排序候选人
func (s *MatchService) MatchCandidates(ctx context.Context, req MatchCandidatesRequest) CandidateMatchesResult {
	requestID := uuid.NewString()
	_, span := tracer.Start(ctx, "MatchService.MatchCandidates")
	defer span.End()

	opts := s.defaults
	if req.MinScore != nil {
		opts.MinScore = *req.MinScore
	}
	if req.Limit != nil {
		opts.Limit = *req.Limit
	}

	start := time.Now()
	job := req.Job.Posting()
	matches := s.scorer.MatchCandidatesToJob(job, candidateProfiles(req.Candidates), opts)

	span.SetAttributes(
		attribute.String("match.request_id", requestID),
		attribute.String("job.id", job.ID),
		attribute.Int("match.candidates", len(req.Candidates)),
		attribute.Int("match.results", len(matches)),
		attribute.Int("match.min_score", opts.MinScore),
	)
	span.SetStatus(codes.Ok, "")

	s.logger.Info().
		Str("request_id", requestID).
		Str("job_id", job.ID).
		Int("candidates", len(req.Candidates)).
		Int("matches", len(matches)).
		Dur("duration", time.Since(start)).
		Msg("候选人匹配完成")

	return CandidateMatchesResult{RequestID: requestID, Matches: matches}
}

// Dashboard 为开放岗位推荐候选人
func (s *MatchService) Dashboard(ctx context.Context, req DashboardRequest) DashboardResult {
	requestID := uuid.NewString()
	_, span := tracer.Start(ctx, "MatchService.Dashboard")
	defer span.End()

	start := time.Now()
	jobs := s.scorer.MatchOpenJobs(jobPostings(req.Jobs), candidateProfiles(req.Candidates), s.dashboard)

	span.SetAttributes(
		attribute.String("match.request_id", requestID),
		attribute.Int("match.jobs", len(req.Jobs)),
		attribute.Int("match.candidates", len(req.Candidates)),
		attribute.Int("match.open_jobs", len(jobs)),
	)
	span.SetStatus(codes.Ok, "")

	s.logger.Info().
		Str("request_id", requestID).
		Int("jobs", len(req.Jobs)).
		Int("open_jobs", len(jobs)).
		Int("candidates", len(req.Candidates)).
		Dur("duration", time.Since(start)).
		Msg("看板推荐完成")

	return DashboardResult{RequestID: requestID, Jobs: jobs}
}
