package processor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"ats-engine/internal/config"
	"ats-engine/internal/parser"
	"ats-engine/internal/storage"
	"ats-engine/internal/types"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = "John Smith\njohn.smith@gmail.com\n555-123-4567\n\nEXPERIENCE\nSenior Developer at Acme (2019-2023)\nBuilt React apps\n\nEDUCATION\nBS Computer Science, MIT, 2018"

func ptr[T any](v T) *T { return &v }

// fakeCache 内存版解析结果缓存
type fakeCache struct {
	mu       sync.Mutex
	profiles map[string]types.ExtractedProfile
	getErr   error
	setErr   error
	sets     int
}

func newFakeCache() *fakeCache {
	return &fakeCache{profiles: make(map[string]types.ExtractedProfile)}
}

func (c *fakeCache) GetCachedProfile(_ context.Context, fingerprint string) (*types.ExtractedProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	p, ok := c.profiles[fingerprint]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (c *fakeCache) CacheProfile(_ context.Context, fingerprint string, profile *types.ExtractedProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.profiles[fingerprint] = *profile
	return nil
}

// fakePDF 直接把读到的字节当作文本返回
type fakePDF struct {
	text string
	err  error
	uri  string
}

func (f *fakePDF) ExtractTextFromReader(_ context.Context, reader io.Reader, uri string, extraMeta map[string]any) (string, map[string]any, error) {
	f.uri = uri
	if f.err != nil {
		return "", nil, f.err
	}
	if _, err := io.ReadAll(reader); err != nil {
		return "", nil, err
	}
	return f.text, extraMeta, nil
}

func newTestResumeService(opts ...ResumeServiceOption) *ResumeService {
	return NewResumeService(nil, append([]ResumeServiceOption{WithServiceLogger(zerolog.Nop())}, opts...)...)
}

func TestResumeService_ParseText(t *testing.T) {
	svc := newTestResumeService()

	result, err := svc.ParseText(context.Background(), sampleResume)
	require.NoError(t, err)
	assert.NotEmpty(t, result.ParseID)
	assert.False(t, result.Cached)
	assert.Equal(t, "John Smith", result.Profile.Name)
	assert.Equal(t, "john.smith@gmail.com", result.Profile.Email)
	assert.Equal(t, "React", result.Profile.CoreSkills)
}

func TestResumeService_ParseTextUsesCache(t *testing.T) {
	cache := newFakeCache()
	svc := newTestResumeService(WithProfileCache(cache))
	ctx := context.Background()

	first, err := svc.ParseText(ctx, sampleResume)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.ParseText(ctx, sampleResume)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Profile, second.Profile)
	assert.NotEqual(t, first.ParseID, second.ParseID)
	assert.Equal(t, 1, cache.sets, "命中缓存时不应再次写入")
}

func TestResumeService_CacheFailuresAreIgnored(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	svc := newTestResumeService(WithProfileCache(cache))

	result, err := svc.ParseText(context.Background(), sampleResume)
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, "John Smith", result.Profile.Name)
}

func TestResumeService_FingerprintDependsOnVocabulary(t *testing.T) {
	base := newTestResumeService()
	cfg := config.DefaultConfig()
	cfg.Extractor.SkillVocabulary = []string{"terraform"}
	custom := NewResumeServiceFromConfig(cfg, nil, nil, zerolog.Nop())

	assert.Equal(t, base.Fingerprint("abc"), base.Fingerprint("abc"))
	assert.NotEqual(t, base.Fingerprint("abc"), base.Fingerprint("abd"))
	assert.NotEqual(t, base.Fingerprint("abc"), custom.Fingerprint("abc"))
	assert.Len(t, base.Fingerprint("abc"), 32)
}

func TestResumeService_CacheKeyFollowsExtractorSettings(t *testing.T) {
	cache := newFakeCache()
	ctx := context.Background()
	text := "Jane\nExperience\nA\nB\nC"

	short := NewResumeService(parser.NewExtractor(parser.WithMaxSectionLines(1)),
		WithServiceLogger(zerolog.Nop()), WithProfileCache(cache))
	def := newTestResumeService(WithProfileCache(cache))

	first, err := short.ParseText(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, "A", first.Profile.Experience)

	second, err := def.ParseText(ctx, text)
	require.NoError(t, err)
	assert.False(t, second.Cached, "不同章节配置不应共用缓存")
	assert.Equal(t, "A\nB\nC", second.Profile.Experience)
	assert.Equal(t, 2, cache.sets)
}

func TestResumeService_DefaultConfigSharesFingerprint(t *testing.T) {
	fromConfig := NewResumeServiceFromConfig(config.DefaultConfig(), nil, nil, zerolog.Nop())
	assert.Equal(t, newTestResumeService().Fingerprint("abc"), fromConfig.Fingerprint("abc"))
}

func TestResumeService_ParseTextTooLarge(t *testing.T) {
	svc := newTestResumeService(WithMaxInputBytes(10))

	_, err := svc.ParseText(context.Background(), strings.Repeat("a", 11))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputTooLarge)
	assert.Equal(t, "resume text must be at most 10 bytes", PublicMessage(err))

	_, err = svc.ParseText(context.Background(), strings.Repeat("a", 10))
	assert.NoError(t, err, "恰好等于上限应允许")
}

func TestResumeService_ParseTextInvalidUTF8(t *testing.T) {
	svc := newTestResumeService()
	_, err := svc.ParseText(context.Background(), "Jane\xff")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "invalid input: text must be valid UTF-8", PublicMessage(err))
}

func TestResumeService_ParsePDF(t *testing.T) {
	pdf := &fakePDF{text: sampleResume}
	svc := newTestResumeService(WithPDFExtractor(pdf))

	data := []byte("%PDF-1.4 fake")
	result, err := svc.ParsePDF(context.Background(), bytes.NewReader(data), "resume.pdf", int64(len(data)), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", pdf.uri)
	assert.Equal(t, "John Smith", result.Profile.Name)
	assert.Equal(t, len(sampleResume), result.TextLength)
}

func TestResumeService_ParsePDFErrors(t *testing.T) {
	data := []byte("%PDF-1.4 fake")

	tests := []struct {
		name        string
		svc         *ResumeService
		body        []byte
		size        int64
		contentType string
		want        error
		message     string
	}{
		{
			name:        "非PDF文件",
			svc:         newTestResumeService(WithPDFExtractor(&fakePDF{text: "x"})),
			body:        data,
			size:        int64(len(data)),
			contentType: "image/png",
			want:        ErrUnsupportedFile,
			message:     MsgOnlyPDF,
		},
		{
			name:        "声明的大小超限",
			svc:         newTestResumeService(WithPDFExtractor(&fakePDF{text: "x"}), WithMaxFileBytes(4)),
			body:        data,
			size:        int64(len(data)),
			contentType: "application/pdf",
			want:        ErrInputTooLarge,
			message:     MsgFileTooLarge,
		},
		{
			name:        "未知大小但实际超限",
			svc:         newTestResumeService(WithPDFExtractor(&fakePDF{text: "x"}), WithMaxFileBytes(4)),
			body:        data,
			size:        -1,
			contentType: "application/pdf",
			want:        ErrInputTooLarge,
			message:     MsgFileTooLarge,
		},
		{
			name:        "提取失败",
			svc:         newTestResumeService(WithPDFExtractor(&fakePDF{err: errors.New("corrupt xref")})),
			body:        data,
			size:        int64(len(data)),
			contentType: "application/pdf",
			want:        ErrPDFExtractFailed,
			message:     MsgPDFFailed,
		},
		{
			name:        "未配置提取器",
			svc:         newTestResumeService(),
			body:        data,
			size:        int64(len(data)),
			contentType: "application/pdf",
			want:        ErrPDFExtractFailed,
			message:     MsgPDFFailed,
		},
		{
			name:        "扫描件没有文本",
			svc:         newTestResumeService(WithPDFExtractor(&fakePDF{text: " \n\t "})),
			body:        data,
			size:        int64(len(data)),
			contentType: "application/pdf",
			want:        ErrNoExtractableText,
			message:     MsgNoPDFText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.ParsePDF(context.Background(), bytes.NewReader(tt.body), "resume.pdf", tt.size, tt.contentType)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.message, PublicMessage(err))
		})
	}
}

func TestResumeService_ContentTypeParameters(t *testing.T) {
	svc := newTestResumeService(WithPDFExtractor(&fakePDF{text: sampleResume}))
	_, err := svc.ParsePDF(context.Background(), strings.NewReader("x"), "a.pdf", 1, "Application/PDF; charset=binary")
	assert.NoError(t, err)
}

func TestPublicMessage_Internal(t *testing.T) {
	assert.Equal(t, "internal error", PublicMessage(errors.New("boom")))
	assert.Equal(t, ErrInputTooLarge.Error(), PublicMessage(NewTooLargeError("parse", "r1", "")))
}

func TestProcessError_Wrapping(t *testing.T) {
	err := NewNoTextError("req-1", "nothing")
	assert.ErrorIs(t, err, ErrNoExtractableText)
	assert.NotErrorIs(t, err, ErrPDFExtractFailed)
	assert.Contains(t, err.Error(), "req-1")

	var procErr *ProcessError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "extract", procErr.Op)
}

var (
	scoreJob = &JobInput{
		ID:        "j1",
		Title:     ptr("Senior React Developer"),
		BriefDesc: ptr("senior react developer needed"),
		Location:  ptr("Austin"),
	}
	janeInput = CandidateInput{
		ID:          "jane",
		Name:        ptr("Jane"),
		Email:       ptr("jane@x.com"),
		ProfileInfo: ptr("senior react and node developer"),
		Address:     ptr("Austin, TX"),
	}
	bobInput = CandidateInput{
		ID:    "bob",
		Name:  ptr("Bob"),
		Email: ptr("b@y.io"),
	}
)

func newTestMatchService(opts ...MatchServiceOption) *MatchService {
	return NewMatchService(nil, append([]MatchServiceOption{WithMatchLogger(zerolog.Nop())}, opts...)...)
}

func TestMatchService_Score(t *testing.T) {
	svc := newTestMatchService()
	got := svc.Score(context.Background(), ScoreRequest{Job: scoreJob, Candidate: &janeInput})

	assert.Equal(t, 62, got.Score)
	assert.Equal(t, "Good Match", got.Label)
	assert.Equal(t, []string{
		"1 matching skill: react",
		"Experience level match: senior",
		"Location match",
	}, got.Reasons)
}

func TestMatchService_MatchCandidates(t *testing.T) {
	svc := newTestMatchService()
	ctx := context.Background()

	got := svc.MatchCandidates(ctx, MatchCandidatesRequest{
		Job:        scoreJob,
		Candidates: []CandidateInput{bobInput, janeInput},
	})
	assert.NotEmpty(t, got.RequestID)
	require.Len(t, got.Matches, 1, "0 分的候选人应被过滤")
	assert.Equal(t, "jane", got.Matches[0].Candidate.ID)

	got = svc.MatchCandidates(ctx, MatchCandidatesRequest{
		Job:        scoreJob,
		Candidates: []CandidateInput{janeInput},
		MinScore:   ptr(62),
	})
	assert.Empty(t, got.Matches, "阈值是严格大于")
	assert.NotNil(t, got.Matches)

	got = svc.MatchCandidates(ctx, MatchCandidatesRequest{
		Job:        scoreJob,
		Candidates: []CandidateInput{janeInput, janeInput, janeInput},
		Limit:      ptr(2),
	})
	assert.Len(t, got.Matches, 2)
}

func TestMatchService_Dashboard(t *testing.T) {
	closed := *scoreJob
	closed.ID = "closed"
	closed.ApplicationCount = 5

	svc := newTestMatchService()
	got := svc.Dashboard(context.Background(), DashboardRequest{
		Jobs:       []JobInput{closed, *scoreJob},
		Candidates: []CandidateInput{janeInput, bobInput},
	})

	require.Len(t, got.Jobs, 1, "投递数过多的岗位应被跳过")
	assert.Equal(t, "j1", got.Jobs[0].Job.ID)
	require.Len(t, got.Jobs[0].Matches, 1)
	assert.Equal(t, "Good Match", got.Jobs[0].Matches[0].Label)
}

func TestNewMatchServiceFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Matcher.MinScore = 40
	cfg.Matcher.DefaultLimit = 7
	cfg.Matcher.Dashboard.JobLimit = 1
	cfg.Extractor.SkillVocabulary = []string{"Terraform"}

	svc := NewMatchServiceFromConfig(cfg, zerolog.Nop())
	assert.Equal(t, 40, svc.defaults.MinScore)
	assert.Equal(t, 7, svc.defaults.Limit)
	assert.Equal(t, 1, svc.dashboard.JobLimit)
	assert.Equal(t, 40, svc.dashboard.MinScore)
	got := svc.scorer.Score(
		types.JobPosting{Title: "Ops", BriefDesc: "terraform and react"},
		types.CandidateProfile{Name: "Jane", Email: "jane@x.com", ProfileInfo: "terraform, react"},
	)
	assert.Equal(t, []string{"1 matching skill: terraform"}, got.Reasons, "词表来自配置")
}
