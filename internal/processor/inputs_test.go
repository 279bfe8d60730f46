package processor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_ScoreRequest(t *testing.T) {
	body := []byte(`{
		"job": {"title": "Senior React Developer", "briefDesc": "senior react developer needed", "location": "Austin"},
		"candidate": {"name": "Jane", "email": "jane@x.com", "profileInfo": "senior react and node developer", "address": "Austin, TX"}
	}`)

	var req ScoreRequest
	require.NoError(t, DecodeJSON(body, &req))

	job := req.Job.Posting()
	assert.Equal(t, "Senior React Developer", job.Title)
	assert.Equal(t, "", job.KeyResponsibilities, "缺失的可选字段应为空字符串")
	assert.Equal(t, "Austin, TX", req.Candidate.Profile().Address)
}

func TestDecodeJSON_EmptyRequiredStringIsAccepted(t *testing.T) {
	var req ScoreRequest
	err := DecodeJSON([]byte(`{"job":{"title":"","briefDesc":""},"candidate":{"name":"","email":""}}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "", req.Job.Posting().Title)
}

func TestDecodeJSON_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		target  func() any
		field   string
		message string
	}{
		{
			name:    "缺少岗位标题",
			body:    `{"job":{"briefDesc":"x"},"candidate":{"name":"a","email":"b"}}`,
			target:  func() any { return &ScoreRequest{} },
			field:   "job.title",
			message: "invalid input: job.title is required",
		},
		{
			name:    "缺少候选人",
			body:    `{"job":{"title":"t","briefDesc":"x"}}`,
			target:  func() any { return &ScoreRequest{} },
			field:   "candidate",
			message: "invalid input: candidate is required",
		},
		{
			name:    "列表中的候选人缺少邮箱",
			body:    `{"job":{"title":"t","briefDesc":"x"},"candidates":[{"name":"a","email":"b"},{"name":"c"}]}`,
			target:  func() any { return &MatchCandidatesRequest{} },
			field:   "candidates[1].email",
			message: "invalid input: candidates[1].email is required",
		},
		{
			name:    "字段类型不是字符串",
			body:    `{"job":{"title":5,"briefDesc":"x"},"candidate":{"name":"a","email":"b"}}`,
			target:  func() any { return &ScoreRequest{} },
			field:   "job.title",
			message: "invalid input: job.title must be a string",
		},
		{
			name:    "minScore 超出范围",
			body:    `{"job":{"title":"t","briefDesc":"x"},"candidates":[],"minScore":101}`,
			target:  func() any { return &MatchCandidatesRequest{} },
			field:   "minScore",
			message: "invalid input: minScore must be <= 100",
		},
		{
			name:    "缺少候选人列表",
			body:    `{"job":{"title":"t","briefDesc":"x"}}`,
			target:  func() any { return &MatchCandidatesRequest{} },
			field:   "candidates",
			message: "invalid input: candidates is required",
		},
		{
			name:    "候选人列表为 null",
			body:    `{"job":{"title":"t","briefDesc":"x"},"candidates":null}`,
			target:  func() any { return &MatchCandidatesRequest{} },
			field:   "candidates",
			message: "invalid input: candidates is required",
		},
		{
			name:    "看板缺少岗位列表",
			body:    `{"candidates":[]}`,
			target:  func() any { return &DashboardRequest{} },
			field:   "jobs",
			message: "invalid input: jobs is required",
		},
		{
			name:    "看板候选人列表为 null",
			body:    `{"jobs":[],"candidates":null}`,
			target:  func() any { return &DashboardRequest{} },
			field:   "candidates",
			message: "invalid input: candidates is required",
		},
		{
			name:    "缺少文本",
			body:    `{}`,
			target:  func() any { return &ParseTextRequest{} },
			field:   "text",
			message: "invalid input: text is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DecodeJSON([]byte(tt.body), tt.target())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var inputErr *InvalidInputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, tt.field, inputErr.Field)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestDecodeJSON_MalformedBody(t *testing.T) {
	for _, body := range []string{"", "   ", "{", `{"text":"a"} {"text":"b"}`, "\xff\xfe"} {
		var req ParseTextRequest
		err := DecodeJSON([]byte(body), &req)
		assert.ErrorIs(t, err, ErrInvalidInput, "body %q", body)
	}
}

func TestDecodeJSON_EmptyListsAreAccepted(t *testing.T) {
	var match MatchCandidatesRequest
	require.NoError(t, DecodeJSON([]byte(`{"job":{"title":"t","briefDesc":"x"},"candidates":[]}`), &match))
	assert.Empty(t, match.Candidates)

	var dashboard DashboardRequest
	require.NoError(t, DecodeJSON([]byte(`{"jobs":[],"candidates":[]}`), &dashboard))
	assert.Empty(t, dashboard.Jobs)
}

func TestDashboardRequest_Conversion(t *testing.T) {
	var req DashboardRequest
	body := `{"jobs":[{"id":"j1","title":"t","briefDesc":"d","applicationCount":2}],"candidates":[{"id":"c1","name":"n","email":"e"}]}`
	require.NoError(t, DecodeJSON([]byte(body), &req))

	jobs := jobPostings(req.Jobs)
	require.Len(t, jobs, 1)
	assert.Equal(t, 2, jobs[0].ApplicationCount)
	assert.Equal(t, "c1", candidateProfiles(req.Candidates)[0].ID)
}
