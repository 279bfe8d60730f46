package processor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"unicode/utf8"

	"ats-engine/internal/types"
	"ats-engine/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// JobInput 接口层的岗位输入
// 必填字段用指针区分缺失和空字符串
type JobInput struct {
	ID                     string  `json:"id"`
	Title                  *string `json:"title" validate:"required"`
	BriefDesc              *string `json:"briefDesc" validate:"required"`
	KeyResponsibilities    *string `json:"keyResponsibilities"`
	RequiredQualifications *string `json:"requiredQualifications"`
	Location               *string `json:"location"`
	WorkMode               *string `json:"workMode"`
	ApplicationCount       int     `json:"applicationCount" validate:"gte=0"`
}

// Posting 转成引擎使用的岗位记录，可选字段缺失时为空字符串
func (j JobInput) Posting() types.JobPosting {
	return types.JobPosting{
		ID:                     j.ID,
		Title:                  utils.Deref(j.Title),
		BriefDesc:              utils.Deref(j.BriefDesc),
		KeyResponsibilities:    utils.Deref(j.KeyResponsibilities),
		RequiredQualifications: utils.Deref(j.RequiredQualifications),
		Location:               utils.Deref(j.Location),
		WorkMode:               utils.Deref(j.WorkMode),
		ApplicationCount:       j.ApplicationCount,
	}
}

// CandidateInput 接口层的候选人输入
type CandidateInput struct {
	ID          string  `json:"id"`
	Name        *string `json:"name" validate:"required"`
	Email       *string `json:"email" validate:"required"`
	ProfileInfo *string `json:"profileInfo"`
	Address     *string `json:"address"`
}

// Profile 转成引擎使用的候选人记录
func (c CandidateInput) Profile() types.CandidateProfile {
	return types.CandidateProfile{
		ID:          c.ID,
		Name:        utils.Deref(c.Name),
		Email:       utils.Deref(c.Email),
		ProfileInfo: utils.Deref(c.ProfileInfo),
		Address:     utils.Deref(c.Address),
	}
}

// ParseTextRequest 文本简历解析请求
type ParseTextRequest struct {
	Text *string `json:"text" validate:"required"`
}

// ScoreRequest 单对打分请求
type ScoreRequest struct {
	Job       *JobInput       `json:"job" validate:"required"`
	Candidate *CandidateInput `json:"candidate" validate:"required"`
}

// MatchCandidatesRequest 单岗位批量匹配请求
type MatchCandidatesRequest struct {
	Job        *JobInput        `json:"job" validate:"required"`
	Candidates []CandidateInput `json:"candidates" validate:"required,dive"`
	MinScore   *int             `json:"minScore" validate:"omitempty,gte=0,lte=100"`
	Limit      *int             `json:"limit" validate:"omitempty,gte=0"`
}

// DashboardRequest 看板推荐请求
type DashboardRequest struct {
	Jobs       []JobInput       `json:"jobs" validate:"required,dive"`
	Candidates []CandidateInput `json:"candidates" validate:"required,dive"`
}

func candidateProfiles(inputs []CandidateInput) []types.CandidateProfile {
	out := make([]types.CandidateProfile, 0, len(inputs))
	for _, c := range inputs {
		out = append(out, c.Profile())
	}
	return out
}

func jobPostings(inputs []JobInput) []types.JobPosting {
	out := make([]types.JobPosting, 0, len(inputs))
	for _, j := range inputs {
		out = append(out, j.Posting())
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 错误里使用 JSON 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON 解析并校验请求体
// 非法 JSON、类型不符、缺少必填字段、非 UTF-8 文本都返回 *InvalidInputError
func DecodeJSON(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return NewInvalidInputError("", "request body is empty")
	}
	if !utf8.Valid(body) {
		return NewInvalidInputError("", "request body must be valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(v); err != nil {
		return jsonInputError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return NewInvalidInputError("", "request body must contain a single JSON value")
	}

	return ValidateStruct(v)
}

// ValidateStruct 按 validate 标签校验
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewInvalidInputError("", err.Error())
	}

	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	return NewInvalidInputError(field, validationReason(fe))
}

func validationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func jsonInputError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return NewInvalidInputError(typeErr.Field, fmt.Sprintf("must be a %s", jsonTypeName(typeErr.Type)))
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return NewInvalidInputError("", fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
	}
	return NewInvalidInputError("", "malformed JSON: "+err.Error())
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int64, reflect.Int32:
		return "number"
	case reflect.Slice:
		return "array"
	case reflect.Struct:
		return "object"
	default:
		return t.Kind().String()
	}
}
