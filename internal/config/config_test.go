package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "无法写入临时配置文件")
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 64*1024, cfg.Extractor.MaxInputBytes)
	assert.Equal(t, 50, cfg.Extractor.MaxHeaderLength)
	assert.Equal(t, 15, cfg.Extractor.MaxSectionLines)
	assert.Equal(t, "Please review and add skills", cfg.Extractor.Placeholders.Skills)
	assert.Equal(t, 20, cfg.Matcher.MinScore)
	assert.Equal(t, DashboardConfig{MaxApplications: 3, JobLimit: 3, MatchesPerJob: 5}, cfg.Matcher.Dashboard)
	assert.Equal(t, []string{"application/pdf"}, cfg.Upload.AllowedMIMETypes)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes())
	assert.Equal(t, 30*time.Second, cfg.PDFExtractTimeout())
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9090"
  api_keys: ["k1", "k2"]
extractor:
  skill_vocabulary: ["Go", "Rust"]
  placeholders:
    enabled: false
matcher:
  min_score: 30
  dashboard:
    job_limit: 10
upload:
  max_file_size_mb: 2
  pdf_timeout: "10s"
`)

	cfg, err := LoadConfigFromFileOnly(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Server.APIKeys)
	assert.Equal(t, []string{"Go", "Rust"}, cfg.Extractor.SkillVocabulary)
	assert.False(t, cfg.Extractor.Placeholders.Enabled)
	assert.Equal(t, "Please review and add education", cfg.Extractor.Placeholders.Education, "未写的字段保留默认值")
	assert.Equal(t, 30, cfg.Matcher.MinScore)
	assert.Equal(t, 10, cfg.Matcher.Dashboard.JobLimit)
	assert.Equal(t, 5, cfg.Matcher.Dashboard.MatchesPerJob)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxUploadBytes())
	assert.Equal(t, 10*time.Second, cfg.PDFExtractTimeout())
	assert.Equal(t, 64*1024, cfg.Extractor.MaxInputBytes)
}

func TestLoadConfig_NormalizesZeroValues(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ""
extractor:
  max_input_bytes: 0
upload:
  allowed_mime_types: []
tracing:
  sample_ratio: 5
`)
	cfg, err := LoadConfigFromFileOnly(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 64*1024, cfg.Extractor.MaxInputBytes)
	assert.Equal(t, []string{"application/pdf"}, cfg.Upload.AllowedMIMETypes)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "redis:\n  address: \"file:6379\"\n")
	t.Setenv(EnvRedisAddress, "env:6379")
	t.Setenv(EnvServerAddress, ":7070")
	t.Setenv(EnvOTLPEndpoint, "http://collector:4317")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env:6379", cfg.Redis.Address)
	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "collector:4317", cfg.Tracing.Endpoint)

	fileOnly, err := LoadConfigFromFileOnly(path)
	require.NoError(t, err)
	assert.Equal(t, "file:6379", fileOnly.Redis.Address, "LoadConfigFromFileOnly 不读取环境变量")
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "配置文件不存在")

	_, err = LoadConfigFromFileOnly("")
	assert.Error(t, err)

	bad := writeConfig(t, "server: [unclosed")
	_, err = LoadConfig(bad)
	assert.ErrorContains(t, err, "解析配置文件失败")
}

func TestLoadConfig_EmptyPathFallsBackToDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Matcher, cfg.Matcher)
}

func TestCreateSampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, CreateSampleConfig(path))

	cfg, err := LoadConfigFromFileOnly(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	assert.Error(t, CreateSampleConfig(path), "已存在的文件不覆盖")
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 24*time.Hour, GetDuration("24h", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("soon", time.Minute))
}
