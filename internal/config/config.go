package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 环境变量名
const (
	EnvServerAddress = "SERVER_ADDRESS"
	EnvRedisAddress  = "REDIS_ADDRESS"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvOTLPEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logger    LoggerConfig    `yaml:"logger"`
	Redis     RedisConfig     `yaml:"redis"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Matcher   MatcherConfig   `yaml:"matcher"`
	Upload    UploadConfig    `yaml:"upload"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Address         string   `yaml:"address"`            // 例如 ":8080"
	APIKeys         []string `yaml:"api_keys,omitempty"` // 为空时不做鉴权
	ShutdownTimeout string   `yaml:"shutdown_timeout"`   // 优雅退出等待时间，例如 "5s"
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// RedisConfig Redis 连接与解析结果缓存配置
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池
	PoolSize     int `yaml:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns"`
	// 超时(秒)
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
	// 重试
	MaxRetries        int `yaml:"max_retries"`
	MinRetryBackoffMS int `yaml:"min_retry_backoff_ms"`
	MaxRetryBackoffMS int `yaml:"max_retry_backoff_ms"`
	// 解析结果缓存时间，例如 "24h"
	ProfileCacheTTL string `yaml:"profile_cache_ttl"`
}

// TracingConfig OpenTelemetry 配置
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"` // OTLP gRPC 地址，例如 "localhost:4317"
	ServiceName string  `yaml:"service_name"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// ExtractorConfig 简历抽取配置
type ExtractorConfig struct {
	SkillVocabulary []string          `yaml:"skill_vocabulary,omitempty"` // 为空时使用内置词表
	MaxHeaderLength int               `yaml:"max_header_length"`
	MaxSectionLines int               `yaml:"max_section_lines"`
	MaxInputBytes   int               `yaml:"max_input_bytes"`
	Placeholders    PlaceholderConfig `yaml:"placeholders"`
}

// PlaceholderConfig 字段为空时返回给前端的提示文本
type PlaceholderConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Skills     string `yaml:"skills"`
	Experience string `yaml:"experience"`
	Education  string `yaml:"education"`
}

// MatcherConfig 人岗匹配配置
type MatcherConfig struct {
	MinScore     int             `yaml:"min_score"`
	DefaultLimit int             `yaml:"default_limit"` // 0 表示不截断
	Dashboard    DashboardConfig `yaml:"dashboard"`
}

// DashboardConfig 看板推荐配置
type DashboardConfig struct {
	MaxApplications int `yaml:"max_applications"`
	JobLimit        int `yaml:"job_limit"`
	MatchesPerJob   int `yaml:"matches_per_job"`
}

// UploadConfig 文件上传配置
type UploadConfig struct {
	MaxFileSizeMB    int      `yaml:"max_file_size_mb"`
	AllowedMIMETypes []string `yaml:"allowed_mime_types"`
	RateLimitQPM     int      `yaml:"rate_limit_qpm"`   // 上传接口每分钟请求数，0 表示不限流
	RateLimitBurst   int      `yaml:"rate_limit_burst"` // 允许的突发请求数
	PDFTimeout       string   `yaml:"pdf_timeout"`      // 单个 PDF 的文本提取超时，例如 "30s"
}

// LoadConfig 加载配置
// configPath 为空时依次查找常见位置，都找不到则返回默认配置
// 文件中缺失的字段保留默认值
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = findConfigFile()
		if configPath == "" {
			cfg := DefaultConfig()
			cfg.applyEnv()
			return cfg, nil
		}
	}

	cfg, err := LoadConfigFromFileOnly(configPath)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadConfigFromFileOnly 只从文件加载，不读取环境变量
func LoadConfigFromFileOnly(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("必须提供配置文件路径")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("配置文件不存在: %s", configPath)
		}
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func findConfigFile() string {
	searchPaths := []string{
		"config.yaml",
		"../config.yaml",
		"../../config.yaml",
	}
	if execPath, err := os.Executable(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(filepath.Dir(execPath), "config.yaml"))
	}
	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// applyEnv 环境变量覆盖文件配置
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvServerAddress); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv(EnvRedisAddress); v != "" {
		c.Redis.Address = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv(EnvOTLPEndpoint); v != "" {
		c.Tracing.Endpoint = strings.TrimPrefix(strings.TrimPrefix(v, "http://"), "https://")
	}
}

// normalize 修正文件里写成 0 或空的关键字段
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Extractor.MaxInputBytes <= 0 {
		c.Extractor.MaxInputBytes = def.Extractor.MaxInputBytes
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		c.Upload.MaxFileSizeMB = def.Upload.MaxFileSizeMB
	}
	if len(c.Upload.AllowedMIMETypes) == 0 {
		c.Upload.AllowedMIMETypes = def.Upload.AllowedMIMETypes
	}
	if c.Tracing.SampleRatio <= 0 || c.Tracing.SampleRatio > 1 {
		c.Tracing.SampleRatio = def.Tracing.SampleRatio
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = def.Tracing.ServiceName
	}
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	config := &Config{}

	config.Server.Address = ":8080"
	config.Server.ShutdownTimeout = "5s"

	config.Logger.Level = "info"
	config.Logger.Format = "pretty"
	config.Logger.TimeFormat = "2006-01-02 15:04:05"
	config.Logger.ReportCaller = true

	config.Redis.Enabled = false
	config.Redis.Address = "localhost:6379"
	config.Redis.PoolSize = 10
	config.Redis.MinIdleConns = 2
	config.Redis.DialTimeoutSeconds = 5
	config.Redis.ReadTimeoutSeconds = 3
	config.Redis.WriteTimeoutSeconds = 3
	config.Redis.MaxRetries = 3
	config.Redis.MinRetryBackoffMS = 8
	config.Redis.MaxRetryBackoffMS = 512
	config.Redis.ProfileCacheTTL = "24h"

	config.Tracing.Enabled = false
	config.Tracing.Endpoint = "localhost:4317"
	config.Tracing.ServiceName = "ats-engine"
	config.Tracing.Insecure = true
	config.Tracing.SampleRatio = 1.0

	config.Extractor.MaxHeaderLength = 50
	config.Extractor.MaxSectionLines = 15
	config.Extractor.MaxInputBytes = 64 * 1024
	config.Extractor.Placeholders = PlaceholderConfig{
		Enabled:    true,
		Skills:     "Please review and add skills",
		Experience: "Please review and add experience",
		Education:  "Please review and add education",
	}

	config.Matcher.MinScore = 20
	config.Matcher.DefaultLimit = 0
	config.Matcher.Dashboard = DashboardConfig{
		MaxApplications: 3,
		JobLimit:        3,
		MatchesPerJob:   5,
	}

	config.Upload.MaxFileSizeMB = 5
	config.Upload.AllowedMIMETypes = []string{"application/pdf"}
	config.Upload.RateLimitQPM = 60
	config.Upload.RateLimitBurst = 10
	config.Upload.PDFTimeout = "30s"

	return config
}

// CreateSampleConfig 把默认配置写成示例文件，不覆盖已有文件
func CreateSampleConfig(filePath string) error {
	if _, err := os.Stat(filePath); err == nil {
		return fmt.Errorf("文件 '%s' 已存在，不会覆盖", filePath)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("写入示例配置文件 '%s' 失败: %w", filePath, err)
	}
	return nil
}

// MaxUploadBytes 上传文件大小上限(字节)
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxFileSizeMB) * 1024 * 1024
}

// PDFExtractTimeout PDF 文本提取超时，未配置或非法时为 30s
func (c *Config) PDFExtractTimeout() time.Duration {
	return GetDuration(c.Upload.PDFTimeout, 30*time.Second)
}

// GetDuration 解析时长字符串，为空或非法时返回默认值
func GetDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return d
}
