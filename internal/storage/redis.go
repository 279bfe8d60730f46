package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ats-engine/internal/config"
	"ats-engine/internal/constants"
	"ats-engine/internal/tracing"
	"ats-engine/internal/types"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound 缓存中没有对应的键
var ErrNotFound = errors.New("redis: key not found")

var redisTracer = otel.Tracer("ats-engine/storage/redis")

// Redis 简历解析结果缓存
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
	ttl    time.Duration
}

// NewRedisAdapter 创建 Redis 客户端，注册 OpenTelemetry 钩子并检查连通性
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,
	})

	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	r := NewRedisWithClient(client, cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return r, nil
}

// NewRedisWithClient 使用已有客户端创建缓存
func NewRedisWithClient(client *redis.Client, cfg *config.RedisConfig) *Redis {
	if cfg == nil {
		cfg = &config.RedisConfig{}
	}
	return &Redis{
		Client: client,
		config: cfg,
		ttl:    config.GetDuration(cfg.ProfileCacheTTL, constants.DefaultProfileCacheTTL),
	}
}

// Close 关闭连接
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping 检查连接
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// ProfileTTL 解析结果的缓存时间
func (r *Redis) ProfileTTL() time.Duration {
	return r.ttl
}

// ProfileKey 解析结果的缓存键
func ProfileKey(fingerprint string) string {
	return fmt.Sprintf(constants.KeyResumeProfile, constants.ExtractorVersion, fingerprint)
}

// Get 读取字符串值，键不存在时返回 ErrNotFound
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis客户端未初始化")
	}

	ctx, span := redisTracer.Start(ctx, "Redis.Get", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.operation", "GET"),
		attribute.String("db.redis.key", tracing.SafeRedisKey(key)),
	)

	val, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.Bool("db.redis.key_exists", false))
			return "", ErrNotFound
		}
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return "", err
	}

	span.SetAttributes(
		attribute.Bool("db.redis.key_exists", true),
		attribute.Int("db.redis.value_length", len(val)),
	)
	span.SetStatus(codes.Ok, "")
	return val, nil
}

// Set 写入字符串值
func (r *Redis) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if r.Client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	ctx, span := redisTracer.Start(ctx, "Redis.Set", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.operation", "SET"),
		attribute.String("db.redis.key", tracing.SafeRedisKey(key)),
		attribute.Int("db.redis.value_length", len(value)),
	)
	if expiration > 0 {
		span.SetAttributes(attribute.Int64("db.redis.expiration_ms", expiration.Milliseconds()))
	}

	if err := r.Client.Set(ctx, key, value, expiration).Err(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// GetCachedProfile 读取缓存的解析结果，未命中时返回 ErrNotFound
func (r *Redis) GetCachedProfile(ctx context.Context, fingerprint string) (*types.ExtractedProfile, error) {
	val, err := r.Get(ctx, ProfileKey(fingerprint))
	if err != nil {
		return nil, err
	}

	var profile types.ExtractedProfile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		return nil, fmt.Errorf("反序列化缓存的解析结果失败: %w", err)
	}
	return &profile, nil
}

// CacheProfile 缓存解析结果
func (r *Redis) CacheProfile(ctx context.Context, fingerprint string, profile *types.ExtractedProfile) error {
	if profile == nil {
		return fmt.Errorf("profile cannot be nil")
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("序列化解析结果失败: %w", err)
	}
	return r.Set(ctx, ProfileKey(fingerprint), string(data), r.ttl)
}
