package storage

import (
	"context"
	"fmt"

	"ats-engine/internal/config"

	"github.com/rs/zerolog"
)

// Storage 存储管理器
// 引擎本身不落库，这里只有可选的解析结果缓存
type Storage struct {
	Redis *Redis
}

// NewStorage 按配置初始化存储
// Redis 初始化失败只记录警告，服务在无缓存模式下继续运行
func NewStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	s := &Storage{}
	if !cfg.Redis.Enabled {
		logger.Info().Msg("Redis未启用, 解析结果不缓存")
		return s, nil
	}

	r, err := NewRedisAdapter(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Str("address", cfg.Redis.Address).Msg("初始化Redis失败, 解析结果不缓存")
		return s, nil
	}
	logger.Info().Str("address", cfg.Redis.Address).Dur("ttl", r.ProfileTTL()).Msg("Redis缓存初始化成功")
	s.Redis = r
	return s, nil
}

// Close 关闭所有连接
func (s *Storage) Close(logger zerolog.Logger) {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭Redis连接失败")
		}
	}
}
