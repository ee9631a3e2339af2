package repository

import (
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/database/mongoclient"
	"github.com/x-xyz/pixel-relayer/base/database/redisclient"
	"github.com/x-xyz/pixel-relayer/domain"
	"github.com/x-xyz/pixel-relayer/stores/watermark/repository/memory"
	"github.com/x-xyz/pixel-relayer/stores/watermark/repository/mongo"
	"github.com/x-xyz/pixel-relayer/stores/watermark/repository/redis"
)

const (
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type DriverCfg struct {
	Driver string

	RedisUri       string
	RedisPassword  string
	RedisKeyPrefix string

	MongoUri        string
	MongoAuthDBName string
	MongoDBName     string
	MongoEnableSSL  bool
}

// Open connects the watermark store selected by cfg.Driver
func Open(ctx bCtx.Ctx, cfg *DriverCfg) (domain.WatermarkRepo, error) {
	switch cfg.Driver {
	case DriverRedis:
		pool, err := redisclient.ConnectRedis(cfg.RedisUri, cfg.RedisPassword, redisclient.RedisParam{
			PoolMultiplier: 1,
			Retry:          true,
		})
		if err != nil {
			ctx.WithField("err", err).Error("redisclient.ConnectRedis failed")
			return nil, err
		}
		return redis.NewWatermarkRedisRepo(pool, cfg.RedisKeyPrefix), nil
	case DriverMongo:
		client, err := mongoclient.Connect(ctx, mongoclient.Cfg{
			Uri:                cfg.MongoUri,
			AuthDBName:         cfg.MongoAuthDBName,
			DBName:             cfg.MongoDBName,
			EnableSSL:          cfg.MongoEnableSSL,
			Safe:               true,
			PoolSizeMultiplier: 1,
		})
		if err != nil {
			ctx.WithField("err", err).Error("mongoclient.Connect failed")
			return nil, err
		}
		return mongo.NewWatermarkMongoRepo(ctx, client)
	case DriverMemory:
		ctx.Warn("memory watermark store, progress is lost on restart")
		return memory.NewWatermarkMemoryRepo(), nil
	}
	return nil, xerrors.Errorf("watermark driver %q: %w", cfg.Driver, domain.ErrBadParamInput)
}
