package redis

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gomodule/redigo/redis"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/log"
	"github.com/x-xyz/pixel-relayer/domain"
)

// advanceScript sets KEYS[1] to ARGV[1] when it is numerically greater than the stored value.
// Sequences are compared as decimal strings so uint64 values survive lua's float numbers.
var advanceScript = redis.NewScript(2, `
local cur = redis.call('GET', KEYS[1])
local seq = ARGV[1]
if (not cur) or (string.len(seq) > string.len(cur)) or (string.len(seq) == string.len(cur) and seq > cur) then
  redis.call('SET', KEYS[1], seq)
  redis.call('SET', KEYS[2], ARGV[2])
  return {1, seq, ARGV[2]}
end
return {0, cur, redis.call('GET', KEYS[2]) or '0'}
`)

type watermarkRedisRepo struct {
	pool   *redis.Pool
	prefix string
}

// NewWatermarkRedisRepo stores the watermark of chain c as an integer at {prefix}:{c}
func NewWatermarkRedisRepo(pool *redis.Pool, prefix string) domain.WatermarkRepo {
	if prefix == "" {
		prefix = "watermark"
	}
	return &watermarkRedisRepo{pool: pool, prefix: prefix}
}

func (r *watermarkRedisRepo) key(chainId domain.ChainId) string {
	return fmt.Sprintf("%s:%d", r.prefix, chainId)
}

func (r *watermarkRedisRepo) updatedAtKey(chainId domain.ChainId) string {
	return r.key(chainId) + ":updatedAt"
}

func (r *watermarkRedisRepo) conn(ctx bCtx.Ctx) (redis.Conn, error) {
	c, err := r.pool.GetContext(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("pool.GetContext failed")
		return nil, err
	}
	return c, nil
}

func (r *watermarkRedisRepo) Get(ctx bCtx.Ctx, chainId domain.ChainId) (*domain.SequenceWatermark, error) {
	c, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	values, err := redis.Strings(c.Do("MGET", r.key(chainId), r.updatedAtKey(chainId)))
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
		}).Error("MGET failed")
		return nil, err
	}
	if len(values) != 2 || values[0] == "" {
		return nil, domain.ErrNotFound
	}
	return toWatermark(chainId, values[0], values[1])
}

func (r *watermarkRedisRepo) CompareAndSet(ctx bCtx.Ctx, chainId domain.ChainId, seq uint64) (*domain.SequenceWatermark, bool, error) {
	c, err := r.conn(ctx)
	if err != nil {
		return nil, false, err
	}
	defer c.Close()

	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	values, err := redis.Values(advanceScript.Do(c,
		r.key(chainId), r.updatedAtKey(chainId), strconv.FormatUint(seq, 10), now))
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
			"seq":     seq,
		}).Error("advanceScript failed")
		return nil, false, err
	}

	var (
		advanced       int
		cur, updatedAt string
	)
	if _, err := redis.Scan(values, &advanced, &cur, &updatedAt); err != nil {
		ctx.WithField("err", err).Error("redis.Scan failed")
		return nil, false, err
	}
	w, err := toWatermark(chainId, cur, updatedAt)
	if err != nil {
		return nil, false, err
	}
	return w, advanced == 1, nil
}

func (r *watermarkRedisRepo) Close() error {
	return r.pool.Close()
}

func toWatermark(chainId domain.ChainId, seq, updatedAt string) (*domain.SequenceWatermark, error) {
	n, err := strconv.ParseUint(seq, 10, 64)
	if err != nil {
		return nil, xerrors.Errorf("corrupted watermark %q: %w", seq, err)
	}
	w := &domain.SequenceWatermark{ChainId: chainId, LastProcessedSequence: n}
	if ms, err := strconv.ParseInt(updatedAt, 10, 64); err == nil && ms > 0 {
		w.UpdatedAt = time.UnixMilli(ms).UTC()
	}
	return w, nil
}
