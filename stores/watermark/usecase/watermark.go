package usecase

import (
	"errors"
	"time"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/log"
	"github.com/x-xyz/pixel-relayer/domain"
)

type WatermarkUseCaseCfg struct {
	Repo       domain.WatermarkRepo
	CtxTimeout time.Duration
	// StartSequences is the first sequence to relay per chain, earlier ones count as processed
	StartSequences map[domain.ChainId]uint64
}

type watermarkUseCase struct {
	repo           domain.WatermarkRepo
	ctxTimeout     time.Duration
	startSequences map[domain.ChainId]uint64
}

func NewWatermarkUseCase(cfg *WatermarkUseCaseCfg) domain.WatermarkUseCase {
	timeout := cfg.CtxTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &watermarkUseCase{
		repo:           cfg.Repo,
		ctxTimeout:     timeout,
		startSequences: cfg.StartSequences,
	}
}

func (u *watermarkUseCase) Get(c bCtx.Ctx, chainId domain.ChainId) (*domain.SequenceWatermark, error) {
	ctx, cancel := bCtx.WithTimeout(c, u.ctxTimeout)
	defer cancel()

	w, err := u.repo.Get(ctx, chainId)
	if errors.Is(err, domain.ErrNotFound) {
		if start := u.startSequences[chainId]; start > 0 {
			return &domain.SequenceWatermark{ChainId: chainId, LastProcessedSequence: start - 1}, nil
		}
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	// a configured start above the stored value still skips older messages
	if start := u.startSequences[chainId]; start > 0 && w.LastProcessedSequence < start-1 {
		w.LastProcessedSequence = start - 1
	}
	return w, nil
}

func (u *watermarkUseCase) Advance(c bCtx.Ctx, chainId domain.ChainId, seq uint64) (*domain.SequenceWatermark, error) {
	ctx, cancel := bCtx.WithTimeout(c, u.ctxTimeout)
	defer cancel()

	w, advanced, err := u.repo.CompareAndSet(ctx, chainId, seq)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
			"seq":     seq,
		}).Error("repo.CompareAndSet failed")
		return nil, err
	}
	if !advanced {
		ctx.WithFields(log.Fields{
			"chainId": chainId,
			"seq":     seq,
			"current": w.LastProcessedSequence,
		}).Warn("watermark already at or above seq")
	}
	return w, nil
}
