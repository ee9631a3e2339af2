package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/domain"
	"github.com/x-xyz/pixel-relayer/domain/mocks"
	"github.com/x-xyz/pixel-relayer/stores/watermark/repository/memory"
)

func TestWatermarkUseCase_Get(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()
	repo := memory.NewWatermarkMemoryRepo()
	u := NewWatermarkUseCase(&WatermarkUseCaseCfg{
		Repo:           repo,
		StartSequences: map[domain.ChainId]uint64{domain.ChainIdAptos: 1},
	})

	// nothing stored and no start sequence
	_, err := u.Get(ctx, domain.ChainIdEthereum)
	req.True(errors.Is(err, domain.ErrNotFound))

	// seeded from the start sequence
	w, err := u.Get(ctx, domain.ChainIdAptos)
	req.NoError(err)
	req.Equal(uint64(0), w.LastProcessedSequence)

	_, err = u.Advance(ctx, domain.ChainIdAptos, 4)
	req.NoError(err)
	w, err = u.Get(ctx, domain.ChainIdAptos)
	req.NoError(err)
	req.Equal(uint64(4), w.LastProcessedSequence)
}

func TestWatermarkUseCase_startAboveStored(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()
	repo := memory.NewWatermarkMemoryRepo()
	_, _, err := repo.CompareAndSet(ctx, domain.ChainIdEthereum, 3)
	req.NoError(err)

	u := NewWatermarkUseCase(&WatermarkUseCaseCfg{
		Repo:           repo,
		StartSequences: map[domain.ChainId]uint64{domain.ChainIdEthereum: 10},
	})
	w, err := u.Get(ctx, domain.ChainIdEthereum)
	req.NoError(err)
	req.Equal(uint64(9), w.LastProcessedSequence)
}

func TestWatermarkUseCase_AdvanceMonotonic(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()
	u := NewWatermarkUseCase(&WatermarkUseCaseCfg{Repo: memory.NewWatermarkMemoryRepo()})

	var wg sync.WaitGroup
	for _, seq := range []uint64{6, 5} {
		wg.Add(1)
		go func(seq uint64) {
			defer wg.Done()
			_, err := u.Advance(ctx, domain.ChainIdAptos, seq)
			require.NoError(t, err)
		}(seq)
	}
	wg.Wait()

	w, err := u.Get(ctx, domain.ChainIdAptos)
	req.NoError(err)
	req.Equal(uint64(6), w.LastProcessedSequence)

	w, err = u.Advance(ctx, domain.ChainIdAptos, 2)
	req.NoError(err)
	req.Equal(uint64(6), w.LastProcessedSequence)
}

func TestWatermarkUseCase_AdvanceError(t *testing.T) {
	req := require.New(t)
	repo := mocks.NewWatermarkRepo(t)
	repo.On("CompareAndSet", mock.Anything, domain.ChainIdAptos, uint64(1)).
		Return(nil, false, errors.New("connection refused")).Once()

	u := NewWatermarkUseCase(&WatermarkUseCaseCfg{Repo: repo, CtxTimeout: time.Second})
	_, err := u.Advance(bCtx.Background(), domain.ChainIdAptos, 1)
	req.Error(err)
}
