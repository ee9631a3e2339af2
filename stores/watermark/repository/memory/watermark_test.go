package memory

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/domain"
)

func TestWatermarkMemoryRepo(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()
	repo := NewWatermarkMemoryRepo()

	_, err := repo.Get(ctx, domain.ChainIdAptos)
	req.True(errors.Is(err, domain.ErrNotFound))

	w, ok, err := repo.CompareAndSet(ctx, domain.ChainIdAptos, 0)
	req.NoError(err)
	req.True(ok)
	req.Equal(uint64(0), w.LastProcessedSequence)

	w, ok, err = repo.CompareAndSet(ctx, domain.ChainIdAptos, 7)
	req.NoError(err)
	req.True(ok)
	req.Equal(uint64(7), w.LastProcessedSequence)

	w, ok, err = repo.CompareAndSet(ctx, domain.ChainIdAptos, 7)
	req.NoError(err)
	req.False(ok)
	req.Equal(uint64(7), w.LastProcessedSequence)

	// other chains are independent
	_, err = repo.Get(ctx, domain.ChainIdEthereum)
	req.True(errors.Is(err, domain.ErrNotFound))
	req.NoError(repo.Close())
}

func TestWatermarkMemoryRepo_concurrent(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()
	repo := NewWatermarkMemoryRepo()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(seq uint64) {
			defer wg.Done()
			repo.CompareAndSet(ctx, domain.ChainIdEthereum, seq)
		}(uint64(i % 7))
	}
	wg.Wait()

	w, err := repo.Get(ctx, domain.ChainIdEthereum)
	req.NoError(err)
	req.Equal(uint64(6), w.LastProcessedSequence)
}
