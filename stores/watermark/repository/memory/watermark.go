package memory

import (
	"sync"
	"time"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/domain"
)

type watermarkMemoryRepo struct {
	mu    sync.Mutex
	marks map[domain.ChainId]domain.SequenceWatermark
}

// NewWatermarkMemoryRepo keeps watermarks in process, they are lost on restart
func NewWatermarkMemoryRepo() domain.WatermarkRepo {
	return &watermarkMemoryRepo{marks: map[domain.ChainId]domain.SequenceWatermark{}}
}

func (r *watermarkMemoryRepo) Get(_ bCtx.Ctx, chainId domain.ChainId) (*domain.SequenceWatermark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.marks[chainId]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &w, nil
}

func (r *watermarkMemoryRepo) CompareAndSet(_ bCtx.Ctx, chainId domain.ChainId, seq uint64) (*domain.SequenceWatermark, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.marks[chainId]
	if ok && w.LastProcessedSequence >= seq {
		return &w, false, nil
	}
	w = domain.SequenceWatermark{
		ChainId:               chainId,
		LastProcessedSequence: seq,
		UpdatedAt:             time.Now().UTC(),
	}
	r.marks[chainId] = w
	return &w, true, nil
}

func (r *watermarkMemoryRepo) Close() error {
	return nil
}
