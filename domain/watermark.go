package domain

import (
	"time"

	"github.com/x-xyz/pixel-relayer/base/ctx"
)

// SequenceWatermark is the highest committed sequence of a source chain.
type SequenceWatermark struct {
	ChainId               ChainId   `bson:"chainId" json:"chainId"`
	LastProcessedSequence uint64    `bson:"lastProcessedSequence" json:"lastProcessedSequence"`
	UpdatedAt             time.Time `bson:"updatedAt" json:"updatedAt"`
}

type WatermarkRepo interface {
	// Get returns ErrNotFound when nothing was committed for the chain yet
	Get(ctx.Ctx, ChainId) (*SequenceWatermark, error)
	// CompareAndSet stores seq only when it is greater than the stored value.
	// The returned watermark is the value stored after the call.
	CompareAndSet(ctx.Ctx, ChainId, uint64) (*SequenceWatermark, bool, error)
	Close() error
}

type WatermarkUseCase interface {
	// Get returns the watermark, seeded from the chain start sequence when nothing was committed
	Get(ctx.Ctx, ChainId) (*SequenceWatermark, error)
	// Advance moves the watermark forward to seq, never backward
	Advance(ctx.Ctx, ChainId, uint64) (*SequenceWatermark, error)
}
