package healthcheck

import (
	"time"

	"github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/domain"
)

const (
	StatusOk      = "ok"
	StatusStopped = "stopped"
)

type ChainStatus struct {
	ChainId               domain.ChainId `json:"chainId"`
	LastProcessedSequence uint64         `json:"lastProcessedSequence"`
	// nil until the first message of the chain is committed
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type Report struct {
	Healthy bool          `json:"healthy"`
	Relay   string        `json:"relay"`
	Store   string        `json:"store"`
	Chains  []ChainStatus `json:"chains,omitempty"`
}

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	// Check always returns a report, the error is the first failed check
	Check(context ctx.Ctx) (*Report, error)
}

// HealthCheckRepo is repository layer of healthCheck
type HealthCheckRepo interface {
	Watermarks(context ctx.Ctx, chainIds []domain.ChainId) ([]ChainStatus, error)
}

type RelayState interface {
	Running() bool
}
