package usecase

import (
	"github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/domain"
	hcdomain "github.com/x-xyz/pixel-relayer/domain/healthcheck"
)

type impl struct {
	repo     hcdomain.HealthCheckRepo
	relay    hcdomain.RelayState
	chainIds []domain.ChainId
}

// New creates new healthCheckUsecase object representation of HealthCheckUsecase interface
func New(repo hcdomain.HealthCheckRepo, relay hcdomain.RelayState, bridge *domain.BridgeConfig) hcdomain.HealthCheckUsecase {
	chainIds := make([]domain.ChainId, 0, len(bridge.Chains))
	for _, c := range bridge.Chains {
		chainIds = append(chainIds, c.ChainId)
	}
	return &impl{
		repo:     repo,
		relay:    relay,
		chainIds: chainIds,
	}
}

func (im *impl) Check(context ctx.Ctx) (*hcdomain.Report, error) {
	report := &hcdomain.Report{Relay: hcdomain.StatusOk, Store: hcdomain.StatusOk}
	if !im.relay.Running() {
		report.Relay = hcdomain.StatusStopped
	}

	chains, err := im.repo.Watermarks(context, im.chainIds)
	if err != nil {
		report.Store = err.Error()
		return report, err
	}
	report.Chains = chains

	if report.Relay != hcdomain.StatusOk {
		return report, domain.ErrQueueClosed
	}
	report.Healthy = true
	return report, nil
}
