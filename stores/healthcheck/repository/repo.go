package repository

import (
	"errors"
	"time"

	"github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/log"
	"github.com/x-xyz/pixel-relayer/domain"
	hcdomain "github.com/x-xyz/pixel-relayer/domain/healthcheck"
)

const pingTimeout = 2 * time.Second

type impl struct {
	watermarkRepo domain.WatermarkRepo
}

// New reads chain progress straight from the watermark store
func New(watermarkRepo domain.WatermarkRepo) hcdomain.HealthCheckRepo {
	return &impl{
		watermarkRepo: watermarkRepo,
	}
}

func (im *impl) Watermarks(context ctx.Ctx, chainIds []domain.ChainId) ([]hcdomain.ChainStatus, error) {
	pingCtx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()

	res := make([]hcdomain.ChainStatus, 0, len(chainIds))
	for _, id := range chainIds {
		status := hcdomain.ChainStatus{ChainId: id}
		w, err := im.watermarkRepo.Get(pingCtx, id)
		if errors.Is(err, domain.ErrNotFound) {
			res = append(res, status)
			continue
		} else if err != nil {
			context.WithFields(log.Fields{"err": err, "chainId": id}).Error("ping watermark store error")
			return nil, err
		}
		updatedAt := w.UpdatedAt
		status.LastProcessedSequence = w.LastProcessedSequence
		status.UpdatedAt = &updatedAt
		res = append(res, status)
	}
	return res, nil
}
