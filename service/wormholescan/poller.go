package wormholescan

import (
	"errors"
	"sync"
	"time"

	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/pixel-relayer/base/backoff"
	"github.com/x-xyz/pixel-relayer/base/counter"
	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/goroutine"
	"github.com/x-xyz/pixel-relayer/base/log"
	"github.com/x-xyz/pixel-relayer/base/metrics"
	"github.com/x-xyz/pixel-relayer/domain"
)

const (
	DefaultInterval = 30 * time.Second
	DefaultPageSize = 16
	DefaultWorkers  = 4
)

var metOnce sync.Once
var met metrics.Service

type PollerCfg struct {
	Client      Client
	Bridge      *domain.BridgeConfig
	WatermarkUC domain.WatermarkUseCase
	Interval    time.Duration
	// PageSize sequences are fetched per round, Workers of them concurrently
	PageSize int
	Workers  int
}

// Poller backfills messages a push source missed: for every trusted emitter it fetches the signed
// vaas above the watermark and hands them to the handler in sequence order.
type Poller struct {
	client      Client
	bridge      *domain.BridgeConfig
	watermarkUC domain.WatermarkUseCase
	interval    time.Duration
	pageSize    int
	workers     int

	delivered *counter.Counter
	stoppedCh chan struct{}
}

var _ domain.AttestationSource = (*Poller)(nil)

func NewPoller(cfg *PollerCfg) *Poller {
	metOnce.Do(func() {
		met = metrics.New("wormholescan")
	})

	p := &Poller{
		client:      cfg.Client,
		bridge:      cfg.Bridge,
		watermarkUC: cfg.WatermarkUC,
		interval:    cfg.Interval,
		pageSize:    cfg.PageSize,
		workers:     cfg.Workers,
		delivered:   counter.NewCounter(),
		stoppedCh:   make(chan struct{}),
	}
	if p.interval <= 0 {
		p.interval = DefaultInterval
	}
	if p.pageSize <= 0 {
		p.pageSize = DefaultPageSize
	}
	if p.workers <= 0 {
		p.workers = DefaultWorkers
	}
	return p
}

func (p *Poller) Start(ctx bCtx.Ctx, h domain.MessageHandler) error {
	goroutine.RecoverableGo(func() {
		p.loop(ctx, h)
	}, goroutine.WithName("wormholescan.poller"), goroutine.WithAfterEnded(func() {
		close(p.stoppedCh)
	}))
	return nil
}

func (p *Poller) Wait() {
	<-p.stoppedCh
}

// Delivered is the number of messages handed to the handler so far
func (p *Poller) Delivered() int {
	return p.delivered.Total()
}

func (p *Poller) DeliveredFrom(chainId domain.ChainId) int {
	return p.delivered.Count(chainId.String())
}

func (p *Poller) loop(ctx bCtx.Ctx, h domain.MessageHandler) {
	bo := backoff.NewExponential(p.interval, 10*p.interval)
	for {
		failed := false
		for i := range p.bridge.Chains {
			if err := p.Backfill(ctx, &p.bridge.Chains[i], h); err != nil {
				failed = true
			}
		}
		if ctx.Err() != nil {
			return
		}

		if failed {
			if err := bo.Backoff(ctx); err != nil {
				return
			}
			continue
		}
		bo.Reset()

		select {
		case <-ctx.Done():
			return
		case <-time.After(p.interval):
		}
	}
}

type fetchResult struct {
	sequence uint64
	signed   *SignedVAA
}

// Backfill delivers the signed vaas of one source chain following its watermark, stopping at the
// first sequence that is not signed yet.
func (p *Poller) Backfill(ctx bCtx.Ctx, src *domain.SourceChain, h domain.MessageHandler) error {
	ctx = bCtx.WithFields(ctx, log.Fields{"chainId": src.ChainId})
	emitter, err := src.EmitterAddress()
	if err != nil {
		return err
	}

	next := src.StartSequence
	wm, err := p.watermarkUC.Get(ctx, src.ChainId)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		ctx.WithField("err", err).Error("watermarkUC.Get failed")
		return err
	}
	if wm != nil {
		next = wm.LastProcessedSequence + 1
	}

	for {
		page, err := p.fetchPage(ctx, src.ChainId, emitter, next)
		if err != nil {
			return err
		}
		for _, signed := range page {
			msg := signed.VAA.Message(signed.TxHash)
			if err := h.OnMessage(ctx, msg); err != nil {
				ctx.WithFields(log.Fields{
					"sequence": msg.Sequence,
					"err":      err,
				}).Warn("handler.OnMessage failed")
				if errors.Is(err, domain.ErrQueueClosed) || ctx.Err() != nil {
					return err
				}
			}
			p.delivered.Add(src.ChainId.String(), 1)
			met.BumpSum("delivered", 1, "chainId", src.ChainId.String())
		}
		if len(page) < p.pageSize {
			return nil
		}
		next += uint64(p.pageSize)
	}
}

// fetchPage returns the contiguous signed vaas starting at from
func (p *Poller) fetchPage(ctx bCtx.Ctx, chainId domain.ChainId, emitter domain.Hash32, from uint64) ([]*SignedVAA, error) {
	b := goroutines.NewBatch(p.workers, goroutines.WithBatchSize(p.pageSize))
	defer b.Close()
	for i := 0; i < p.pageSize; i++ {
		seq := from + uint64(i)
		b.Queue(func() (interface{}, error) {
			signed, err := p.client.GetVAA(ctx, chainId, emitter, seq)
			if err != nil {
				return nil, err
			}
			return &fetchResult{sequence: seq, signed: signed}, nil
		})
	}
	b.QueueComplete()

	window := make([]*SignedVAA, p.pageSize)
	var fetchErr error
	for ret := range b.Results() {
		if err := ret.Error(); err != nil {
			if !errors.Is(err, domain.ErrNotFound) && fetchErr == nil {
				fetchErr = err
			}
			continue
		}
		res := ret.Value().(*fetchResult)
		window[res.sequence-from] = res.signed
	}

	page := []*SignedVAA{}
	for _, signed := range window {
		if signed == nil {
			break
		}
		page = append(page, signed)
	}
	if len(page) == 0 && fetchErr != nil {
		ctx.WithFields(log.Fields{
			"from": from,
			"err":  fetchErr,
		}).Error("client.GetVAA failed")
		return nil, fetchErr
	}
	return page, nil
}
