package relay

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/goroutine"
	"github.com/x-xyz/pixel-relayer/base/log"
	"github.com/x-xyz/pixel-relayer/base/metrics"
	"github.com/x-xyz/pixel-relayer/base/payload"
	"github.com/x-xyz/pixel-relayer/domain"
)

const (
	DefaultQueueSize   = 128
	DefaultMaxAttempts = 5
	DefaultAttemptTTL  = 24 * time.Hour
)

var metOnce sync.Once
var met metrics.Service

type Cfg struct {
	Bridge       *domain.BridgeConfig
	WatermarkUC  domain.WatermarkUseCase
	MetadataUC   domain.MetadataUseCase
	EvmExecutor  domain.EvmExecutor
	MoveExecutor domain.MoveExecutor
	// Notifier is optional
	Notifier domain.FailureNotifier

	QueueSize int
	// MaxAttempts bounds the non-terminal failures of one message before it is abandoned
	MaxAttempts   int
	AttemptTTL    time.Duration
	FetchTimeout  time.Duration
	SubmitTimeout time.Duration
}

var _ domain.Dispatcher = (*Relay)(nil)

type item struct {
	ctx bCtx.Ctx
	msg *domain.AttestedMessage
}

type Relay struct {
	bridge       *domain.BridgeConfig
	watermarkUC  domain.WatermarkUseCase
	metadataUC   domain.MetadataUseCase
	evmExecutor  domain.EvmExecutor
	moveExecutor domain.MoveExecutor
	notifier     domain.FailureNotifier

	maxAttempts   int
	fetchTimeout  time.Duration
	submitTimeout time.Duration
	attempts      *attempts

	// per source chain
	chainMu map[domain.ChainId]*sync.Mutex
	lanes   map[domain.ChainId]chan *item

	intakeMu sync.RWMutex
	started  bool
	closed   bool
	wg       sync.WaitGroup
}

func NewRelay(cfg *Cfg) (*Relay, error) {
	metOnce.Do(func() {
		met = metrics.New("relay")
	})

	if cfg.Bridge == nil || cfg.WatermarkUC == nil {
		return nil, xerrors.Errorf("relay needs a bridge config and a watermark usecase: %w", domain.ErrBadParamInput)
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	attemptTTL := cfg.AttemptTTL
	if attemptTTL <= 0 {
		attemptTTL = DefaultAttemptTTL
	}

	r := &Relay{
		bridge:        cfg.Bridge,
		watermarkUC:   cfg.WatermarkUC,
		metadataUC:    cfg.MetadataUC,
		evmExecutor:   cfg.EvmExecutor,
		moveExecutor:  cfg.MoveExecutor,
		notifier:      cfg.Notifier,
		maxAttempts:   maxAttempts,
		fetchTimeout:  cfg.FetchTimeout,
		submitTimeout: cfg.SubmitTimeout,
		attempts:      newAttempts(attemptTTL),
		chainMu:       map[domain.ChainId]*sync.Mutex{},
		lanes:         map[domain.ChainId]chan *item{},
	}

	for i := range cfg.Bridge.Chains {
		src := &cfg.Bridge.Chains[i]
		if _, err := src.EmitterAddress(); err != nil {
			return nil, xerrors.Errorf("chain %s: %w", src.ChainId, err)
		}
		switch src.Family.Destination() {
		case domain.ChainFamilyEvm:
			if r.evmExecutor == nil {
				return nil, xerrors.Errorf("chain %s relays to evm but no evm executor: %w", src.ChainId, domain.ErrBadParamInput)
			}
		case domain.ChainFamilyMove:
			if r.moveExecutor == nil || r.metadataUC == nil {
				return nil, xerrors.Errorf("chain %s relays to move but no move executor or metadata resolver: %w", src.ChainId, domain.ErrBadParamInput)
			}
		default:
			return nil, xerrors.Errorf("chain %s family %q: %w", src.ChainId, src.Family, domain.ErrBadParamInput)
		}
		r.chainMu[src.ChainId] = &sync.Mutex{}
		r.lanes[src.ChainId] = make(chan *item, queueSize)
	}
	return r, nil
}

// Start runs one lane per source chain. Cancelling ctx has the same effect as Stop.
func (r *Relay) Start(ctx bCtx.Ctx) {
	r.intakeMu.Lock()
	defer r.intakeMu.Unlock()
	if r.started || r.closed {
		return
	}
	r.started = true

	for chainId, ch := range r.lanes {
		chainId, ch := chainId, ch
		r.wg.Add(1)
		goroutine.RecoverableGo(func() {
			r.runLane(ctx, chainId, ch)
		}, goroutine.WithName(fmt.Sprintf("relay.lane.%s", chainId)), goroutine.WithAfterEnded(r.wg.Done))
	}

	go func() {
		<-ctx.Done()
		r.Stop()
	}()
}

func (r *Relay) runLane(ctx bCtx.Ctx, chainId domain.ChainId, ch chan *item) {
	ctx = bCtx.WithFields(ctx, log.Fields{"lane": chainId.String()})
	ctx.Info("lane started")
	for it := range ch {
		it := it
		if evt := goroutine.Protect(func() {
			r.Dispatch(bCtx.Detach(it.ctx), it.msg)
		}, goroutine.WithName("relay.dispatch")); evt != nil {
			met.BumpSum("dispatch.panic", 1, "chainId", chainId.String())
		}
	}
	ctx.Info("lane drained")
}

// OnMessage queues msg on the lane of its source chain. It blocks while the lane is full.
func (r *Relay) OnMessage(ctx bCtx.Ctx, msg *domain.AttestedMessage) error {
	r.intakeMu.RLock()
	defer r.intakeMu.RUnlock()
	if r.closed {
		return domain.ErrQueueClosed
	}

	ch, ok := r.lanes[msg.SourceChainId]
	if !ok || !r.started {
		res := r.Dispatch(ctx, msg)
		if res.State == domain.DispatchStateFailed {
			return res.Err
		}
		return nil
	}

	select {
	case ch <- &item{ctx: ctx, msg: msg}:
		met.BumpGauge("queue.length", float64(len(ch)), "chainId", msg.SourceChainId.String())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the intake. Queued messages are still dispatched, Wait returns once they are.
func (r *Relay) Stop() {
	r.intakeMu.Lock()
	defer r.intakeMu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for _, ch := range r.lanes {
		close(ch)
	}
}

func (r *Relay) Wait() {
	r.wg.Wait()
}

// Running is true between Start and Stop
func (r *Relay) Running() bool {
	r.intakeMu.RLock()
	defer r.intakeMu.RUnlock()
	return r.started && !r.closed
}

// Dispatch drives one message to a final state.
func (r *Relay) Dispatch(ctx bCtx.Ctx, msg *domain.AttestedMessage) *domain.DispatchResult {
	defer met.BumpTime("dispatch.time", "chainId", msg.SourceChainId.String()).End()

	id := msg.Id()
	res := &domain.DispatchResult{Id: id, State: domain.DispatchStateReceived}
	ctx = bCtx.WithFields(ctx, log.Fields{
		"chainId":  id.ChainId,
		"sequence": id.Sequence,
	})

	// terminal failures already notified are not retried
	if n := r.attempts.get(id); n >= r.maxAttempts {
		ctx.WithField("attempts", n).Debug("abandoned message redelivered")
		res.State = domain.DispatchStateFailed
		res.Terminal = true
		res.Attempts = n
		res.Err = xerrors.Errorf("%d attempts: %w", n, domain.ErrAbandoned)
		return r.done(res)
	}

	src, ok := r.bridge.Source(id.ChainId)
	if !ok {
		return r.terminal(ctx, msg, res, xerrors.Errorf("chain %s: %w", id.ChainId, domain.ErrUnknownSource))
	}
	if emitter, _ := src.EmitterAddress(); emitter != msg.EmitterAddress {
		return r.terminal(ctx, msg, res, xerrors.Errorf("emitter %s: %w", msg.EmitterAddress.Hex(), domain.ErrUntrustedEmitter))
	}

	mu := r.chainMu[id.ChainId]
	mu.Lock()
	defer mu.Unlock()

	wm, err := r.watermarkUC.Get(ctx, id.ChainId)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		ctx.WithField("err", err).Error("watermarkUC.Get failed")
		return r.retryable(ctx, msg, res, err)
	}
	if wm != nil && id.Sequence <= wm.LastProcessedSequence {
		ctx.WithField("watermark", wm.LastProcessedSequence).Info("already processed, skipping")
		res.State = domain.DispatchStateSkipped
		return r.done(res)
	}

	action, err := payload.Decode(src.Family, msg.Payload)
	if err != nil {
		ctx.WithFields(log.Fields{
			"payload": hex.EncodeToString(msg.Payload),
			"err":     err,
		}).Error("payload.Decode failed")
		return r.terminal(ctx, msg, res, err)
	}
	res.State = domain.DispatchStateDecoded

	var conf *domain.TxConfirmation
	switch a := action.(type) {
	case *domain.ReviveAction:
		conf, err = r.revive(ctx, res, a)
	case *domain.MintAction:
		a.SourceChainId = id.ChainId
		conf, err = r.mint(ctx, res, a)
	default:
		err = xerrors.Errorf("unexpected action %T: %w", action, domain.ErrMalformedPayload)
	}
	if err != nil {
		if domain.IsTerminal(err) {
			return r.terminal(ctx, msg, res, err)
		}
		return r.retryable(ctx, msg, res, err)
	}
	res.State = domain.DispatchStateConfirmed
	res.Confirmation = conf
	ctx = bCtx.WithFields(ctx, log.Fields{"txHash": conf.TxHash})

	committed, err := r.watermarkUC.Advance(ctx, id.ChainId, id.Sequence)
	if err != nil {
		ctx.WithField("err", err).Error("watermarkUC.Advance failed")
		return r.retryable(ctx, msg, res, err)
	}
	met.BumpGauge("watermark", float64(committed.LastProcessedSequence), "chainId", id.ChainId.String())

	r.attempts.reset(id)
	ctx.Info("message relayed")
	return r.done(res)
}

func (r *Relay) revive(ctx bCtx.Ctx, res *domain.DispatchResult, a *domain.ReviveAction) (*domain.TxConfirmation, error) {
	ctx, cancel := r.withTimeout(ctx, r.submitTimeout)
	defer cancel()

	res.State = domain.DispatchStateSubmitted
	return r.evmExecutor.Revive(ctx, a)
}

func (r *Relay) mint(ctx bCtx.Ctx, res *domain.DispatchResult, a *domain.MintAction) (*domain.TxConfirmation, error) {
	res.State = domain.DispatchStateMetadataPending
	meta, err := func() (*domain.Metadata, error) {
		ctx, cancel := r.withTimeout(ctx, r.fetchTimeout)
		defer cancel()
		return r.metadataUC.Resolve(ctx, a.TokenUri)
	}()
	if err != nil {
		ctx.WithFields(log.Fields{
			"tokenUri": a.TokenUri,
			"err":      err,
		}).Warn("metadataUC.Resolve failed")
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx, r.submitTimeout)
	defer cancel()

	res.State = domain.DispatchStateSubmitted
	return r.moveExecutor.MintToken(ctx, a, meta)
}

func (r *Relay) withTimeout(ctx bCtx.Ctx, d time.Duration) (bCtx.Ctx, func()) {
	if d <= 0 {
		return ctx, func() {}
	}
	c, cancel := bCtx.WithTimeout(ctx, d)
	return c, func() { cancel() }
}

func (r *Relay) terminal(ctx bCtx.Ctx, msg *domain.AttestedMessage, res *domain.DispatchResult, err error) *domain.DispatchResult {
	res.Terminal = true
	res.Err = err
	r.attempts.exhaust(res.Id, r.maxAttempts)
	ctx.WithFields(log.Fields{
		"state": res.State,
		"err":   err,
	}).Error("message failed permanently")
	return r.failed(ctx, msg, res)
}

func (r *Relay) retryable(ctx bCtx.Ctx, msg *domain.AttestedMessage, res *domain.DispatchResult, err error) *domain.DispatchResult {
	res.Err = err
	res.Attempts = r.attempts.incr(res.Id)
	if res.Attempts >= r.maxAttempts {
		res.Terminal = true
		ctx.WithFields(log.Fields{
			"state":    res.State,
			"attempts": res.Attempts,
			"err":      err,
		}).Error("message abandoned")
		return r.failed(ctx, msg, res)
	}
	ctx.WithFields(log.Fields{
		"state":    res.State,
		"attempts": res.Attempts,
		"err":      err,
	}).Warn("message failed, waiting for redelivery")
	return r.failed(ctx, msg, res)
}

func (r *Relay) failed(ctx bCtx.Ctx, msg *domain.AttestedMessage, res *domain.DispatchResult) *domain.DispatchResult {
	failedAt := res.State
	res.State = domain.DispatchStateFailed
	met.BumpSum("dispatch.failed", 1, "chainId", res.Id.ChainId.String(), "at", string(failedAt), "terminal", fmt.Sprint(res.Terminal))
	if res.Terminal && r.notifier != nil {
		if err := r.notifier.NotifyFailure(ctx, msg, res); err != nil {
			ctx.WithField("err", err).Warn("notifier.NotifyFailure failed")
		}
	}
	return r.done(res)
}

func (r *Relay) done(res *domain.DispatchResult) *domain.DispatchResult {
	met.BumpSum("dispatch", 1, "chainId", res.Id.ChainId.String(), "state", string(res.State))
	return res
}
