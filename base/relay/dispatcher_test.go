package relay

import (
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/payload"
	"github.com/x-xyz/pixel-relayer/domain"
	"github.com/x-xyz/pixel-relayer/domain/mocks"
	metadataUsecase "github.com/x-xyz/pixel-relayer/stores/metadata/usecase"
	"github.com/x-xyz/pixel-relayer/stores/watermark/repository/memory"
	watermarkUsecase "github.com/x-xyz/pixel-relayer/stores/watermark/usecase"
	webResource "github.com/x-xyz/pixel-relayer/stores/web_resource/repository"
)

var (
	evmEmitter  = domain.MustHexToHash32("0x000000000000000000000000a1b2c3d4e5f60718293a4b5c6d7e8f9012345678")
	moveEmitter = domain.MustHexToHash32("0x7c0e3a9f1d2b4c5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6")

	reviveAction = &domain.ReviveAction{
		DestContractId: domain.MustHexToHash32("0x00000000000000000000000011111111111111111111111111111111111111aa"),
		TokenContract:  domain.MustHexToHash32("0x00000000000000000000000022222222222222222222222222222222222222bb"),
		TokenId:        7,
		Receiver:       domain.MustHexToHash32("0x00000000000000000000000033333333333333333333333333333333333333cc"),
	}
)

func mintAction(tokenUri string) *domain.MintAction {
	return &domain.MintAction{
		DestContractId:           moveEmitter,
		SourceCollectionContract: domain.MustHexToHash32("0x00000000000000000000000044444444444444444444444444444444444444dd"),
		TokenId:                  "12",
		CollectionName:           "Pixels",
		CollectionDescription:    "pixels on chain",
		TokenUri:                 tokenUri,
		Receiver:                 domain.MustHexToHash32("0x0abc"),
	}
}

func testBridge() *domain.BridgeConfig {
	return &domain.BridgeConfig{
		Domain: "https://bridge.example",
		Chains: []domain.SourceChain{
			{ChainId: domain.ChainIdEthereum, Family: domain.ChainFamilyEvm, Emitter: evmEmitter.Hex()},
			{ChainId: domain.ChainIdAptos, Family: domain.ChainFamilyMove, Emitter: moveEmitter.Hex()},
		},
	}
}

type relaySuite struct {
	suite.Suite
	ctx         bCtx.Ctx
	watermarkUC domain.WatermarkUseCase
	metadataUC  *mocks.MetadataUseCase
	evm         *mocks.EvmExecutor
	move        *mocks.MoveExecutor
	notifier    *mocks.FailureNotifier
	im          *Relay
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(relaySuite))
}

func (s *relaySuite) SetupTest() {
	s.ctx = bCtx.Background()
	s.watermarkUC = watermarkUsecase.NewWatermarkUseCase(&watermarkUsecase.WatermarkUseCaseCfg{
		Repo: memory.NewWatermarkMemoryRepo(),
	})
	s.metadataUC = mocks.NewMetadataUseCase(s.T())
	s.evm = mocks.NewEvmExecutor(s.T())
	s.move = mocks.NewMoveExecutor(s.T())
	s.notifier = mocks.NewFailureNotifier(s.T())
	s.im = s.newRelay(s.metadataUC, 3)
}

func (s *relaySuite) newRelay(metadataUC domain.MetadataUseCase, maxAttempts int) *Relay {
	im, err := NewRelay(&Cfg{
		Bridge:        testBridge(),
		WatermarkUC:   s.watermarkUC,
		MetadataUC:    metadataUC,
		EvmExecutor:   s.evm,
		MoveExecutor:  s.move,
		Notifier:      s.notifier,
		MaxAttempts:   maxAttempts,
		FetchTimeout:  time.Second,
		SubmitTimeout: time.Second,
	})
	s.Require().NoError(err)
	return im
}

func (s *relaySuite) reviveMessage(seq uint64) *domain.AttestedMessage {
	return &domain.AttestedMessage{
		SourceChainId:  domain.ChainIdAptos,
		Sequence:       seq,
		EmitterAddress: moveEmitter,
		Payload:        payload.EncodeRevive(reviveAction),
	}
}

func (s *relaySuite) mintMessage(seq uint64, tokenUri string) *domain.AttestedMessage {
	p, err := payload.EncodeMint(mintAction(tokenUri))
	s.Require().NoError(err)
	return &domain.AttestedMessage{
		SourceChainId:  domain.ChainIdEthereum,
		Sequence:       seq,
		EmitterAddress: evmEmitter,
		Payload:        p,
	}
}

func (s *relaySuite) watermark(chainId domain.ChainId) uint64 {
	wm, err := s.watermarkUC.Get(s.ctx, chainId)
	if errors.Is(err, domain.ErrNotFound) {
		return 0
	}
	s.Require().NoError(err)
	return wm.LastProcessedSequence
}

// Move -> EVM revive
func (s *relaySuite) TestReviveRelayed() {
	conf := &domain.TxConfirmation{Family: domain.ChainFamilyEvm, TxHash: "0x01"}
	s.evm.On("Revive", mock.Anything, reviveAction).Return(conf, nil).Once()

	res := s.im.Dispatch(s.ctx, s.reviveMessage(4))
	s.Equal(domain.DispatchStateConfirmed, res.State)
	s.NoError(res.Err)
	s.Equal(conf, res.Confirmation)
	s.Equal(uint64(4), s.watermark(domain.ChainIdAptos))
	s.Equal(uint64(0), s.watermark(domain.ChainIdEthereum))
}

func (s *relaySuite) TestMintRelayed() {
	meta := &domain.Metadata{Name: "X", Description: "Y", Image: "Z", Attributes: map[string]string{}}
	conf := &domain.TxConfirmation{Family: domain.ChainFamilyMove, TxHash: "0x02"}
	s.metadataUC.On("Resolve", mock.Anything, "https://meta.example/12.json").Return(meta, nil).Once()
	s.move.On("MintToken", mock.Anything, mock.MatchedBy(func(a *domain.MintAction) bool {
		return a.SourceChainId == domain.ChainIdEthereum && a.TokenId == "12"
	}), meta).Return(conf, nil).Once()

	res := s.im.Dispatch(s.ctx, s.mintMessage(1, "https://meta.example/12.json"))
	s.Equal(domain.DispatchStateConfirmed, res.State)
	s.Equal(conf, res.Confirmation)
	s.Equal(uint64(1), s.watermark(domain.ChainIdEthereum))
}

func (s *relaySuite) TestDuplicateSkipped() {
	conf := &domain.TxConfirmation{Family: domain.ChainFamilyEvm, TxHash: "0x01"}
	s.evm.On("Revive", mock.Anything, reviveAction).Return(conf, nil).Once()

	s.Equal(domain.DispatchStateConfirmed, s.im.Dispatch(s.ctx, s.reviveMessage(5)).State)
	s.Equal(domain.DispatchStateSkipped, s.im.Dispatch(s.ctx, s.reviveMessage(5)).State)
	s.Equal(domain.DispatchStateSkipped, s.im.Dispatch(s.ctx, s.reviveMessage(3)).State)
	s.evm.AssertNumberOfCalls(s.T(), "Revive", 1)
}

// sequences 5 and 6 of one chain delivered concurrently end with watermark 6
func (s *relaySuite) TestConcurrentSequences() {
	var calls int32
	s.evm.On("Revive", mock.Anything, reviveAction).Return(func(bCtx.Ctx, *domain.ReviveAction) (*domain.TxConfirmation, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(5 * time.Millisecond)
		return &domain.TxConfirmation{Family: domain.ChainFamilyEvm, TxHash: "0x01"}, nil
	})

	wg := sync.WaitGroup{}
	results := make([]*domain.DispatchResult, 2)
	for i, seq := range []uint64{5, 6} {
		i, seq := i, seq
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.im.Dispatch(s.ctx, s.reviveMessage(seq))
		}()
	}
	wg.Wait()

	s.Equal(uint64(6), s.watermark(domain.ChainIdAptos))
	confirmed := 0
	for _, res := range results {
		s.Contains([]domain.DispatchState{domain.DispatchStateConfirmed, domain.DispatchStateSkipped}, res.State)
		if res.State == domain.DispatchStateConfirmed {
			confirmed++
		}
	}
	s.Equal(int(atomic.LoadInt32(&calls)), confirmed)
	s.GreaterOrEqual(confirmed, 1)
}

// EVM message whose token uri host is unreachable
func (s *relaySuite) TestUnreachableMetadataHost() {
	resolver := metadataUsecase.NewMetadataUseCase(&metadataUsecase.MetadataUseCaseCfg{
		HttpReader:    webResource.NewHttpReaderRepo(http.Client{}, time.Second, nil),
		DataUriReader: webResource.NewDataUriReaderRepo(),
	})
	im := s.newRelay(resolver, 3)

	res := im.Dispatch(s.ctx, s.mintMessage(1, "http://127.0.0.1:1/meta.json"))
	s.Equal(domain.DispatchStateFailed, res.State)
	s.False(res.Terminal)
	s.True(errors.Is(res.Err, domain.ErrFetchFailed))
	s.Equal(1, res.Attempts)
	s.Equal(uint64(0), s.watermark(domain.ChainIdEthereum))
	s.move.AssertNotCalled(s.T(), "MintToken", mock.Anything, mock.Anything, mock.Anything)
}

func (s *relaySuite) TestUnknownSource() {
	msg := s.reviveMessage(1)
	msg.SourceChainId = 99
	s.notifier.On("NotifyFailure", mock.Anything, msg, mock.Anything).Return(nil).Once()

	res := s.im.Dispatch(s.ctx, msg)
	s.Equal(domain.DispatchStateFailed, res.State)
	s.True(res.Terminal)
	s.True(errors.Is(res.Err, domain.ErrUnknownSource))
}

func (s *relaySuite) TestUntrustedEmitter() {
	msg := s.reviveMessage(1)
	msg.EmitterAddress = evmEmitter
	s.notifier.On("NotifyFailure", mock.Anything, msg, mock.Anything).Return(nil).Once()

	res := s.im.Dispatch(s.ctx, msg)
	s.True(res.Terminal)
	s.True(errors.Is(res.Err, domain.ErrUntrustedEmitter))
	s.Equal(uint64(0), s.watermark(domain.ChainIdAptos))
}

func (s *relaySuite) TestMalformedPayload() {
	for i, p := range [][]byte{nil, make([]byte, 96), make([]byte, 98)} {
		msg := s.reviveMessage(uint64(i + 1))
		msg.Payload = p
		s.notifier.On("NotifyFailure", mock.Anything, msg, mock.Anything).Return(nil).Once()

		res := s.im.Dispatch(s.ctx, msg)
		s.Equal(domain.DispatchStateFailed, res.State)
		s.True(res.Terminal)
		s.True(errors.Is(res.Err, domain.ErrMalformedPayload))
	}
	s.Equal(uint64(0), s.watermark(domain.ChainIdAptos))
}

func (s *relaySuite) TestAttemptsBounded() {
	s.evm.On("Revive", mock.Anything, reviveAction).
		Return(nil, &domain.ExecError{Kind: domain.ExecSubmitFailed, Cause: errors.New("nonce too low")})
	msg := s.reviveMessage(2)
	s.notifier.On("NotifyFailure", mock.Anything, msg, mock.MatchedBy(func(res *domain.DispatchResult) bool {
		return res.Terminal && res.Attempts == 3
	})).Return(nil).Once()

	for i := 1; i <= 3; i++ {
		res := s.im.Dispatch(s.ctx, msg)
		s.Equal(domain.DispatchStateFailed, res.State)
		s.Equal(i, res.Attempts)
		s.Equal(i == 3, res.Terminal)
		s.True(errors.Is(res.Err, domain.ErrSubmitFailed))
	}

	res := s.im.Dispatch(s.ctx, msg)
	s.True(res.Terminal)
	s.True(errors.Is(res.Err, domain.ErrAbandoned))
	s.evm.AssertNumberOfCalls(s.T(), "Revive", 3)
}

func (s *relaySuite) TestTerminalNotifiedOnce() {
	msg := s.reviveMessage(6)
	msg.Payload = make([]byte, 96)
	s.notifier.On("NotifyFailure", mock.Anything, msg, mock.Anything).Return(nil).Once()

	res := s.im.Dispatch(s.ctx, msg)
	s.True(res.Terminal)
	s.True(errors.Is(res.Err, domain.ErrMalformedPayload))

	for i := 0; i < 3; i++ {
		res := s.im.Dispatch(s.ctx, msg)
		s.Equal(domain.DispatchStateFailed, res.State)
		s.True(res.Terminal)
		s.True(errors.Is(res.Err, domain.ErrAbandoned))
	}
	s.notifier.AssertNumberOfCalls(s.T(), "NotifyFailure", 1)

	untrusted := s.reviveMessage(7)
	untrusted.EmitterAddress = evmEmitter
	s.notifier.On("NotifyFailure", mock.Anything, untrusted, mock.Anything).Return(nil).Once()
	s.True(errors.Is(s.im.Dispatch(s.ctx, untrusted).Err, domain.ErrUntrustedEmitter))
	s.True(errors.Is(s.im.Dispatch(s.ctx, untrusted).Err, domain.ErrAbandoned))
	s.notifier.AssertNumberOfCalls(s.T(), "NotifyFailure", 2)
}

func (s *relaySuite) TestCommitFailureKeepsConfirmation() {
	repo := mocks.NewWatermarkRepo(s.T())
	repo.On("Get", mock.Anything, domain.ChainIdAptos).Return(nil, domain.ErrNotFound)
	repo.On("CompareAndSet", mock.Anything, domain.ChainIdAptos, uint64(9)).Return(nil, false, errors.New("redis down")).Once()
	s.watermarkUC = watermarkUsecase.NewWatermarkUseCase(&watermarkUsecase.WatermarkUseCaseCfg{Repo: repo})
	im := s.newRelay(s.metadataUC, 3)

	conf := &domain.TxConfirmation{Family: domain.ChainFamilyEvm, TxHash: "0x09"}
	s.evm.On("Revive", mock.Anything, reviveAction).Return(conf, nil).Once()

	res := im.Dispatch(s.ctx, s.reviveMessage(9))
	s.Equal(domain.DispatchStateFailed, res.State)
	s.False(res.Terminal)
	s.Equal(conf, res.Confirmation)
}

func (s *relaySuite) TestLanesDrainOnStop() {
	var calls int32
	s.evm.On("Revive", mock.Anything, reviveAction).Return(func(bCtx.Ctx, *domain.ReviveAction) (*domain.TxConfirmation, error) {
		atomic.AddInt32(&calls, 1)
		return &domain.TxConfirmation{Family: domain.ChainFamilyEvm, TxHash: "0x01"}, nil
	})

	ctx, cancel := bCtx.WithCancel(s.ctx)
	s.im.Start(ctx)
	for seq := uint64(1); seq <= 10; seq++ {
		s.Require().NoError(s.im.OnMessage(ctx, s.reviveMessage(seq)))
	}
	cancel()
	s.im.Wait()

	s.Equal(int32(10), atomic.LoadInt32(&calls))
	s.Equal(uint64(10), s.watermark(domain.ChainIdAptos))
	s.Equal(domain.ErrQueueClosed, s.im.OnMessage(s.ctx, s.reviveMessage(11)))
}

func (s *relaySuite) TestLaneSurvivesPanic() {
	s.evm.On("Revive", mock.Anything, reviveAction).Return(func(bCtx.Ctx, *domain.ReviveAction) (*domain.TxConfirmation, error) {
		panic("boom")
	}).Once()
	s.evm.On("Revive", mock.Anything, reviveAction).Return(&domain.TxConfirmation{Family: domain.ChainFamilyEvm, TxHash: "0x01"}, nil).Once()

	s.im.Start(s.ctx)
	s.Require().NoError(s.im.OnMessage(s.ctx, s.reviveMessage(1)))
	s.Require().NoError(s.im.OnMessage(s.ctx, s.reviveMessage(2)))
	s.im.Stop()
	s.im.Wait()

	s.Equal(uint64(2), s.watermark(domain.ChainIdAptos))
}

func TestMissingExecutor(t *testing.T) {
	s := suite.Suite{}
	s.SetT(t)
	_, err := NewRelay(&Cfg{
		Bridge:      testBridge(),
		WatermarkUC: watermarkUsecase.NewWatermarkUseCase(&watermarkUsecase.WatermarkUseCaseCfg{Repo: memory.NewWatermarkMemoryRepo()}),
	})
	s.True(errors.Is(err, domain.ErrBadParamInput))
}
