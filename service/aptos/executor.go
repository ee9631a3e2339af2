package aptos

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/log"
	"github.com/x-xyz/pixel-relayer/base/metrics"
	"github.com/x-xyz/pixel-relayer/domain"
)

const (
	DefaultMaxGasAmount = 200000
	DefaultExpiration   = 60 * time.Second

	mintFunction = "pixel::mint_token"
)

var metOnce sync.Once
var met metrics.Service

type ExecutorCfg struct {
	Client Client
	Signer *Signer
	// BridgeDomain prefixes the synthesized collection uri
	BridgeDomain string
	MaxGasAmount uint64
	// Expiration is added to now for expiration_timestamp_secs
	Expiration time.Duration
	Timeout    time.Duration

	// Now is replaced in tests
	Now func() time.Time
}

type executor struct {
	client       Client
	signer       *Signer
	bridgeDomain string
	maxGasAmount uint64
	expiration   time.Duration
	timeout      time.Duration
	now          func() time.Time

	// sequence number read and submit of one account must not interleave
	sendMu sync.Mutex
}

func NewExecutor(ctx bCtx.Ctx, cfg *ExecutorCfg) (domain.MoveExecutor, error) {
	metOnce.Do(func() {
		met = metrics.New("aptos")
	})

	if cfg.Client == nil || cfg.Signer == nil {
		return nil, xerrors.Errorf("aptos executor needs a client and a signer: %w", domain.ErrBadParamInput)
	}

	e := &executor{
		client:       cfg.Client,
		signer:       cfg.Signer,
		bridgeDomain: strings.TrimSuffix(cfg.BridgeDomain, "/"),
		maxGasAmount: cfg.MaxGasAmount,
		expiration:   cfg.Expiration,
		timeout:      cfg.Timeout,
		now:          cfg.Now,
	}
	if e.maxGasAmount == 0 {
		e.maxGasAmount = DefaultMaxGasAmount
	}
	if e.expiration <= 0 {
		e.expiration = DefaultExpiration
	}
	if e.now == nil {
		e.now = time.Now
	}

	ctx.WithFields(log.Fields{
		"sender":       e.signer.Address(),
		"bridgeDomain": e.bridgeDomain,
	}).Info("aptos executor ready")
	return e, nil
}

// BuildMintCall derives the mint_token arguments from a mint action and its resolved metadata.
func BuildMintCall(bridgeDomain string, action *domain.MintAction, meta *domain.Metadata) (*domain.MintTokenCall, error) {
	tokenId, err := strconv.ParseUint(action.TokenId, 10, 64)
	if err != nil {
		return nil, &domain.ExecError{
			Kind:  domain.ExecBadTokenId,
			Cause: xerrors.Errorf("token id %q does not fit u64: %w", action.TokenId, err),
		}
	}

	return &domain.MintTokenCall{
		Module:                   action.DestContractId.Hex() + "::" + mintFunction,
		SourceCollectionContract: action.SourceCollectionContract,
		CollectionName:           action.CollectionName,
		CollectionDescription:    action.CollectionDescription,
		CollectionUri: fmt.Sprintf("%s/%d/%s",
			strings.TrimSuffix(bridgeDomain, "/"), uint16(action.SourceChainId), contractString(action.SourceCollectionContract)),
		TokenName:        fmt.Sprintf("%s %s", meta.Name, action.TokenId),
		TokenDescription: meta.Description,
		TokenImage:       meta.Image,
		TokenId:          tokenId,
		Receiver:         action.Receiver,
	}, nil
}

// contractString prints evm addresses in their 20 byte form
func contractString(h domain.Hash32) string {
	if addr, err := h.EvmAddress(); err == nil {
		return strings.ToLower(addr.Hex())
	}
	return h.Hex()
}

func (e *executor) MintToken(ctx bCtx.Ctx, action *domain.MintAction, meta *domain.Metadata) (*domain.TxConfirmation, error) {
	defer met.BumpTime("mint.time").End()

	call, err := BuildMintCall(e.bridgeDomain, action, meta)
	if err != nil {
		met.BumpSum("mint", 1, "result", "bad_token_id")
		ctx.WithField("err", err).Error("BuildMintCall failed")
		return nil, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = bCtx.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	ctx = bCtx.WithFields(ctx, log.Fields{
		"function":   call.Module,
		"collection": call.SourceCollectionContract.Hex(),
		"tokenId":    call.TokenId,
		"receiver":   call.Receiver.Hex(),
	})

	payload := &EntryFunctionPayload{
		Type:          "entry_function_payload",
		Function:      call.Module,
		TypeArguments: []string{},
		Arguments: []interface{}{
			contractString(call.SourceCollectionContract),
			call.CollectionName,
			call.CollectionDescription,
			call.CollectionUri,
			call.TokenName,
			call.TokenDescription,
			call.TokenImage,
			strconv.FormatUint(call.TokenId, 10),
			call.Receiver.Hex(),
		},
	}

	e.sendMu.Lock()
	defer e.sendMu.Unlock()

	account, err := e.client.Account(ctx, e.signer.Address())
	if err != nil {
		return nil, e.fail(ctx, "client.Account failed", err)
	}

	gas, err := e.client.EstimateGasPrice(ctx)
	if err != nil {
		return nil, e.fail(ctx, "client.EstimateGasPrice failed", err)
	}

	txn := TransactionRequest{
		Sender:                  e.signer.Address(),
		SequenceNumber:          account.SequenceNumber,
		MaxGasAmount:            e.maxGasAmount,
		GasUnitPrice:            gas.GasEstimate,
		ExpirationTimestampSecs: uint64(e.now().Add(e.expiration).Unix()),
		Payload:                 payload,
	}

	msg, err := e.client.EncodeSubmission(ctx, &txn)
	if err != nil {
		return nil, e.fail(ctx, "client.EncodeSubmission failed", err)
	}

	pending, err := e.client.SubmitTransaction(ctx, &SignedTransactionRequest{
		TransactionRequest: txn,
		Signature:          e.signer.Sign(msg),
	})
	if err != nil {
		return nil, e.fail(ctx, "client.SubmitTransaction failed", err)
	}

	met.BumpSum("mint", 1, "result", "ok")
	ctx.WithFields(log.Fields{
		"txHash":       pending.Hash,
		"sequence":     txn.SequenceNumber,
		"gasUnitPrice": txn.GasUnitPrice,
	}).Info("mint submitted")

	return &domain.TxConfirmation{
		Family: domain.ChainFamilyMove,
		TxHash: pending.Hash,
	}, nil
}

func (e *executor) fail(ctx bCtx.Ctx, msg string, err error) error {
	met.BumpSum("mint", 1, "result", "failed")
	ctx.WithField("err", err).Error(msg)

	kind := domain.ExecSubmitFailed
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		kind = domain.ExecTimeout
	}
	return &domain.ExecError{Kind: kind, Cause: xerrors.Errorf("%s: %w", msg, err)}
}
