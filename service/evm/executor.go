package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"

	"github.com/x-xyz/pixel-relayer/base/abi"
	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	bEth "github.com/x-xyz/pixel-relayer/base/ethereum"
	"github.com/x-xyz/pixel-relayer/base/log"
	"github.com/x-xyz/pixel-relayer/base/metrics"
	"github.com/x-xyz/pixel-relayer/domain"
)

const DefaultGasMultiplier = 1.2

var metOnce sync.Once
var met metrics.Service

var gwei = decimal.New(1, 9)

type ExecutorCfg struct {
	Client     domain.EvmClient
	PrivateKey *ecdsa.PrivateKey
	// NetworkId is the EVM chain id used for signing, read from the node when nil
	NetworkId *big.Int
	// GasMultiplier scales the estimated gas limit, DefaultGasMultiplier when <= 0
	GasMultiplier float64
	// MaxGasPriceGwei caps the suggested gas price, no cap when zero
	MaxGasPriceGwei decimal.Decimal
	Timeout         time.Duration
}

type executor struct {
	client        domain.EvmClient
	key           *ecdsa.PrivateKey
	from          common.Address
	signer        types.Signer
	gasMultiplier decimal.Decimal
	maxGasPrice   *big.Int
	timeout       time.Duration

	// nonce fetch and send of one key must not interleave
	sendMu sync.Mutex
}

func NewExecutor(ctx bCtx.Ctx, cfg *ExecutorCfg) (domain.EvmExecutor, error) {
	metOnce.Do(func() {
		met = metrics.New("evm")
	})

	if cfg.Client == nil || cfg.PrivateKey == nil {
		return nil, xerrors.Errorf("evm executor needs a client and a key: %w", domain.ErrBadParamInput)
	}

	networkId := cfg.NetworkId
	if networkId == nil {
		id, err := cfg.Client.ChainID(ctx)
		if err != nil {
			ctx.WithField("err", err).Error("client.ChainID failed")
			return nil, xerrors.Errorf("failed to read chain id: %w", err)
		}
		networkId = id
	}

	multiplier := cfg.GasMultiplier
	if multiplier <= 0 {
		multiplier = DefaultGasMultiplier
	}

	var maxGasPrice *big.Int
	if cfg.MaxGasPriceGwei.IsPositive() {
		maxGasPrice = GweiToWei(cfg.MaxGasPriceGwei)
	}

	e := &executor{
		client:        cfg.Client,
		key:           cfg.PrivateKey,
		from:          bEth.KeyAddress(cfg.PrivateKey),
		signer:        types.LatestSignerForChainID(networkId),
		gasMultiplier: decimal.NewFromFloat(multiplier),
		maxGasPrice:   maxGasPrice,
		timeout:       cfg.Timeout,
	}
	ctx.WithFields(log.Fields{
		"from":      e.from.Hex(),
		"networkId": networkId.String(),
	}).Info("evm executor ready")
	return e, nil
}

func GweiToWei(v decimal.Decimal) *big.Int {
	return v.Mul(gwei).Truncate(0).BigInt()
}

func (e *executor) Revive(ctx bCtx.Ctx, action *domain.ReviveAction) (*domain.TxConfirmation, error) {
	defer met.BumpTime("revive.time").End()

	dest, err := action.DestContractId.EvmAddress()
	if err != nil {
		return nil, e.fail(ctx, "bad dest contract", err)
	}
	token, err := action.TokenContract.EvmAddress()
	if err != nil {
		return nil, e.fail(ctx, "bad token contract", err)
	}
	receiver, err := action.Receiver.EvmAddress()
	if err != nil {
		return nil, e.fail(ctx, "bad receiver", err)
	}

	data, err := abi.PixelABI.Pack("revive", token, new(big.Int).SetUint64(uint64(action.TokenId)), receiver)
	if err != nil {
		return nil, e.fail(ctx, "failed to pack revive", err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = bCtx.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	ctx = bCtx.WithFields(ctx, log.Fields{
		"dest":     dest.Hex(),
		"token":    token.Hex(),
		"tokenId":  action.TokenId,
		"receiver": receiver.Hex(),
	})

	e.sendMu.Lock()
	defer e.sendMu.Unlock()

	gas, err := e.client.EstimateGas(ctx, ethereum.CallMsg{
		From: e.from,
		To:   &dest,
		Data: data,
	})
	if err != nil {
		return nil, e.fail(ctx, "client.EstimateGas failed", err)
	}

	gasPrice, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, e.fail(ctx, "client.SuggestGasPrice failed", err)
	}
	if e.maxGasPrice != nil && gasPrice.Cmp(e.maxGasPrice) > 0 {
		ctx.WithFields(log.Fields{
			"suggested": gasPrice.String(),
			"cap":       e.maxGasPrice.String(),
		}).Warn("gas price capped")
		gasPrice = new(big.Int).Set(e.maxGasPrice)
	}

	nonce, err := e.client.PendingNonceAt(ctx, e.from)
	if err != nil {
		return nil, e.fail(ctx, "client.PendingNonceAt failed", err)
	}

	gasLimit := decimal.NewFromInt(int64(gas)).Mul(e.gasMultiplier).Ceil().IntPart()
	tx, err := types.SignTx(types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      uint64(gasLimit),
		To:       &dest,
		Data:     data,
	}), e.signer, e.key)
	if err != nil {
		return nil, e.fail(ctx, "failed to sign tx", err)
	}

	if err := e.client.SendTransaction(ctx, tx); err != nil {
		return nil, e.fail(ctx, "client.SendTransaction failed", err)
	}

	met.BumpSum("revive", 1, "result", "ok")
	ctx.WithFields(log.Fields{
		"txHash":   tx.Hash().Hex(),
		"nonce":    nonce,
		"gas":      gasLimit,
		"gasPrice": gasPrice.String(),
	}).Info("revive submitted")

	return &domain.TxConfirmation{
		Family: domain.ChainFamilyEvm,
		TxHash: tx.Hash().Hex(),
	}, nil
}

func (e *executor) fail(ctx bCtx.Ctx, msg string, err error) error {
	met.BumpSum("revive", 1, "result", "failed")
	ctx.WithField("err", err).Error(msg)

	kind := domain.ExecSubmitFailed
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		kind = domain.ExecTimeout
	}
	return &domain.ExecError{Kind: kind, Cause: xerrors.Errorf("%s: %w", msg, err)}
}
