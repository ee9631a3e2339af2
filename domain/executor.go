package domain

import (
	"github.com/x-xyz/pixel-relayer/base/ctx"
)

// TxConfirmation is returned once the destination node accepted the transaction.
type TxConfirmation struct {
	Family ChainFamily `json:"family"`
	TxHash string      `json:"txHash"`
}

type EvmExecutor interface {
	Revive(ctx.Ctx, *ReviveAction) (*TxConfirmation, error)
}

type MoveExecutor interface {
	MintToken(ctx.Ctx, *MintAction, *Metadata) (*TxConfirmation, error)
}
