package domain

import (
	"github.com/x-xyz/pixel-relayer/base/ctx"
)

type DispatchState string

const (
	DispatchStateReceived        DispatchState = "received"
	DispatchStateDecoded         DispatchState = "decoded"
	DispatchStateMetadataPending DispatchState = "metadata_pending"
	DispatchStateSubmitted       DispatchState = "submitted"
	DispatchStateConfirmed       DispatchState = "confirmed"
	DispatchStateFailed          DispatchState = "failed"
	DispatchStateSkipped         DispatchState = "skipped"
)

// DispatchResult is the final state of one dispatch attempt.
type DispatchResult struct {
	Id           MessageId
	State        DispatchState
	Terminal     bool
	Err          error
	Confirmation *TxConfirmation
	Attempts     int
}

type Dispatcher interface {
	MessageHandler
	Dispatch(ctx.Ctx, *AttestedMessage) *DispatchResult
}

// FailureNotifier is told about messages that will not be retried.
type FailureNotifier interface {
	NotifyFailure(ctx.Ctx, *AttestedMessage, *DispatchResult) error
}
