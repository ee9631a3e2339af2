package domain

import (
	"github.com/x-xyz/pixel-relayer/base/ctx"
)

// MessageHandler consumes attested messages. It may be called more than once for the same message.
type MessageHandler interface {
	OnMessage(ctx.Ctx, *AttestedMessage) error
}

// AttestationSource delivers messages at least once. A message whose dispatch failed non-terminally
// may be delivered again.
type AttestationSource interface {
	Start(ctx.Ctx, MessageHandler) error
	Wait()
}
