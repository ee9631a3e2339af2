package domain

import (
	"fmt"
)

// AttestedMessage is a cross-chain message whose attestation was already verified by the delivery side.
type AttestedMessage struct {
	SourceChainId  ChainId `json:"sourceChainId"`
	Sequence       uint64  `json:"sequence"`
	EmitterAddress Hash32  `json:"emitterAddress"`
	Payload        []byte  `json:"payload"`
	SourceTxHash   string  `json:"sourceTxHash,omitempty"`
}

type MessageId struct {
	ChainId  ChainId
	Sequence uint64
}

func (id MessageId) String() string {
	return fmt.Sprintf("%d/%d", id.ChainId, id.Sequence)
}

func (m *AttestedMessage) Id() MessageId {
	return MessageId{ChainId: m.SourceChainId, Sequence: m.Sequence}
}
