// Package payload converts bridge message payloads to and from action descriptors.
//
// A payload emitted on the Move chain is a fixed 97 byte record
//
//	destContractId(32) | tokenContract(32) | tokenId(1) | receiver(32)
//
// and decodes to a revive on the EVM chain. A payload emitted on the EVM chain is the abi encoded tuple
//
//	(bytes32 destContractId, bytes32 sourceCollectionContract, uint256 tokenId,
//	 string collectionName, string collectionDescription, string tokenUri, bytes32 receiver)
//
// and decodes to a mint on the Move chain.
package payload

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"golang.org/x/xerrors"

	"github.com/x-xyz/pixel-relayer/base/goroutine"
	"github.com/x-xyz/pixel-relayer/domain"
)

const (
	MovePayloadSize = 32 + 32 + 1 + 32

	// minimal abi encoding: 7 head words plus one length word per string
	minEvmPayloadSize = 32 * (7 + 3)
)

var (
	bytes32Type, _ = abi.NewType("bytes32", "", nil)
	uint256Type, _ = abi.NewType("uint256", "", nil)
	stringType, _  = abi.NewType("string", "", nil)

	mintArguments = abi.Arguments{
		{Name: "destContractId", Type: bytes32Type},
		{Name: "sourceCollectionContract", Type: bytes32Type},
		{Name: "tokenId", Type: uint256Type},
		{Name: "collectionName", Type: stringType},
		{Name: "collectionDescription", Type: stringType},
		{Name: "tokenUri", Type: stringType},
		{Name: "receiver", Type: bytes32Type},
	}
)

func malformed(format string, args ...interface{}) error {
	return &domain.DecodeError{Reason: fmt.Sprintf(format, args...)}
}

// Decode parses a payload emitted on a chain of the given family. It never returns a partial action.
func Decode(family domain.ChainFamily, payload []byte) (domain.ActionDescriptor, error) {
	if len(payload) == 0 {
		return nil, malformed("no payload was sent")
	}

	switch family {
	case domain.ChainFamilyMove:
		return decodeRevive(payload)
	case domain.ChainFamilyEvm:
		return decodeMint(payload)
	}
	return nil, malformed("unsupported source family %q", family)
}

func decodeRevive(payload []byte) (*domain.ReviveAction, error) {
	if len(payload) != MovePayloadSize {
		return nil, malformed("revive payload has %d bytes, want %d", len(payload), MovePayloadSize)
	}

	a := &domain.ReviveAction{}
	copy(a.DestContractId[:], payload[0:32])
	copy(a.TokenContract[:], payload[32:64])
	a.TokenId = payload[64]
	copy(a.Receiver[:], payload[65:97])
	return a, nil
}

func decodeMint(payload []byte) (action *domain.MintAction, err error) {
	if len(payload) < minEvmPayloadSize || len(payload)%32 != 0 {
		return nil, malformed("mint payload has %d bytes", len(payload))
	}

	var values []interface{}
	if evt := goroutine.Protect(func() {
		values, err = mintArguments.Unpack(payload)
	}, goroutine.WithName("payload.decodeMint")); evt != nil {
		return nil, malformed("unpack panicked: %v", evt.Panic)
	}
	if err != nil {
		return nil, malformed("unpack: %v", err)
	}
	if len(values) != len(mintArguments) {
		return nil, malformed("unpack returned %d fields", len(values))
	}

	dest, ok0 := values[0].([32]byte)
	collection, ok1 := values[1].([32]byte)
	tokenId, ok2 := values[2].(*big.Int)
	name, ok3 := values[3].(string)
	desc, ok4 := values[4].(string)
	uri, ok5 := values[5].(string)
	receiver, ok6 := values[6].([32]byte)
	if !(ok0 && ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return nil, malformed("unexpected field types")
	}

	return &domain.MintAction{
		DestContractId:           dest,
		SourceCollectionContract: collection,
		TokenId:                  tokenId.String(),
		CollectionName:           name,
		CollectionDescription:    desc,
		TokenUri:                 uri,
		Receiver:                 receiver,
	}, nil
}

func EncodeRevive(a *domain.ReviveAction) []byte {
	out := make([]byte, 0, MovePayloadSize)
	out = append(out, a.DestContractId[:]...)
	out = append(out, a.TokenContract[:]...)
	out = append(out, a.TokenId)
	out = append(out, a.Receiver[:]...)
	return out
}

func EncodeMint(a *domain.MintAction) ([]byte, error) {
	tokenId, ok := new(big.Int).SetString(a.TokenId, 10)
	if !ok || tokenId.Sign() < 0 {
		return nil, xerrors.Errorf("token id %q: %w", a.TokenId, domain.ErrBadTokenId)
	}

	return mintArguments.Pack(
		[32]byte(a.DestContractId),
		[32]byte(a.SourceCollectionContract),
		tokenId,
		a.CollectionName,
		a.CollectionDescription,
		a.TokenUri,
		[32]byte(a.Receiver),
	)
}

// Encode dispatches on the action type.
func Encode(a domain.ActionDescriptor) ([]byte, error) {
	switch action := a.(type) {
	case *domain.ReviveAction:
		return EncodeRevive(action), nil
	case *domain.MintAction:
		return EncodeMint(action)
	}
	return nil, xerrors.Errorf("action %T: %w", a, domain.ErrBadParamInput)
}
