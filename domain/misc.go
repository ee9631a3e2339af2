package domain

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"
)

// ChainId is the bridge-level (wormhole) chain id, not the EVM network id.
type ChainId uint16

const (
	ChainIdEthereum ChainId = 2
	ChainIdAptos    ChainId = 22
)

func (c ChainId) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// Hash32 is a 32 byte wire value: contract ids, addresses and emitters are all carried left-padded to 32 bytes.
type Hash32 [32]byte

var EmptyHash32 Hash32

func (h Hash32) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash32) String() string {
	return h.Hex()
}

func (h Hash32) IsZero() bool {
	return h == EmptyHash32
}

// EvmAddress takes the rightmost 20 bytes; the leading 12 bytes must be zero.
func (h Hash32) EvmAddress() (common.Address, error) {
	for _, b := range h[:12] {
		if b != 0 {
			return common.Address{}, xerrors.Errorf("%s: %w", h.Hex(), ErrInvalidAddress)
		}
	}
	return common.BytesToAddress(h[12:]), nil
}

func (h Hash32) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

func (h *Hash32) UnmarshalText(text []byte) error {
	parsed, err := HexToHash32(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// HexToHash32 parses a 0x-prefixed or bare hex string of at most 32 bytes, left padding shorter values.
func HexToHash32(s string) (Hash32, error) {
	var h Hash32
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, xerrors.Errorf("%q: %w", s, ErrInvalidAddress)
	}
	if len(b) > len(h) {
		return h, xerrors.Errorf("%d bytes: %w", len(b), ErrInvalidAddress)
	}
	copy(h[len(h)-len(b):], b)
	return h, nil
}

func MustHexToHash32(s string) Hash32 {
	h, err := HexToHash32(s)
	if err != nil {
		panic(err)
	}
	return h
}

func Hash32FromEvmAddress(a common.Address) Hash32 {
	var h Hash32
	copy(h[12:], a.Bytes())
	return h
}
