// Package vaa parses the v1 wormhole VAA envelope. Guardian signatures are carried but not verified,
// the attestation source is trusted to hand over verified VAAs.
package vaa

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/pixel-relayer/domain"
)

const (
	SupportedVersion = 1

	signatureSize = 1 + 65
	headerSize    = 1 + 4 + 1
	bodySize      = 4 + 4 + 2 + 32 + 8 + 1
)

var (
	ErrInvalidVAA = xerrors.New("invalid vaa")
	ErrUnsigned   = xerrors.New("vaa carries no usable guardian signatures")
)

type Signature struct {
	Index     uint8
	Signature [65]byte
}

type VAA struct {
	Version          uint8
	GuardianSetIndex uint32
	Signatures       []Signature
	Timestamp        time.Time
	Nonce            uint32
	EmitterChain     domain.ChainId
	EmitterAddress   domain.Hash32
	Sequence         uint64
	ConsistencyLevel uint8
	Payload          []byte
}

func Parse(data []byte) (*VAA, error) {
	if len(data) < headerSize {
		return nil, xerrors.Errorf("%d bytes: %w", len(data), ErrInvalidVAA)
	}

	v := &VAA{
		Version:          data[0],
		GuardianSetIndex: binary.BigEndian.Uint32(data[1:5]),
	}
	if v.Version != SupportedVersion {
		return nil, xerrors.Errorf("version %d: %w", v.Version, ErrInvalidVAA)
	}

	numSigs := int(data[5])
	offset := headerSize
	if len(data) < offset+numSigs*signatureSize+bodySize {
		return nil, xerrors.Errorf("%d bytes for %d signatures: %w", len(data), numSigs, ErrInvalidVAA)
	}

	v.Signatures = make([]Signature, numSigs)
	for i := 0; i < numSigs; i++ {
		v.Signatures[i].Index = data[offset]
		copy(v.Signatures[i].Signature[:], data[offset+1:offset+signatureSize])
		offset += signatureSize
	}

	v.Timestamp = time.Unix(int64(binary.BigEndian.Uint32(data[offset:offset+4])), 0).UTC()
	v.Nonce = binary.BigEndian.Uint32(data[offset+4 : offset+8])
	v.EmitterChain = domain.ChainId(binary.BigEndian.Uint16(data[offset+8 : offset+10]))
	copy(v.EmitterAddress[:], data[offset+10:offset+42])
	v.Sequence = binary.BigEndian.Uint64(data[offset+42 : offset+50])
	v.ConsistencyLevel = data[offset+50]
	v.Payload = append([]byte{}, data[offset+bodySize:]...)
	return v, nil
}

// ParseString accepts hex (with or without 0x) or standard base64.
func ParseString(s string) (*VAA, error) {
	s = strings.TrimSpace(s)
	if raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x")); err == nil {
		return Parse(raw)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, xerrors.Errorf("neither hex nor base64: %w", ErrInvalidVAA)
	}
	return Parse(raw)
}

// CheckSigned requires at least one signature with strictly ascending guardian indexes.
// It does not verify the signatures against a guardian set.
func (v *VAA) CheckSigned() error {
	if len(v.Signatures) == 0 {
		return xerrors.Errorf("0 signatures: %w", ErrUnsigned)
	}
	for i := 1; i < len(v.Signatures); i++ {
		if v.Signatures[i].Index <= v.Signatures[i-1].Index {
			return xerrors.Errorf("guardian index %d after %d: %w", v.Signatures[i].Index, v.Signatures[i-1].Index, ErrUnsigned)
		}
	}
	return nil
}

func (v *VAA) Message(txHash string) *domain.AttestedMessage {
	return &domain.AttestedMessage{
		SourceChainId:  v.EmitterChain,
		Sequence:       v.Sequence,
		EmitterAddress: v.EmitterAddress,
		Payload:        v.Payload,
		SourceTxHash:   txHash,
	}
}

// Marshal writes the envelope back, used by tools and tests.
func (v *VAA) Marshal() []byte {
	out := make([]byte, 0, headerSize+len(v.Signatures)*signatureSize+bodySize+len(v.Payload))
	out = append(out, v.Version)
	out = appendUint32(out, v.GuardianSetIndex)
	out = append(out, uint8(len(v.Signatures)))
	for _, sig := range v.Signatures {
		out = append(out, sig.Index)
		out = append(out, sig.Signature[:]...)
	}
	out = appendUint32(out, uint32(v.Timestamp.Unix()))
	out = appendUint32(out, v.Nonce)
	out = append(out, byte(v.EmitterChain>>8), byte(v.EmitterChain))
	out = append(out, v.EmitterAddress[:]...)
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], v.Sequence)
	out = append(out, seq[:]...)
	out = append(out, v.ConsistencyLevel)
	return append(out, v.Payload...)
}

func appendUint32(b []byte, v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}
