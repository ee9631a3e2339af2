package aptos

import (
	"crypto/ed25519"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
	"golang.org/x/xerrors"
)

// ed25519 single signer scheme byte of the authentication key
const ed25519Scheme = 0x00

type Signer struct {
	key     ed25519.PrivateKey
	address string
}

// NewSigner accepts a 32 byte seed or a 64 byte private key, hex encoded with optional 0x prefix.
// Keys exported by the aptos cli carry an ed25519-priv- prefix which is stripped too.
func NewSigner(hexKey string) (*Signer, error) {
	s := strings.TrimSpace(hexKey)
	s = strings.TrimPrefix(s, "ed25519-priv-")
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode aptos key: %w", err)
	}

	var key ed25519.PrivateKey
	switch len(raw) {
	case ed25519.SeedSize:
		key = ed25519.NewKeyFromSeed(raw)
	case ed25519.PrivateKeySize:
		key = ed25519.PrivateKey(raw)
	default:
		return nil, xerrors.Errorf("aptos key has %d bytes", len(raw))
	}
	return NewSignerFromKey(key), nil
}

func NewSignerFromKey(key ed25519.PrivateKey) *Signer {
	return &Signer{key: key, address: AccountAddress(key.Public().(ed25519.PublicKey))}
}

// AccountAddress is the authentication key of a fresh single key account
func AccountAddress(pub ed25519.PublicKey) string {
	h := sha3.New256()
	h.Write(pub)
	h.Write([]byte{ed25519Scheme})
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

func (s *Signer) Address() string {
	return s.address
}

func (s *Signer) Sign(msg []byte) *Signature {
	return &Signature{
		Type:      "ed25519_signature",
		PublicKey: "0x" + hex.EncodeToString(s.key.Public().(ed25519.PublicKey)),
		Signature: "0x" + hex.EncodeToString(ed25519.Sign(s.key, msg)),
	}
}
