package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/pixel-relayer/domain"
)

func TestFamilyOf(t *testing.T) {
	require.Equal(t, domain.ChainFamilyMove, familyOf(domain.ChainIdAptos))
	require.Equal(t, domain.ChainFamilyEvm, familyOf(domain.ChainIdEthereum))
}

func TestEncodeRevive(t *testing.T) {
	require.NoError(t, encodeRevive([]string{"--dest", "0x01", "--token", "0x02", "--token-id", "7", "--receiver", "0x03"}))
	require.Error(t, encodeRevive([]string{"--dest", "0xzz"}))
}

func TestDecode(t *testing.T) {
	err := decode([]string{"--family", "cosmos", "0x00"})
	require.True(t, errors.Is(err, domain.ErrBadParamInput))

	err = decode([]string{"--family", "move", "0x00"})
	require.True(t, errors.Is(err, domain.ErrMalformedPayload))

	require.Error(t, decode(nil))
}
