package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/domain"
)

func TestOpen(t *testing.T) {
	repo, err := Open(bCtx.Background(), &DriverCfg{Driver: DriverMemory})
	require.NoError(t, err)
	_, err = repo.Get(bCtx.Background(), domain.ChainIdAptos)
	require.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, repo.Close())

	_, err = Open(bCtx.Background(), &DriverCfg{Driver: "etcd"})
	require.True(t, errors.Is(err, domain.ErrBadParamInput))
}
