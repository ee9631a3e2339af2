package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/stores/auth/usecase"
)

func TestSignAndParseToken(t *testing.T) {
	ctx := ctx.Background()
	u := usecase.New("jwt-secret")
	tkn, err := u.SignToken(ctx, "guardian-spy", time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, tkn)
	submitter, err := u.ParseToken(ctx, tkn)
	assert.NoError(t, err)
	assert.Equal(t, "guardian-spy", submitter)
}

func TestParseTokenWrongSecret(t *testing.T) {
	ctx := ctx.Background()
	tkn, err := usecase.New("jwt-secret").SignToken(ctx, "guardian-spy", 0)
	assert.NoError(t, err)

	_, err = usecase.New("other-secret").ParseToken(ctx, tkn)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	ctx := ctx.Background()
	u := usecase.New("jwt-secret")
	tkn, err := u.SignToken(ctx, "guardian-spy", -time.Minute)
	assert.NoError(t, err)

	_, err = u.ParseToken(ctx, tkn)
	assert.Error(t, err)
}
