package domain

import (
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/x-xyz/pixel-relayer/base/ctx"
)

// JwtCustomClaims authorizes a submitter of attestations
type JwtCustomClaims struct {
	Submitter string `json:"submitter"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	SignToken(ctx ctx.Ctx, submitter string, ttl time.Duration) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (submitter string, err error)
}
