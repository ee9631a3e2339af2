package domain

import (
	"github.com/x-xyz/pixel-relayer/base/ctx"
)

// WebResourceReaderRepository reads one resource. Failures are *ResolveError with Kind ResolveFetchFailed.
type WebResourceReaderRepository interface {
	Get(ctx.Ctx, string) ([]byte, error)
}
