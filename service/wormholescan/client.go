package wormholescan

import (
	"errors"
	"net/http"
	"time"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/vaa"
	"github.com/x-xyz/pixel-relayer/domain"
)

var (
	ErrStatusCodeNotOk = errors.New("http.status != 200")
)

// Client reads signed vaas from the wormholescan api
type Client interface {
	// GetVAA returns domain.ErrNotFound when the vaa is not signed yet
	GetVAA(ctx bCtx.Ctx, chainId domain.ChainId, emitter domain.Hash32, sequence uint64) (*SignedVAA, error)
}

type ClientCfg struct {
	HttpClient http.Client
	// Url is the api root, like https://api.wormholescan.io
	Url     string
	Timeout time.Duration
}

type SignedVAA struct {
	VAA    *vaa.VAA
	TxHash string
}

type vaaDoc struct {
	Vaa    string `json:"vaa"`
	TxHash string `json:"txHash"`
}

type vaaResp struct {
	Data *vaaDoc `json:"data"`
}
