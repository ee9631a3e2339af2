package repository

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/domain"
)

type ipfsGatewayReaderRepo struct {
	client     http.Client
	gateway    string
	ctxTimeout time.Duration
}

// NewIpfsGatewayReaderRepo reads cids (with optional path) through an http gateway like https://ipfs.io/ipfs
func NewIpfsGatewayReaderRepo(c http.Client, gateway string, timeout time.Duration) domain.WebResourceReaderRepository {
	return &ipfsGatewayReaderRepo{client: c, gateway: strings.TrimSuffix(gateway, "/"), ctxTimeout: timeout}
}

func (r *ipfsGatewayReaderRepo) Get(c bCtx.Ctx, cid string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", r.gateway, strings.TrimPrefix(cid, "ipfs/"))
	return httpGet(bCtx.WithValue(c, "cid", cid), r.client, r.ctxTimeout, url, nil)
}
