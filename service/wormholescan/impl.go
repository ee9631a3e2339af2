package wormholescan

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/log"
	"github.com/x-xyz/pixel-relayer/base/vaa"
	"github.com/x-xyz/pixel-relayer/domain"
)

func NewClient(cfg *ClientCfg) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &client{
		client:  cfg.HttpClient,
		url:     strings.TrimSuffix(cfg.Url, "/"),
		timeout: timeout,
	}
}

type client struct {
	client  http.Client
	url     string
	timeout time.Duration
}

func (c *client) GetVAA(ctx bCtx.Ctx, chainId domain.ChainId, emitter domain.Hash32, sequence uint64) (*SignedVAA, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/v1/vaas/%d/%s/%d", c.url, chainId, strings.TrimPrefix(emitter.Hex(), "0x"), sequence)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Warn("failed with request")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Error("status code not ok")
		return nil, ErrStatusCodeNotOk
	}

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		ctx.WithField("err", err).Error("failed to read body")
		return nil, err
	}

	res := vaaResp{}
	if err := json.Unmarshal(data, &res); err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("json.Unmarshal failed")
		return nil, err
	}
	if res.Data == nil || res.Data.Vaa == "" {
		return nil, domain.ErrNotFound
	}

	v, err := vaa.ParseString(res.Data.Vaa)
	if err != nil {
		ctx.WithField("err", err).Error("vaa.ParseString failed")
		return nil, err
	}
	if v.EmitterChain != chainId || v.EmitterAddress != emitter || v.Sequence != sequence {
		return nil, xerrors.Errorf("vaa %d/%s/%d does not match the request: %w",
			v.EmitterChain, v.EmitterAddress.Hex(), v.Sequence, vaa.ErrInvalidVAA)
	}
	return &SignedVAA{VAA: v, TxHash: res.Data.TxHash}, nil
}
