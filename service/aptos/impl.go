package aptos

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/log"
)

func NewClient(cfg *ClientCfg) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &client{
		client:  cfg.HttpClient,
		api:     strings.TrimSuffix(strings.TrimSuffix(cfg.NodeUrl, "/"), "/v1") + "/v1",
		timeout: timeout,
	}
}

type client struct {
	client  http.Client
	api     string
	timeout time.Duration
}

func (c *client) LedgerInfo(ctx bCtx.Ctx) (*LedgerInfo, error) {
	res := &LedgerInfo{}
	if err := c.do(ctx, http.MethodGet, "", nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *client) Account(ctx bCtx.Ctx, address string) (*AccountInfo, error) {
	res := &AccountInfo{}
	if err := c.do(ctx, http.MethodGet, "/accounts/"+address, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *client) EstimateGasPrice(ctx bCtx.Ctx) (*GasEstimation, error) {
	res := &GasEstimation{}
	if err := c.do(ctx, http.MethodGet, "/estimate_gas_price", nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *client) EncodeSubmission(ctx bCtx.Ctx, txn *TransactionRequest) ([]byte, error) {
	var encoded string
	if err := c.do(ctx, http.MethodPost, "/transactions/encode_submission", txn, &encoded); err != nil {
		return nil, err
	}
	msg, err := hexutil.Decode(encoded)
	if err != nil {
		ctx.WithFields(log.Fields{
			"encoded": encoded,
			"err":     err,
		}).Error("hexutil.Decode failed")
		return nil, xerrors.Errorf("bad encode_submission result: %w", err)
	}
	return msg, nil
}

func (c *client) SubmitTransaction(ctx bCtx.Ctx, txn *SignedTransactionRequest) (*PendingTransaction, error) {
	res := &PendingTransaction{}
	if err := c.do(ctx, http.MethodPost, "/transactions", txn, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *client) do(ctx bCtx.Ctx, method, path string, body, result interface{}) error {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	url := c.api + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Warn("failed with request")
		return err
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("failed to read body")
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &ApiError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil {
			apiErr.Message = string(data)
		}
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
			"message":    apiErr.Message,
		}).Error("aptos node error")
		return apiErr
	}

	if err := json.Unmarshal(data, result); err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("json.Unmarshal failed")
		return err
	}
	return nil
}
