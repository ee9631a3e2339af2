package ethereum

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/x-xyz/pixel-relayer/base/log"
)

// ThrottledClient bounds the number of concurrent rpc calls made through it
type ThrottledClient struct {
	*ethclient.Client
	tokens chan int
}

func NewTrottledClient(client *ethclient.Client, n int) *ThrottledClient {
	if n <= 0 {
		n = 1
	}
	tokens := make(chan int, n)
	for i := 0; i < n; i++ {
		tokens <- i + 1
	}
	return &ThrottledClient{
		Client: client,
		tokens: tokens,
	}
}

// Dial connects to rpcUrl allowing at most n in-flight calls
func Dial(ctx context.Context, rpcUrl string, n int) (*ThrottledClient, error) {
	client, err := ethclient.DialContext(ctx, rpcUrl)
	if err != nil {
		return nil, err
	}
	return NewTrottledClient(client, n), nil
}

func (c *ThrottledClient) ChainID(ctx context.Context) (*big.Int, error) {
	token := c.before(ctx)
	defer c.after(token)
	return c.Client.ChainID(ctx)
}

func (c *ThrottledClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	token := c.before(ctx)
	defer c.after(token)
	return c.Client.PendingNonceAt(ctx, account)
}

func (c *ThrottledClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	token := c.before(ctx)
	defer c.after(token)
	return c.Client.EstimateGas(ctx, msg)
}

func (c *ThrottledClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	token := c.before(ctx)
	defer c.after(token)
	return c.Client.SuggestGasPrice(ctx)
}

func (c *ThrottledClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	token := c.before(ctx)
	defer c.after(token)
	return c.Client.SendTransaction(ctx, tx)
}

func (c *ThrottledClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	token := c.before(ctx)
	defer c.after(token)
	return c.Client.TransactionReceipt(ctx, hash)
}

func (c *ThrottledClient) before(ctx context.Context) int {
	now := time.Now()
	select {
	case <-ctx.Done():
		log.Log().WithField("wait", time.Since(now)).Debug("throttle ctx done")
		return 0
	case token := <-c.tokens:
		log.Log().WithFields(log.Fields{
			"token": token,
			"len":   len(c.tokens),
			"wait":  time.Since(now),
		}).Debug("throttle")
		return token
	}
}

func (c *ThrottledClient) after(token int) {
	if token != 0 {
		c.tokens <- token
	}
}
