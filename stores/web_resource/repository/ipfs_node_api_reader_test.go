package repository

import (
	"fmt"
	"os"
	"testing"
	"time"

	ipfsapi "github.com/ipfs/go-ipfs-api"
	"github.com/stretchr/testify/require"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
)

func Test_ipfsNodeApiReaderRepo_Get(t *testing.T) {
	// local ipfs-node required
	url := os.Getenv("IPFS_API")
	if testing.Short() || url == "" {
		t.Skip("IPFS_API not set")
	}
	req := require.New(t)
	expectedStr := fmt.Sprintf("%s\n", `{"image":"ipfs://QmRRPWG96cmgTn2qSzjwr2qvfNEuhunv6FNeMFGa9bx6mQ","attributes":[{"trait_type":"Earring","value":"Silver Hoop"},{"trait_type":"Background","value":"Orange"},{"trait_type":"Fur","value":"Robot"},{"trait_type":"Clothes","value":"Striped Tee"},{"trait_type":"Mouth","value":"Discomfort"},{"trait_type":"Eyes","value":"X Eyes"}]}`)
	expected := []byte(expectedStr)

	ctx := bCtx.Background()
	s := ipfsapi.NewShell(url)
	timeout := 15 * time.Second
	r := NewIpfsNodeApiReaderRepo(s, timeout)
	b, err := r.Get(ctx, "QmeSjSinHpPnmXmspMjwiXyN6zS4E9zccariGR3jxcaWtq/0")
	req.NoError(err)
	req.Equal(expected, b)
}
