package ctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/pixel-relayer/base/log"
)

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestWithValues() {
	ctx := WithValues(Background(), map[string]interface{}{
		"chainId":  22,
		"sequence": uint64(7),
	})
	ts.Equal(22, ctx.Value("chainId"))
	ts.Equal(uint64(7), ctx.Value("sequence"))
}

func (ts *testsuite) TestWithFieldsKeepsContext() {
	parent, cancel := WithCancel(Background())
	ctx := WithFields(parent, log.Fields{"chainId": 2})
	cancel()
	<-ctx.Done()
	ts.Equal(context.Canceled, ctx.Err())
}

func (ts *testsuite) TestTimeout() {
	ctx, cancel := WithTimeout(Background(), 10*time.Millisecond)
	defer cancel()
	select {
	case <-ctx.Done():
	case <-time.After(100 * time.Millisecond):
		ts.Fail("timeout not fired")
	}
	ts.Equal("context deadline exceeded", ctx.Err().Error())
}

func (ts *testsuite) TestDetach() {
	parent, cancel := WithCancel(Background())
	cancel()
	ts.Equal(context.Canceled, parent.Err())

	detached := Detach(parent)
	ts.NoError(detached.Err())
	_, hasDeadline := detached.Deadline()
	ts.False(hasDeadline)
}
