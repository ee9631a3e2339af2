package counter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	req := require.New(t)
	c := NewCounter()

	wg := sync.WaitGroup{}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				c.Add("2", 1)
			} else {
				c.Add("22", 2)
			}
		}(i)
	}
	wg.Wait()

	req.Equal(5, c.Count("2"))
	req.Equal(10, c.Count("22"))
	req.Equal(0, c.Count("1"))
	req.Equal(15, c.Total())

	snap := c.Snapshot()
	snap["2"] = 100
	req.Equal(5, c.Count("2"))
}
