package goroutine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecoverableGo(t *testing.T) {
	res := []string{}

	<-RecoverableGo(
		func() {
			res = append(res, "run task")
			panic("panic")
		},
		WithName("lane"),
		WithBeforeStart(func() {
			res = append(res, "before start")
		}),
		WithAfterEnded(func() {
			res = append(res, "after ended")
		}),
		WithAfterRecovered(func(p interface{}, stack []byte) {
			res = append(res, "after recovered")
			res = append(res, p.(string))
		}),
	)

	assert.Equal(t, []string{
		"before start",
		"run task",
		"after ended",
		"after recovered",
		"panic",
	}, res)
}

func TestRecoverableGo_noPanic(t *testing.T) {
	ch := RecoverableGo(func() {})
	evt, ok := <-ch
	assert.False(t, ok)
	assert.Nil(t, evt)
}

func TestProtect(t *testing.T) {
	evt := Protect(func() { panic("boom") })
	assert.NotNil(t, evt)
	assert.Equal(t, "boom", evt.Panic)
	assert.NotEmpty(t, evt.Stack)

	assert.Nil(t, Protect(func() {}))
}
