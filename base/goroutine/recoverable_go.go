package goroutine

import (
	"runtime/debug"

	"github.com/x-xyz/pixel-relayer/base/log"
)

type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

type RecoverableGoOptions struct {
	name           string
	beforeStart    *func()
	afterEnded     *func()
	afterRecovered *func(panic interface{}, stack []byte)
}

type RecoverableGoOptionsFunc = func(*RecoverableGoOptions) error

func getRecoverableGoOptions(fns ...RecoverableGoOptionsFunc) RecoverableGoOptions {
	opts := RecoverableGoOptions{}
	for _, fn := range fns {
		fn(&opts)
	}
	return opts
}

// WithName tags the panic log of the goroutine
func WithName(name string) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.name = name
		return nil
	}
}

func WithBeforeStart(f func()) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.beforeStart = &f
		return nil
	}
}

func WithAfterEnded(f func()) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.afterEnded = &f
		return nil
	}
}

func WithAfterRecovered(f func(panic interface{}, stack []byte)) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.afterRecovered = &f
		return nil
	}
}

// RecoverableGo runs f in a new goroutine. The returned channel receives the panic event if f panics,
// otherwise it is closed when f returns.
func RecoverableGo(f func(), fns ...RecoverableGoOptionsFunc) chan *PanicEvent {
	opts := getRecoverableGoOptions(fns...)

	panicChan := make(chan *PanicEvent, 1)

	go func() {
		defer func() {
			if opts.afterEnded != nil {
				(*opts.afterEnded)()
			}

			if p := recover(); p != nil {
				stack := debug.Stack()

				log.Log().WithFields(log.Fields{
					"name":  opts.name,
					"err":   p,
					"stack": string(stack),
				}).Error("panic")

				if opts.afterRecovered != nil {
					(*opts.afterRecovered)(p, stack)
				}

				panicChan <- &PanicEvent{p, stack}
			} else {
				close(panicChan)
			}
		}()

		if opts.beforeStart != nil {
			(*opts.beforeStart)()
		}

		f()
	}()

	return panicChan
}

// Protect calls f on the current goroutine and converts a panic into a PanicEvent
func Protect(f func(), fns ...RecoverableGoOptionsFunc) (evt *PanicEvent) {
	opts := getRecoverableGoOptions(fns...)
	defer func() {
		if p := recover(); p != nil {
			stack := debug.Stack()
			log.Log().WithFields(log.Fields{
				"name":  opts.name,
				"err":   p,
				"stack": string(stack),
			}).Error("panic")
			if opts.afterRecovered != nil {
				(*opts.afterRecovered)(p, stack)
			}
			evt = &PanicEvent{p, stack}
		}
	}()
	f()
	return nil
}
