/*
Package metrics wraps datadog-go to faciliate metric recording.
The relayer reports under the "relay", "evm", "aptos", "metadata", "wormholescan" and "watermark" prefixes.
Following are naming convention of metric:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
- Warning: *.warn
*/
package metrics

import (
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/x-xyz/pixel-relayer/base/env"
)

const (
	// TagValueNA is used for tags whose values are not available.
	TagValueNA = "n/a"
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics. Tags are key, value pairs.
type Service interface {
	BumpSum(key string, val float64, tags ...string)
	BumpGauge(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// Option is functional parameter for metrics option
type Option func(*opt)

type opt struct {
	// default: true
	withPodName bool
}

// WithoutPodName drops the pod tag, pod names produce a lot of custom metrics
func WithoutPodName() Option {
	return func(o *opt) {
		o.withPodName = false
	}
}

// New creates a metric client with package name as prefix
func New(pkgName string, options ...Option) Service {
	o := opt{
		withPodName: true,
	}
	for _, option := range options {
		option(&o)
	}

	// an empty host tag removes the tags datadog associates with the host
	ddTags := []string{"host:", "env:" + envName(), "app:" + appName()}
	if o.withPodName {
		ddTags = append(ddTags, "pod:"+env.PodName())
	}

	return &Metrics{
		pkgName: pkgName,
		datadog: DDMetrics{
			ddTags: ddTags,
		},
	}
}

type Metrics struct {
	pkgName string
	datadog DDMetrics
}

func (mt *Metrics) disabled() bool {
	return viper.GetBool("metrics.disabled")
}

// sampleRate returns the firing rate of the pkg, metrics.sampleRate.<pkg> or 1
func (mt *Metrics) sampleRate() float64 {
	key := "metrics.sampleRate." + mt.pkgName
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return 1.0
}

func (mt *Metrics) name(key string) string {
	return mt.pkgName + "." + key
}

// bumpSumPanic counts bumps that panicked, usually an odd tag list
func (mt *Metrics) bumpSumPanic(typ, key string, tags []string) {
	mt.datadog.BumpSum(typ+".panic", 1, 1, "tag", mt.name(key)+"#"+strings.Join(tags, "#"))
}

// bumpLatency records each bump's latency with only 0.0001 sampling rate
func (mt *Metrics) bumpLatency(typ string, start time.Time, sampleRate float64) {
	if rand.Float64() < float64(0.0001)*sampleRate {
		mt.datadog.BumpHistogram("bump.latency", float64(time.Since(start)/time.Millisecond), 1, "name", mt.pkgName, "type", typ)
	}
}

func (mt *Metrics) bump(typ, key string, tags []string, push func(name string, rate float64)) {
	if mt.disabled() {
		return
	}
	defer func() {
		if err := recover(); err != nil {
			mt.bumpSumPanic(typ, key, tags)
		}
	}()

	rate := mt.sampleRate()
	defer mt.bumpLatency(typ, time.Now(), rate)
	push(mt.name(key), rate)
}

func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	mt.bump("bumpsum", key, tags, func(name string, rate float64) {
		mt.datadog.BumpSum(name, val, rate, tags...)
	})
}

// BumpGauge records the latest value, like a watermark or a queue length
func (mt *Metrics) BumpGauge(key string, val float64, tags ...string) {
	mt.bump("bumpgauge", key, tags, func(name string, rate float64) {
		mt.datadog.BumpGauge(name, val, rate, tags...)
	})
}

func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	mt.bump("bumphistogram", key, tags, func(name string, rate float64) {
		mt.datadog.BumpHistogram(name, val, rate, tags...)
	})
}

// BumpTime starts a timer and returns a value whose End() records it:
//
//	defer met.BumpTime("dispatch.time").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	if mt.disabled() {
		return fakeEnd{}
	}
	rate := mt.sampleRate()
	return &timeTracker{
		ddEnd:       mt.datadog.BumpTime(mt.name(key), rate, tags...),
		sampleRate:  rate,
		bumpLatency: mt.bumpLatency,
		panicHandler: func() {
			mt.bumpSumPanic("bumptime", key, tags)
		},
	}
}

type fakeEnd struct{}

func (fakeEnd) End() {}

type timeTracker struct {
	ddEnd        Ender
	sampleRate   float64
	bumpLatency  func(string, time.Time, float64)
	panicHandler func()
}

func (t *timeTracker) End() {
	defer func() {
		if err := recover(); err != nil {
			t.panicHandler()
		}
	}()
	defer t.bumpLatency("bumptime", time.Now(), t.sampleRate)
	t.ddEnd.End()
}

func envName() string {
	if name := viper.GetString("env_name"); name != "" {
		return name
	}
	return env.EnvName()
}

func appName() string {
	if name := viper.GetString("app_name"); name != "" {
		return name
	}
	return env.AppName()
}
