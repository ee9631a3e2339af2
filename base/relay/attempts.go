package relay

import (
	"encoding/binary"
	"time"

	"github.com/coocood/freecache"

	"github.com/x-xyz/pixel-relayer/domain"
)

const attemptCacheSize = 1 << 20

// attempts counts failed dispatches per message id. Entries expire after ttl, an abandoned
// message is dispatched again once its entry is gone.
type attempts struct {
	cache *freecache.Cache
	ttl   time.Duration
}

func newAttempts(ttl time.Duration) *attempts {
	return &attempts{
		cache: freecache.NewCache(attemptCacheSize),
		ttl:   ttl,
	}
}

func attemptKey(id domain.MessageId) []byte {
	key := make([]byte, 10)
	binary.BigEndian.PutUint16(key, uint16(id.ChainId))
	binary.BigEndian.PutUint64(key[2:], id.Sequence)
	return key
}

func (a *attempts) get(id domain.MessageId) int {
	v, err := a.cache.Get(attemptKey(id))
	if err != nil {
		return 0
	}
	return int(binary.BigEndian.Uint32(v))
}

// incr returns the number of failed attempts including this one
func (a *attempts) incr(id domain.MessageId) int {
	n := a.get(id) + 1
	a.set(id, n)
	return n
}

// exhaust records n attempts so redeliveries are refused until the entry expires
func (a *attempts) exhaust(id domain.MessageId, n int) {
	if a.get(id) < n {
		a.set(id, n)
	}
}

func (a *attempts) set(id domain.MessageId, n int) {
	v := make([]byte, 4)
	binary.BigEndian.PutUint32(v, uint32(n))
	// only fails for entries larger than the cache segment
	_ = a.cache.Set(attemptKey(id), v, int(a.ttl.Seconds()))
}

func (a *attempts) reset(id domain.MessageId) {
	a.cache.Del(attemptKey(id))
}
