package ai

import (
	"strings"
	"sync/atomic"
)

// Pool is an ordered set of credentials for one provider. Next rotates
// through the list round-robin. The counter is atomic so concurrent handlers
// don't corrupt it, but rotation stays a best-effort load-spreading
// heuristic, not a fairness guarantee.
type Pool struct {
	keys    []string
	counter atomic.Uint64
}

func NewPool(keys []string) *Pool {
	cleaned := make([]string, 0, len(keys))
	for _, key := range keys {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return &Pool{keys: cleaned}
}

// Next returns the next key in rotation order. ok is false for an empty
// pool; callers are expected to check Empty before dispatching rather than
// relying on this to signal configuration errors.
func (p *Pool) Next() (key string, ok bool) {
	if len(p.keys) == 0 {
		return "", false
	}
	n := p.counter.Add(1) - 1
	return p.keys[n%uint64(len(p.keys))], true
}

func (p *Pool) Size() int {
	return len(p.keys)
}

func (p *Pool) Empty() bool {
	return len(p.keys) == 0
}

// MaskKey keeps only a short suffix for log lines.
func MaskKey(key string) string {
	if len(key) <= 10 {
		return "..." + key
	}
	return "..." + key[len(key)-10:]
}
