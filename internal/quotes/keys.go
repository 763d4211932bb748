package quotes

import "math/rand"

// KeyPool holds the provider API keys. A key is picked at random for each
// request to spread usage across per-key rate limits.
type KeyPool struct {
	keys []string
}

// NewKeyPool returns a pool over the non-empty keys given.
func NewKeyPool(keys ...string) *KeyPool {
	p := &KeyPool{}
	for _, k := range keys {
		if k != "" {
			p.keys = append(p.keys, k)
		}
	}
	return p
}

// Pick returns a random key, or "" when the pool is empty.
func (p *KeyPool) Pick() string {
	if p == nil || len(p.keys) == 0 {
		return ""
	}
	return p.keys[rand.Intn(len(p.keys))]
}

// Len returns the number of keys in the pool.
func (p *KeyPool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}
