package compile

import (
	"crypto/sha256"
	"encoding/hex"
)

// Cache stores compiled code by key.
type Cache interface {
	// GetCompiled returns the code stored under key, or an error if there is
	// none.
	GetCompiled(key string) (string, error)
	PutCompiled(key, code string) error
}

// Cached is a Compiler that remembers the results of another Compiler in a
// Cache. Failed compilations are not cached.
type Cached struct {
	inner Compiler
	cache Cache
	salt  string
}

// NewCached returns a Cached wrapping inner. The salt identifies the options
// of inner, so that results for different options don't mix.
func NewCached(inner Compiler, cache Cache, salt string) *Cached {
	return &Cached{inner, cache, salt}
}

// Compile implements Compiler.
func (c *Cached) Compile(name, code string) (string, error) {
	key := c.key(name, code)
	if js, err := c.cache.GetCompiled(key); err == nil {
		return js, nil
	}
	js, err := c.inner.Compile(name, code)
	if err != nil {
		return "", err
	}
	if err := c.cache.PutCompiled(key, js); err != nil {
		logger.Printf("failed to cache compiled code: %v", err)
	}
	return js, nil
}

// Changed whenever the way keys are computed or values are stored changes.
const cacheFormat = "1"

func (c *Cached) key(name, code string) string {
	h := sha256.New()
	for _, s := range []string{cacheFormat, c.salt, name, code} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
