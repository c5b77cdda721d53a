// Package cache provides caching utilities for the MCP server.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/usestring/prisma-infer/pkg/prisma"
)

// ResultCache provides thread-safe LRU caching of inference results.
type ResultCache struct {
	cache *lru.Cache[string, *prisma.Result]
}

// NewResultCache creates a new LRU cache with the specified maximum number of items.
func NewResultCache(maxItems int) (*ResultCache, error) {
	c, err := lru.New[string, *prisma.Result](maxItems)
	if err != nil {
		return nil, err
	}
	return &ResultCache{cache: c}, nil
}

// Get retrieves a result by its fingerprint.
func (c *ResultCache) Get(key string) (*prisma.Result, bool) {
	return c.cache.Get(key)
}

// Put adds or updates a result.
func (c *ResultCache) Put(key string, result *prisma.Result) {
	c.cache.Add(key, result)
}

// Len returns the current number of items in the cache.
func (c *ResultCache) Len() int {
	return c.cache.Len()
}

// Fingerprint identifies one inference request: the same name, options,
// selection and input bytes always produce the same key.
func Fingerprint(name string, opts *prisma.Options, selectExpr string, input []byte) string {
	if opts == nil {
		opts = prisma.DefaultOptions()
	}

	h := sha256.New()
	for _, part := range []string{
		name,
		strconv.FormatBool(opts.NormalizeArrays),
		strconv.Itoa(opts.MaxDepth),
		strconv.FormatBool(opts.CamelCaseFields),
		selectExpr,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(input)
	return hex.EncodeToString(h.Sum(nil))
}
