package compiler

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"bizatlas/internal/domain"
)

// cacheKeyPrefix is the fixed literal prefix on every generated key.
const cacheKeyPrefix = "bi_query:"

// CacheKeyGenerator fingerprints a DSL document. The key is a pure function
// of the document: a fixed prefix plus the hex MD5 digest of its JSON
// serialization (uniqueness, not cryptographic strength, is the goal).
//
// Serialization is order-sensitive by default: reordering conditions or
// metrics produces a different key. With canonical enabled, the metric and
// layer sets are sorted before hashing so cosmetic reordering of those sets
// does not bust caches.
type CacheKeyGenerator struct {
	canonical bool
}

// NewCacheKeyGenerator builds a generator. canonical selects the
// order-insensitive variant.
func NewCacheKeyGenerator(canonical bool) *CacheKeyGenerator {
	return &CacheKeyGenerator{canonical: canonical}
}

// Key returns the cache key for the document. No I/O is performed.
func (g *CacheKeyGenerator) Key(dsl domain.FilterDSL) string {
	doc := dsl
	if g.canonical {
		doc.Metrics = sortedCopy(dsl.Metrics)
		doc.Map.Layers = sortedCopy(dsl.Map.Layers)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		// Unmarshalable values cannot come from a decoded request; fall back
		// to the fmt fingerprint rather than failing the compile.
		raw = []byte(fmt.Sprintf("%#v", doc))
	}

	sum := md5.Sum(raw)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func sortedCopy(items []string) []string {
	if items == nil {
		return nil
	}
	out := append([]string(nil), items...)
	sort.Strings(out)
	return out
}
