package engine

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// normalizeQueryText canonicalizes free text before hashing so trivially
// different spellings of the same query share a cache entry.
func normalizeQueryText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// cacheKey builds the result-cache key: user id, normalized query text hash
// and the user's current namespace version. Bumping the version makes every
// older key unaddressable without deleting anything.
func cacheKey(userID, queryText string, namespace uint64) string {
	h := fnv.New64a()
	h.Write([]byte(normalizeQueryText(queryText)))
	return fmt.Sprintf("retrieve:%s:%016x:v%d", userID, h.Sum64(), namespace)
}
