package keys

import (
	"sort"
	"strings"
)

// CatalogID produces the canonical id of a catalog entry from an id or a
// display name: trimmed, lower-cased, spaces replaced with underscores.
func CatalogID(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// EnemyMixKey produces a canonical key for a list of enemy ids so encounters
// with the same enemies in any order share one key, e.g. "goblin+goblin+imp".
func EnemyMixKey(ids []string) string {
	parts := make([]string, 0, len(ids))
	for _, n := range ids {
		s := CatalogID(n)
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	sort.Strings(parts)
	return strings.Join(parts, "+")
}
