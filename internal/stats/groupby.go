// Package stats provides small generic statistics helpers shared by the
// ranking and win-equity analytics.
package stats

import "github.com/samber/lo"

// Group is one bucket produced by GroupBy.
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// GroupBy partitions items by key. Groups are returned in the order their key
// was first seen, and items keep their input order inside a group, so the
// result is deterministic for a given input.
func GroupBy[T any, K comparable](items []T, key func(T) K) []Group[K, T] {
	if len(items) == 0 {
		return nil
	}

	grouped := lo.GroupBy(items, key)
	order := lo.Uniq(lo.Map(items, func(item T, _ int) K {
		return key(item)
	}))

	groups := make([]Group[K, T], 0, len(order))
	for _, k := range order {
		groups = append(groups, Group[K, T]{Key: k, Items: grouped[k]})
	}
	return groups
}

// GroupMap is GroupBy for callers that only need random access by key.
func GroupMap[T any, K comparable](items []T, key func(T) K) map[K][]T {
	return lo.GroupBy(items, key)
}
