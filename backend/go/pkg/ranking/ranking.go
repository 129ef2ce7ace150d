// Package ranking orders entities by how many relation members they share
// with a reference entity.
package ranking

import "slices"

// RelationsFunc returns the named relation sets of an entity, for example
// {"actors": {1, 2}, "genres": {7}}. Sets are compared by name only.
type RelationsFunc[T any, ID comparable] func(T) map[string][]ID

// Scored is a candidate together with its overlap count.
type Scored[T any] struct {
	Item    T
	Overlap int
}

// Rank scores every candidate in pool against ref and returns up to limit of
// them, highest overlap first. Candidates with equal overlap keep their pool
// order. The pool is neither filtered nor modified; the caller is expected to
// leave ref out of it. A negative limit means no limit.
func Rank[T any, ID comparable](ref T, pool []T, limit int, relations RelationsFunc[T, ID]) []Scored[T] {
	reference := toSets(relations(ref))

	scored := make([]Scored[T], len(pool))
	for i, candidate := range pool {
		scored[i] = Scored[T]{Item: candidate, Overlap: overlap(reference, relations(candidate))}
	}

	slices.SortStableFunc(scored, func(a, b Scored[T]) int {
		return b.Overlap - a.Overlap
	})

	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// Top is Rank without the scores.
func Top[T any, ID comparable](ref T, pool []T, limit int, relations RelationsFunc[T, ID]) []T {
	scored := Rank(ref, pool, limit, relations)
	items := make([]T, len(scored))
	for i, s := range scored {
		items[i] = s.Item
	}
	return items
}

func toSets[ID comparable](relations map[string][]ID) map[string]map[ID]struct{} {
	sets := make(map[string]map[ID]struct{}, len(relations))
	for name, ids := range relations {
		set := make(map[ID]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		sets[name] = set
	}
	return sets
}

// overlap counts the distinct members of candidate that also appear in the
// reference set of the same name.
func overlap[ID comparable](reference map[string]map[ID]struct{}, candidate map[string][]ID) int {
	count := 0
	for name, ids := range candidate {
		ref, ok := reference[name]
		if !ok {
			continue
		}
		seen := make(map[ID]struct{}, len(ids))
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if _, shared := ref[id]; shared {
				count++
			}
		}
	}
	return count
}
