// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package errcount counts validation errors by category and computes the
// per-category differences between two counts.
package errcount

import (
	"sort"
	"strings"
)

// Rep is one validation error in a comparable, renderable form.
//
// Category is the index-wildcarded rendering used as the counting key. Key is
// the full identity rendering and distinguishes individual errors within a
// category. Path identifies the metadata instance the error pertains to
// (e.g. "000003/draft" or "000003/draft/42").
type Rep interface {
	Category() string
	Key() string
	Path() string
}

// tally holds the per-category state: a multiset of error identities and the
// set of instance paths the errors came from.
type tally struct {
	reps  map[string]int
	paths map[string]struct{}
}

// Counter accumulates validation errors by category.
type Counter struct {
	byCat map[string]*tally
}

// New returns an empty Counter.
func New() *Counter {
	return &Counter{byCat: make(map[string]*tally)}
}

// Count folds the given error representations into the counter.
func (c *Counter) Count(reps []Rep) {
	for _, r := range reps {
		cat := r.Category()
		t, ok := c.byCat[cat]
		if !ok {
			t = &tally{
				reps:  make(map[string]int),
				paths: make(map[string]struct{}),
			}
			c.byCat[cat] = t
		}
		t.reps[r.Key()]++
		t.paths[r.Path()] = struct{}{}
	}
}

// CountsByCat returns the number of errors counted in each category.
func (c *Counter) CountsByCat() map[string]int {
	counts := make(map[string]int, len(c.byCat))
	for cat, t := range c.byCat {
		n := 0
		for _, count := range t.reps {
			n += count
		}
		counts[cat] = n
	}
	return counts
}

// Cats returns all categories, sorted case-insensitively by their rendering.
// Ties are broken by the exact rendering so enumeration is deterministic.
func (c *Counter) Cats() []string {
	cats := make([]string, 0, len(c.byCat))
	for cat := range c.byCat {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		li, lj := strings.ToLower(cats[i]), strings.ToLower(cats[j])
		if li != lj {
			return li < lj
		}
		return cats[i] < cats[j]
	})
	return cats
}

// Total returns the total number of errors counted across all categories.
func (c *Counter) Total() int {
	n := 0
	for _, count := range c.CountsByCat() {
		n += count
	}
	return n
}

// Reps returns a copy of the multiset of error identities counted in the
// given category.
func (c *Counter) Reps(cat string) map[string]int {
	t, ok := c.byCat[cat]
	if !ok {
		return map[string]int{}
	}
	reps := make(map[string]int, len(t.reps))
	for k, v := range t.reps {
		reps[k] = v
	}
	return reps
}

// Paths returns the sorted instance paths of the entities that contributed
// errors to the given category.
func (c *Counter) Paths(cat string) []string {
	t, ok := c.byCat[cat]
	if !ok {
		return nil
	}
	paths := make([]string, 0, len(t.paths))
	for p := range t.paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// DiffEntry describes the difference within one category between two
// counters: the number of errors removed going from the first counter to the
// second and the number gained.
type DiffEntry struct {
	Removed int
	Gained  int
}

// Diff computes the per-category differences between two counters. A category
// appears in the result only if its errors differ between the two counters.
// Removed and gained are multiset differences over the error identities.
func Diff(c1, c2 *Counter) map[string]DiffEntry {
	cats := make(map[string]struct{})
	for cat := range c1.byCat {
		cats[cat] = struct{}{}
	}
	for cat := range c2.byCat {
		cats[cat] = struct{}{}
	}

	diff := make(map[string]DiffEntry)
	for cat := range cats {
		reps1 := c1.Reps(cat)
		reps2 := c2.Reps(cat)

		removed, gained := 0, 0
		for k, n1 := range reps1 {
			if n2 := reps2[k]; n1 > n2 {
				removed += n1 - n2
			}
		}
		for k, n2 := range reps2 {
			if n1 := reps1[k]; n2 > n1 {
				gained += n2 - n1
			}
		}

		if removed > 0 || gained > 0 {
			diff[cat] = DiffEntry{Removed: removed, Gained: gained}
		}
	}
	return diff
}
