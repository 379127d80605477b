// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package diff

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dandictl/dandictl/internal/errcount"
	"github.com/dandictl/dandictl/internal/md"
)

// PydanticSummaryFile and JsonschemaSummaryFile are the per-origin summary
// documents written into each report group directory.
const (
	PydanticSummaryFile   = "pydantic_errs_summary.md"
	JsonschemaSummaryFile = "jsonschema_errs_summary.md"
)

// diffSummary renders the Markdown summary of the differences between two
// validation error counts: the totals of each side followed by a table of
// every observed error category with its counts on both sides, the multiset
// differences, and the entities the errors came from.
func diffSummary(c1, c2 *errcount.Counter) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Total: %d errors in set 1, %d errors in set 2\n\n",
		c1.Total(), c2.Total())

	b.WriteString(md.GenHeaderAndAlignmentRows([]string{
		"Error category", "Count 1", "Count 2", "Removed", "Gained", "Affected entities",
	}))

	counts1 := c1.CountsByCat()
	counts2 := c2.CountsByCat()
	diff := errcount.Diff(c1, c2)

	for _, cat := range unionCats(c1, c2) {
		b.WriteString(md.GenRow(
			md.Escape(cat),
			strconv.Itoa(counts1[cat]),
			strconv.Itoa(counts2[cat]),
			strconv.Itoa(diff[cat].Removed),
			strconv.Itoa(diff[cat].Gained),
			affectedEntities(c1, c2, cat),
		))
	}

	return b.String()
}

// unionCats merges the categories of both counters, sorted the way a single
// counter sorts its own.
func unionCats(c1, c2 *errcount.Counter) []string {
	seen := make(map[string]struct{})
	var cats []string
	for _, c := range []*errcount.Counter{c1, c2} {
		for _, cat := range c.Cats() {
			if _, ok := seen[cat]; !ok {
				seen[cat] = struct{}{}
				cats = append(cats, cat)
			}
		}
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

// affectedEntities renders the sorted union of instance paths that
// contributed errors of the category on either side.
func affectedEntities(c1, c2 *errcount.Counter, cat string) string {
	seen := make(map[string]struct{})
	var paths []string
	for _, c := range []*errcount.Counter{c1, c2} {
		for _, p := range c.Paths(cat) {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				paths = append(paths, p)
			}
		}
	}
	sort.Strings(paths)

	escaped := make([]string, len(paths))
	for i, p := range paths {
		escaped[i] = md.Escape(p)
	}
	return strings.Join(escaped, "<br>")
}
