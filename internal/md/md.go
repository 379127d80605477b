// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package md contains helpers for generating Markdown tables and escaped
// text used by the report summary documents.
package md

import (
	"strings"
)

// GenRow constructs a row of a Markdown table from the given cell values.
func GenRow(cells ...string) string {
	return "|" + strings.Join(cells, "|") + "|\n"
}

// GenHeaderAndAlignmentRows generates a header row followed by an alignment
// row for a Markdown table.
func GenHeaderAndAlignmentRows(headers []string) string {
	headerCells := make([]string, len(headers))
	alignmentCells := make([]string, len(headers))
	for i, h := range headers {
		headerCells[i] = " " + h + " "
		alignmentCells[i] = strings.Repeat("-", len(h)+2)
	}
	return GenRow(headerCells...) + GenRow(alignmentCells...)
}

// baseSpecialChars is the set of special Markdown characters that need to be
// escaped. It doesn't include (<, >, |) because they are HTML-sensitive
// characters and are handled separately.
const baseSpecialChars = "\\`*_{}[]()#+-.!"

// Escape escapes the given text for Markdown.
//
// Special Markdown characters (\`*_{}[]()#+-.!) are backslash-escaped, and
// HTML-sensitive characters (<, >, |) are replaced with entity references.
func Escape(text string) string {
	var b strings.Builder
	for _, c := range text {
		switch {
		case strings.ContainsRune(baseSpecialChars, c):
			b.WriteByte('\\')
			b.WriteRune(c)
		case c == '<':
			b.WriteString("&lt;")
		case c == '>':
			b.WriteString("&gt;")
		case c == '|':
			b.WriteString("&#124;")
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
