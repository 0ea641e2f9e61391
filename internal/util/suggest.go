/**
 * Copyright (c) 2018, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package util

import (
	"math"
	"sort"
	"strings"
)

// maxKeyEdits bounds the distance of a suggested key regardless of its length. Keys are short
// words, so a candidate that needs more edits is a different word rather than a typo.
const maxKeyEdits = 3

// SuggestKeys returns the keys that input is likely a misspelling of, closest first. Keys at the
// same distance keep their order in keys, which is the declaration order of a schema.
func SuggestKeys(input string, keys []string) []string {
	type candidate struct {
		key      string
		distance int
	}

	var (
		candidates []candidate
		seen       = map[string]bool{}
	)
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true

		distance := editDistance(input, key)
		if float64(distance) <= keyThreshold(input, key) {
			candidates = append(candidates, candidate{key, distance})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	var suggestions []string
	for _, c := range candidates {
		suggestions = append(suggestions, c.key)
	}
	return suggestions
}

// keyThreshold allows about half of the longer string to be edited, at least one edit and at most
// maxKeyEdits.
func keyThreshold(input string, key string) float64 {
	half := float64(len(input)) / 2.0
	if h := float64(len(key)) / 2.0; h > half {
		half = h
	}
	return math.Min(math.Max(half, 1), maxKeyEdits)
}

// editDistance counts the insertions, deletions, substitutions and swaps of adjacent characters
// that turn a into b (optimal string alignment distance). Comparison ignores case, but strings
// that differ in case only are one edit apart.
func editDistance(a string, b string) int {
	if a == b {
		return 0
	}

	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1
	}

	// Rows i-2, i-1 and i of the distance matrix.
	prev2 := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			d := minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				d = minInt(d, prev2[j-2]+cost)
			}
			curr[j] = d
		}
		prev2, prev, curr = prev, curr, prev2
	}

	return prev[len(b)]
}

func minInt(x int, others ...int) int {
	for _, y := range others {
		if y < x {
			x = y
		}
	}
	return x
}
