// Package taste turns two profiles into qualitative taste nuances: literal
// overlap between free-text lists, curated style clusters as a fallback, and
// a set of category analyzers.
package taste

import "strings"

// Overlap returns every item of a that shares a case-insensitive substring
// relationship with some item of b, in either direction. The result keeps
// a's order, including duplicates. It is empty when either list is empty.
// Blank items never match, since the empty string is a substring of anything.
func Overlap(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	lowerB := lowerAll(b)
	var out []string
	for _, item := range a {
		la := strings.ToLower(item)
		if strings.TrimSpace(la) == "" {
			continue
		}
		for _, lb := range lowerB {
			if strings.TrimSpace(lb) == "" {
				continue
			}
			if strings.Contains(la, lb) || strings.Contains(lb, la) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// SharedExact returns the items of a that equal some item of b ignoring
// case. Each distinct item of a is reported once, in a's order.
func SharedExact(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	inB := make(map[string]struct{}, len(b))
	for _, item := range b {
		inB[strings.ToLower(item)] = struct{}{}
	}
	seen := make(map[string]struct{}, len(a))
	var out []string
	for _, item := range a {
		key := strings.ToLower(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := inB[key]; ok {
			out = append(out, item)
		}
	}
	return out
}

func lowerAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.ToLower(s)
	}
	return out
}
