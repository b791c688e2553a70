// Package versions compares version tags and consolidates them into major lines.
package versions

import (
	"sort"
	"strings"
)

// component is one dot or dash separated part of a version tag.
type component struct {
	text    string
	numeric bool
}

// Compare compares two version tags component by component, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
//
// A single leading "v" is ignored and build metadata ("+...") is dropped.
// Components are split on "." and "-". Numeric components compare as numbers
// ("10" > "9"), text components compare lexically, and a numeric component
// ranks above a text one. When one tag runs out of components, trailing zeros
// on the other are insignificant ("1.0" == "1.0.0"), a trailing number makes it
// greater ("1.0.1" > "1.0") and a trailing text component makes it smaller
// ("1.0.0-rc.1" < "1.0.0").
func Compare(a, b string) int {
	ca, cb := components(a), components(b)
	n := min(len(ca), len(cb))
	for i := 0; i < n; i++ {
		if c := compareComponent(ca[i], cb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(ca) > n:
		return tailSign(ca[n:])
	case len(cb) > n:
		return -tailSign(cb[n:])
	}
	return 0
}

func components(tag string) []component {
	tag = strings.TrimPrefix(tag, "v")
	if i := strings.IndexByte(tag, '+'); i >= 0 {
		tag = tag[:i]
	}
	parts := strings.FieldsFunc(tag, func(r rune) bool { return r == '.' || r == '-' })
	out := make([]component, len(parts))
	for i, p := range parts {
		out[i] = component{text: p, numeric: isDigits(p)}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func compareComponent(a, b component) int {
	switch {
	case a.numeric && b.numeric:
		return compareDigits(a.text, b.text)
	case a.numeric:
		return 1
	case b.numeric:
		return -1
	}
	return strings.Compare(a.text, b.text)
}

// compareDigits compares two digit strings numerically without overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// tailSign reports how the extra components of the longer tag affect ordering.
func tailSign(rest []component) int {
	for _, c := range rest {
		if !c.numeric {
			return -1
		}
		if strings.Trim(c.text, "0") != "" {
			return 1
		}
	}
	return 0
}

// SortDescending returns a copy of tags sorted from highest to lowest.
// Tags comparing equal keep their input order.
func SortDescending(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j]) > 0
	})
	return out
}

// SortAscending returns a copy of tags sorted from lowest to highest.
// Tags comparing equal keep their input order.
func SortAscending(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j]) < 0
	})
	return out
}
