package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	framePrefix = "keyframe_"
	chipPrefix  = "aligned_keyframe_"
	chipExt     = ".png"
)

// FrameName returns the staged file name of a raw frame.
func FrameName(ordinal int, ext string) string {
	return fmt.Sprintf("%s%d%s", framePrefix, ordinal, ext)
}

// ChipName returns the staged file name of a chip. Natural ordering of chip
// names equals (ordinal, detection) ordering.
func ChipName(ordinal, detection int) string {
	return fmt.Sprintf("%s%d_%d%s", chipPrefix, ordinal, detection, chipExt)
}

// ParseFrameName extracts the ordinal from a raw frame file name.
func ParseFrameName(name string) (int, bool) {
	if !strings.HasPrefix(name, framePrefix) {
		return 0, false
	}
	stem := strings.TrimPrefix(name, framePrefix)
	if i := strings.IndexByte(stem, '.'); i >= 0 {
		stem = stem[:i]
	}
	n, err := strconv.Atoi(stem)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ParseChipName extracts ordinal and detection index from a chip file name.
func ParseChipName(name string) (ordinal, detection int, ok bool) {
	if !strings.HasPrefix(name, chipPrefix) || !strings.HasSuffix(name, chipExt) {
		return 0, 0, false
	}
	stem := strings.TrimSuffix(strings.TrimPrefix(name, chipPrefix), chipExt)
	parts := strings.Split(stem, "_")
	if len(parts) != 2 {
		return 0, 0, false
	}
	o, err1 := strconv.Atoi(parts[0])
	d, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || o < 0 || d < 0 {
		return 0, 0, false
	}
	return o, d, true
}

// NaturalLess compares two strings so that runs of digits compare by numeric
// value: "keyframe_2" sorts before "keyframe_10".
func NaturalLess(a, b string) bool {
	for a != "" && b != "" {
		if isDigit(a[0]) && isDigit(b[0]) {
			da, ra := splitDigits(a)
			db, rb := splitDigits(b)
			ta := strings.TrimLeft(da, "0")
			tb := strings.TrimLeft(db, "0")
			if len(ta) != len(tb) {
				return len(ta) < len(tb)
			}
			if ta != tb {
				return ta < tb
			}
			// Same value: fewer leading zeros first.
			if len(da) != len(db) {
				return len(da) < len(db)
			}
			a, b = ra, rb
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

// SortNatural sorts names in place using NaturalLess.
func SortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func splitDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}
