package bench

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var countRE = regexp.MustCompile(`(?i)^([0-9]+)([kmg]?)$`)

// ParseCount parses a count with an optional k, m or g suffix (powers of
// 1000), as used for key ranges and range query sizes.
func ParseCount(s string) (int, error) {
	m := countRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, errors.Errorf("invalid count %q", s)
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, errors.Wrapf(err, "invalid count %q", s)
	}
	switch strings.ToLower(m[2]) {
	case "k":
		v *= 1000
	case "m":
		v *= 1000 * 1000
	case "g":
		v *= 1000 * 1000 * 1000
	}
	return v, nil
}

// ParseCounts parses every element of list with ParseCount.
func ParseCounts(list []string) ([]int, error) {
	counts := make([]int, 0, len(list))
	for _, s := range list {
		v, err := ParseCount(s)
		if err != nil {
			return nil, err
		}
		counts = append(counts, v)
	}
	return counts, nil
}
