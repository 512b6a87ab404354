package translate

import (
	"fmt"
	"sort"
	"strings"
)

// ParsePolarizations splits an ASF polarization string such as "VV+VH" into
// its upper-cased components.
func ParsePolarizations(pol string) []string {
	if pol == "" {
		return nil
	}

	parts := strings.FieldsFunc(pol, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})

	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, strings.ToUpper(p))
		}
	}

	return result
}

// DistinctStrings flattens per-image property values and returns the sorted
// set of distinct strings. Each value may be a string or a list of strings,
// e.g. [["VV","VH"],["VV"]] yields ["VH","VV"]. Nil values are skipped.
func DistinctStrings(values []any) ([]string, error) {
	seen := make(map[string]struct{})
	add := func(v any) error {
		switch s := v.(type) {
		case nil:
		case string:
			seen[s] = struct{}{}
		default:
			return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
		}
		return nil
	}

	for _, v := range values {
		switch list := v.(type) {
		case []string:
			for _, s := range list {
				seen[s] = struct{}{}
			}
		case []any:
			for _, item := range list {
				if err := add(item); err != nil {
					return nil, err
				}
			}
		default:
			if err := add(v); err != nil {
				return nil, err
			}
		}
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}
