package shrine

import "regexp"

// CompilePattern compiles a user-supplied regular expression for
// ls/rm/dump, translating a compile failure to InvalidPatternError
// (spec.md §7).
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// FilterKeys returns the subset of keys matching re, preserving order.
// A nil re matches every key.
func FilterKeys(keys []string, re *regexp.Regexp) []string {
	if re == nil {
		return keys
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if re.MatchString(k) {
			out = append(out, k)
		}
	}
	return out
}
