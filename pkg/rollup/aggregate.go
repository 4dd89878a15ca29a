package rollup

import "strings"

// The helpers below follow SQL aggregate semantics over optional values:
// nil inputs are skipped, and an aggregate over no remaining values is nil
// rather than zero.

func sumInt64s(vals []*int64) *int64 {
	var sum int64
	seen := false
	for _, v := range vals {
		if v == nil {
			continue
		}
		sum += *v
		seen = true
	}
	if !seen {
		return nil
	}
	return &sum
}

func minInt64s(vals []*int64) *int64 {
	var min int64
	seen := false
	for _, v := range vals {
		if v == nil {
			continue
		}
		if !seen || *v < min {
			min = *v
		}
		seen = true
	}
	if !seen {
		return nil
	}
	return &min
}

func maxInt64s(vals []*int64) *int64 {
	var max int64
	seen := false
	for _, v := range vals {
		if v == nil {
			continue
		}
		if !seen || *v > max {
			max = *v
		}
		seen = true
	}
	if !seen {
		return nil
	}
	return &max
}

// sumBools counts true values as 1 and false as 0, skipping nils.
func sumBools(vals []*bool) *int64 {
	var sum int64
	seen := false
	for _, v := range vals {
		if v == nil {
			continue
		}
		if *v {
			sum++
		}
		seen = true
	}
	if !seen {
		return nil
	}
	return &sum
}

// joinPresent concatenates the non-nil values with sep and returns nil when
// none are present. Present empty strings still contribute separators.
func joinPresent(vals []*string, sep string) *string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		if v == nil {
			continue
		}
		parts = append(parts, *v)
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, sep)
	return &joined
}

// trimNewlines strips leading and trailing newline characters only; inner
// blank lines and other whitespace survive.
func trimNewlines(s string) string {
	return strings.Trim(s, "\n")
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
