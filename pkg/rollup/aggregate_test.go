package rollup

import "testing"

func TestSumInt64s(t *testing.T) {
	if got := sumInt64s([]*int64{i64p(3), nil, i64p(2)}); got == nil || *got != 5 {
		t.Errorf("sum = %v, want 5", got)
	}
	if got := sumInt64s([]*int64{nil, nil}); got != nil {
		t.Errorf("sum over nils = %v, want nil", got)
	}
	if got := sumInt64s(nil); got != nil {
		t.Errorf("sum over nothing = %v, want nil", got)
	}
	// Zero is a value, not an absence.
	if got := sumInt64s([]*int64{i64p(0)}); got == nil || *got != 0 {
		t.Errorf("sum = %v, want 0", got)
	}
}

func TestMinMaxInt64s(t *testing.T) {
	vals := []*int64{i64p(7), nil, i64p(-2), i64p(4)}
	if got := minInt64s(vals); got == nil || *got != -2 {
		t.Errorf("min = %v, want -2", got)
	}
	if got := maxInt64s(vals); got == nil || *got != 7 {
		t.Errorf("max = %v, want 7", got)
	}
	if got := minInt64s([]*int64{nil}); got != nil {
		t.Errorf("min over nils = %v, want nil", got)
	}
	if got := maxInt64s(nil); got != nil {
		t.Errorf("max over nothing = %v, want nil", got)
	}
}

func TestSumBools(t *testing.T) {
	if got := sumBools([]*bool{boolp(true), boolp(false), nil, boolp(true)}); got == nil || *got != 2 {
		t.Errorf("sum = %v, want 2", got)
	}
	if got := sumBools([]*bool{boolp(false)}); got == nil || *got != 0 {
		t.Errorf("sum = %v, want 0", got)
	}
	if got := sumBools([]*bool{nil, nil}); got != nil {
		t.Errorf("sum over nils = %v, want nil", got)
	}
}

func TestJoinPresent(t *testing.T) {
	if got := joinPresent([]*string{strp("a"), nil, strp("b")}, "\n"); got == nil || *got != "a\nb" {
		t.Errorf("join = %v, want a\\nb", got)
	}
	// Present empty strings contribute separators.
	if got := joinPresent([]*string{strp("a"), strp("")}, "\n"); got == nil || *got != "a\n" {
		t.Errorf("join = %v, want a\\n", got)
	}
	if got := joinPresent([]*string{nil, nil}, "\n"); got != nil {
		t.Errorf("join over nils = %v, want nil", got)
	}
}

func TestTrimNewlines(t *testing.T) {
	if got := trimNewlines("\n\na\n\nb\n"); got != "a\n\nb" {
		t.Errorf("trim = %q, want %q", got, "a\n\nb")
	}
	// Spaces and tabs are not trimmed.
	if got := trimNewlines(" a \n"); got != " a " {
		t.Errorf("trim = %q, want %q", got, " a ")
	}
}
