package diag

import (
	"errors"
	"strings"
	"testing"
)

func TestReportFormattingIncludesCodeAndCause(t *testing.T) {
	r := New(
		"ctx-1",
		CodeCycleLeak,
		WithObjectCount(3),
		WithMessage("cycle survived teardown"),
		WithRemediation("drop all strong handles before closing the context"),
		WithCause(errors.New("3 headers still linked")),
	)

	out := r.Error()
	if !strings.Contains(out, "context=ctx-1") {
		t.Fatalf("expected context marker: %s", out)
	}
	if !strings.Contains(out, "code=cycle_leak") {
		t.Fatalf("expected code marker: %s", out)
	}
	if !strings.Contains(out, "objects=3") {
		t.Fatalf("expected object count: %s", out)
	}
	if !strings.Contains(out, `cause="3 headers still linked"`) {
		t.Fatalf("expected wrapped cause: %s", out)
	}
}

func TestNilReportString(t *testing.T) {
	var r *Report
	if got := r.Error(); got != "<nil>" {
		t.Fatalf("expected <nil> string for nil report, got %q", got)
	}
}

func TestSortedOrdersByContextThenCode(t *testing.T) {
	a := New("b-ctx", CodeDoubleFree)
	b := New("a-ctx", CodeCycleLeak)
	c := New("a-ctx", CodeReentrantGC)

	got := Sorted([]*Report{a, b, c})
	if got[0] != b || got[1] != c || got[2] != a {
		t.Fatalf("unexpected sort order: %v", got)
	}
}
