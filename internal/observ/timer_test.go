package observ

import (
	"strings"
	"testing"
)

func TestTimerSummaryAligns(t *testing.T) {
	tm := NewTimer()
	tm.End(tm.Begin("construct"), "4 types")
	tm.End(tm.Begin("enums"), "")

	lines := strings.Split(strings.TrimSpace(tm.Summary()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), tm.Summary())
	}
	col := strings.Index(lines[1], " ms")
	for _, l := range lines[2:] {
		if strings.Index(l, " ms") != col {
			t.Fatalf("misaligned timing table:\n%s", tm.Summary())
		}
	}
	if !strings.Contains(lines[1], "// 4 types") {
		t.Fatalf("note missing: %q", lines[1])
	}
}

func TestNilTimerIsSafe(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer reported phases")
	}
}
