package report

import (
	"strings"
	"testing"
	"time"
)

func TestRemaining(t *testing.T) {
	// 10 genes in 100s is 10s per gene; 90 genes left.
	got := Remaining(10, 100, 100*time.Second)
	if got != 900*time.Second {
		t.Errorf("Remaining = %v, want 900s", got)
	}
}

func TestRemaining_NoProgressYet(t *testing.T) {
	if got := Remaining(0, 100, time.Minute); got != 0 {
		t.Errorf("Remaining with no completions = %v, want 0", got)
	}
}

func TestRemaining_Finished(t *testing.T) {
	if got := Remaining(100, 100, time.Hour); got != 0 {
		t.Errorf("Remaining at completion = %v, want 0", got)
	}
}

func TestRender(t *testing.T) {
	var b strings.Builder
	Render(&b, Summary{
		Total:      50,
		Succeeded:  47,
		Failed:     3,
		Elapsed:    12 * time.Minute,
		OutputDir:  "msa_output",
		FailureLog: "failed_genes.json",
	})
	out := b.String()
	for _, want := range []string{"47", "3", "msa_output", "failed_genes.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRender_NoFailuresHidesLog(t *testing.T) {
	var b strings.Builder
	Render(&b, Summary{Total: 5, Succeeded: 5, FailureLog: "failed_genes.json"})
	if strings.Contains(b.String(), "failed_genes.json") {
		t.Error("failure log line should be omitted when nothing failed")
	}
}
