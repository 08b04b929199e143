// Package report renders operator-facing run reporting: throughput
// extrapolation for periodic progress lines and the end-of-run summary
// table.
package report

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary is the terminal report of one run.
type Summary struct {
	Total      int
	Succeeded  int
	Failed     int
	Elapsed    time.Duration
	OutputDir  string
	FailureLog string // empty when no failures were logged
}

// Remaining extrapolates the time left from observed throughput.
// It returns zero until at least one gene has completed.
func Remaining(done, total int, elapsed time.Duration) time.Duration {
	if done <= 0 || done >= total {
		return 0
	}
	perGene := elapsed / time.Duration(done)
	return perGene * time.Duration(total-done)
}

// Render writes the summary table to w.
func Render(w io.Writer, s Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run summary", ""})
	t.AppendRows([]table.Row{
		{"Genes processed", s.Total},
		{"Succeeded", s.Succeeded},
		{"Failed", s.Failed},
		{"Elapsed", s.Elapsed.Round(time.Second)},
		{"Output directory", s.OutputDir},
	})
	if s.Failed > 0 && s.FailureLog != "" {
		t.AppendRow(table.Row{"Failure log", s.FailureLog})
	}
	t.Render()
}
