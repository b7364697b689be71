// Package report formats benchmark results into comparison tables and
// charts.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/dklyne/simbench/harness"
)

// checksumTol is the relative tolerance for cross-backend agreement.
const checksumTol = 1e-6

// Entry is one (solver, workload) outcome. Exactly one of Result and
// Err is set: a failed spec never carries a partial result.
type Entry struct {
	Solver   string
	Workload string
	Result   *harness.Result
	Err      error
}

// Generate writes a markdown comparison, one table per workload.
// Failed entries are reported inline and never suppress their siblings.
func Generate(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("no results to report")
	}

	fmt.Fprintln(w, "## Benchmark Results")

	for _, kind := range workloadOrder(entries) {
		group := filterWorkload(entries, kind)

		fmt.Fprintln(w)
		fmt.Fprintf(w, "### %s\n", kind)
		fmt.Fprintln(w)

		ok := successful(group)
		if len(ok) > 0 {
			writeChecksumLine(w, ok)
			writeTable(w, ok)
		}

		for _, e := range group {
			if e.Err != nil {
				fmt.Fprintf(w, "benchmark unavailable for %s/%s: %s\n",
					e.Solver, e.Workload, cause(e.Err))
			}
		}
	}

	return nil
}

// GenerateJSON writes entries as JSON to w.
func GenerateJSON(w io.Writer, entries []Entry) error {
	type jsonEntry struct {
		Solver   string          `json:"solver"`
		Workload string          `json:"workload"`
		Result   *harness.Result `json:"result,omitempty"`
		Error    string          `json:"error,omitempty"`
	}

	out := make([]jsonEntry, 0, len(entries))

	for _, e := range entries {
		je := jsonEntry{
			Solver:   e.Solver,
			Workload: e.Workload,
			Result:   e.Result,
		}
		if e.Err != nil {
			je.Error = e.Err.Error()
		}

		out = append(out, je)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

// cause strips the harness error's own identity prefix so the
// unavailable line does not repeat it.
func cause(err error) string {
	var invErr *harness.InvocationError
	if errors.As(err, &invErr) {
		if invErr.Phase == harness.PhaseWarmUp {
			return fmt.Sprintf("warm-up call failed: %v", invErr.Err)
		}

		return fmt.Sprintf("timed call %d failed: %v",
			invErr.Sample, invErr.Err)
	}

	return err.Error()
}

func writeChecksumLine(w io.Writer, ok []Entry) {
	if checksumsAgree(ok) {
		fmt.Fprintln(w, "Checksums: **all agree**")
	} else {
		fmt.Fprintln(w, "Checksums: **DISAGREE**")

		for _, e := range ok {
			fmt.Fprintf(w, "  - %s: %g\n", e.Solver, e.Result.Checksum)
		}
	}

	fmt.Fprintln(w)
}

func writeTable(w io.Writer, ok []Entry) {
	fastest := findFastest(ok)

	fmt.Fprintln(w, "| Solver | Mean | Min | Median | Stddev "+
		"| Samples | Speedup |")
	fmt.Fprintln(w, "|--------|------|-----|--------|--------"+
		"|---------|---------|")

	for _, e := range ok {
		r := e.Result

		speedup := 1.0
		if fastest > 0 && r.Mean > 0 {
			speedup = float64(r.Mean) / float64(fastest)
		}

		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %d | %.2fx |\n",
			e.Solver,
			formatDuration(r.Mean),
			formatDuration(r.Min),
			formatDuration(r.Median),
			formatDuration(r.Stddev),
			r.Count,
			speedup,
		)
	}

	fmt.Fprintln(w)
}

// workloadOrder returns the distinct workload names in first-seen order.
func workloadOrder(entries []Entry) []string {
	seen := make(map[string]bool, len(entries))

	var order []string

	for _, e := range entries {
		if !seen[e.Workload] {
			seen[e.Workload] = true
			order = append(order, e.Workload)
		}
	}

	return order
}

func filterWorkload(entries []Entry, kind string) []Entry {
	var group []Entry

	for _, e := range entries {
		if e.Workload == kind {
			group = append(group, e)
		}
	}

	return group
}

func successful(entries []Entry) []Entry {
	var ok []Entry

	for _, e := range entries {
		if e.Err == nil && e.Result != nil {
			ok = append(ok, e)
		}
	}

	return ok
}

func checksumsAgree(ok []Entry) bool {
	if len(ok) < 2 {
		return true
	}

	first := ok[0].Result.Checksum
	scale := math.Max(1, math.Abs(first))

	for _, e := range ok[1:] {
		if math.Abs(e.Result.Checksum-first) > checksumTol*scale {
			return false
		}
	}

	return true
}

func findFastest(ok []Entry) time.Duration {
	fastest := time.Duration(math.MaxInt64)
	for _, e := range ok {
		if e.Result.Mean > 0 && e.Result.Mean < fastest {
			fastest = e.Result.Mean
		}
	}

	if fastest == time.Duration(math.MaxInt64) {
		return 0
	}

	return fastest
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.2fµs", float64(d)/float64(time.Microsecond))
	}
}
