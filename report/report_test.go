package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dklyne/simbench/harness"
)

func sampleEntries() []Entry {
	return []Entry{
		{
			Solver:   "dense",
			Workload: "relax",
			Result: &harness.Result{
				Solver:   "dense",
				Workload: "relax",
				Count:    5,
				Mean:     10 * time.Millisecond,
				Min:      9 * time.Millisecond,
				Median:   10 * time.Millisecond,
				Total:    50 * time.Millisecond,
				Checksum: 1.25,
			},
		},
		{
			Solver:   "sparse",
			Workload: "relax",
			Result: &harness.Result{
				Solver:   "sparse",
				Workload: "relax",
				Count:    5,
				Mean:     20 * time.Millisecond,
				Min:      18 * time.Millisecond,
				Median:   20 * time.Millisecond,
				Total:    100 * time.Millisecond,
				Checksum: 1.25,
			},
		},
	}
}

func TestGenerateAgreeingChecksums(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, sampleEntries()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "all agree") {
		t.Error("expected 'all agree' for matching checksums")
	}
	if !strings.Contains(output, "dense") {
		t.Error("expected dense in output")
	}
	if !strings.Contains(output, "sparse") {
		t.Error("expected sparse in output")
	}
	if !strings.Contains(output, "2.00x") {
		t.Error("expected 2.00x speedup for sparse (twice as slow)")
	}
	if !strings.Contains(output, "### relax") {
		t.Error("expected a relax section header")
	}
}

func TestGenerateDisagreeingChecksums(t *testing.T) {
	entries := sampleEntries()
	entries[1].Result.Checksum = 2.5

	var buf bytes.Buffer
	if err := Generate(&buf, entries); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "DISAGREE") {
		t.Error("expected DISAGREE for differing checksums")
	}
	if !strings.Contains(output, "1.25") {
		t.Error("expected dense checksum in disagreement details")
	}
	if !strings.Contains(output, "2.5") {
		t.Error("expected sparse checksum in disagreement details")
	}
}

func TestGenerateReportsFailures(t *testing.T) {
	entries := append(sampleEntries(), Entry{
		Solver:   "blas",
		Workload: "relax",
		Err: &harness.InvocationError{
			Solver:   "blas",
			Workload: "relax",
			Phase:    harness.PhaseWarmUp,
			Err:      fmt.Errorf("boom"),
		},
	})

	var buf bytes.Buffer
	if err := Generate(&buf, entries); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	want := "benchmark unavailable for blas/relax: warm-up call failed: boom"
	if !strings.Contains(output, want) {
		t.Errorf("expected %q in output", want)
	}
	if strings.Count(output, "benchmark unavailable") != 1 {
		t.Error("expected exactly one unavailable line")
	}

	// Siblings still make it into the table.
	if !strings.Contains(output, "dense") {
		t.Error("expected dense despite the blas failure")
	}
}

func TestGenerateGroupsByWorkload(t *testing.T) {
	entries := sampleEntries()
	entries = append(entries, Entry{
		Solver:   "dense",
		Workload: "traject",
		Result: &harness.Result{
			Solver:   "dense",
			Workload: "traject",
			Count:    3,
			Mean:     30 * time.Millisecond,
			Checksum: 0.75,
		},
	})

	var buf bytes.Buffer
	if err := Generate(&buf, entries); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	relax := strings.Index(output, "### relax")
	traject := strings.Index(output, "### traject")

	if relax < 0 || traject < 0 {
		t.Fatal("expected one section per workload")
	}
	if traject < relax {
		t.Error("expected workloads in first-seen order")
	}
}

func TestGenerateEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, nil); err == nil {
		t.Error("expected error for empty entries")
	}
}

func TestGenerateJSON(t *testing.T) {
	entries := append(sampleEntries(), Entry{
		Solver:   "blas",
		Workload: "relax",
		Err:      fmt.Errorf("boom"),
	})

	var buf bytes.Buffer
	if err := GenerateJSON(&buf, entries); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	var parsed []struct {
		Solver   string          `json:"solver"`
		Workload string          `json:"workload"`
		Result   *harness.Result `json:"result"`
		Error    string          `json:"error"`
	}

	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(parsed) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(parsed))
	}
	if parsed[0].Result == nil || parsed[0].Result.Count != 5 {
		t.Error("expected dense result in JSON output")
	}
	if parsed[2].Error != "boom" {
		t.Errorf("error = %q, want boom", parsed[2].Error)
	}
	if parsed[2].Result != nil {
		t.Error("failed entry must not carry a result")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{500 * time.Nanosecond, "0.50µs"},
		{42 * time.Microsecond, "42.00µs"},
		{time.Millisecond, "1.00ms"},
		{999 * time.Millisecond, "999.00ms"},
		{time.Second, "1.00s"},
		{1500 * time.Millisecond, "1.50s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.input); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRenderChart(t *testing.T) {
	entries := append(sampleEntries(), Entry{
		Solver:   "blas",
		Workload: "relax",
		Err:      fmt.Errorf("boom"),
	})

	var buf bytes.Buffer
	if err := RenderChart(&buf, entries); err != nil {
		t.Fatalf("RenderChart failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Solver comparison") {
		t.Error("expected chart title in rendered page")
	}
	if !strings.Contains(output, "dense") {
		t.Error("expected dense series in rendered page")
	}
}

func TestRenderChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChart(&buf, nil); err == nil {
		t.Error("expected error for empty entries")
	}
}
