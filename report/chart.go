package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderChart writes an HTML page with a grouped bar chart: one group
// per workload on the X axis, one series per solver, mean milliseconds
// on the Y axis. Failed entries contribute an empty bar.
func RenderChart(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("no results to chart")
	}

	workloads := workloadOrder(entries)
	solvers := solverOrder(entries)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Solver comparison",
			Subtitle: "mean wall-clock time per invocation (ms)",
		}),
	)

	bar.SetXAxis(workloads)

	for _, solver := range solvers {
		series := make([]opts.BarData, 0, len(workloads))

		for _, kind := range workloads {
			series = append(series, barValue(entries, solver, kind))
		}

		bar.AddSeries(solver, series)
	}

	page := components.NewPage()
	page.AddCharts(bar)

	return page.Render(w)
}

func solverOrder(entries []Entry) []string {
	seen := make(map[string]bool, len(entries))

	var order []string

	for _, e := range entries {
		if !seen[e.Solver] {
			seen[e.Solver] = true
			order = append(order, e.Solver)
		}
	}

	return order
}

func barValue(entries []Entry, solver, kind string) opts.BarData {
	for _, e := range entries {
		if e.Solver != solver || e.Workload != kind {
			continue
		}

		if e.Err != nil || e.Result == nil {
			break
		}

		ms := float64(e.Result.Mean.Nanoseconds()) / 1e6

		return opts.BarData{Value: ms}
	}

	return opts.BarData{Value: "-"}
}
