// Package runio handles the on-disk artefacts a run produces: topology
// serialisation, objective/timing result files, and Pareto-front plots.
package runio

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"dcvnfopt/internal/solution"
)

// objectiveNames labels the three objectives the queueing evaluator
// produces, in order.
var objectiveNames = [3]string{"mean latency", "mean packet loss", "energy"}

// PlotParetoFront renders the three pairwise 2D projections of a
// (up to) 3-objective Pareto front as scatter charts in a single HTML
// page, since a 3-objective front cannot be drawn directly the way the
// teacher's 2-objective PlotResults does.
func PlotParetoFront[X any](population []solution.Solution[X], algorithmName, problemName, outputPath string) error {
	if len(population) == 0 {
		return fmt.Errorf("results are empty for %s", problemName)
	}

	numObjectives := len(population[0].Objectives.Values)
	if numObjectives < 2 {
		return fmt.Errorf("need at least 2 objectives to plot, got %d", numObjectives)
	}

	page := charts.NewPage()
	page.PageTitle = fmt.Sprintf("%s results for %s", algorithmName, problemName)

	for i := 0; i < numObjectives; i++ {
		for j := i + 1; j < numObjectives; j++ {
			page.AddCharts(pairScatter(population, i, j, algorithmName, problemName))
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return page.Render(f)
}

func pairScatter[X any](population []solution.Solution[X], i, j int, algorithmName, problemName string) *charts.Scatter {
	nameI, nameJ := axisName(i), axisName(j)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s vs %s (%s)", nameI, nameJ, problemName),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      nameI,
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      nameJ,
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}))

	points := make([]opts.ScatterData, 0, len(population))
	for _, m := range population {
		if m.Objectives.Tag != solution.Feasible {
			continue
		}
		points = append(points, opts.ScatterData{
			Value:      []float64{m.Objectives.Values[i], m.Objectives.Values[j]},
			Symbol:     "triangle",
			SymbolSize: 8,
		})
	}

	scatter.AddSeries(fmt.Sprintf("%s solutions", algorithmName), points).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
			charts.WithEmphasisOpts(opts.Emphasis{}),
		)

	return scatter
}

func axisName(i int) string {
	if i < len(objectiveNames) {
		return objectiveNames[i]
	}
	return fmt.Sprintf("f%d(x)", i)
}
