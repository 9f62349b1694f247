package fuzz

import (
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderStatsChart renders the session counters as an HTML bar chart.
func RenderStatsChart(stats Stats, title string, w io.Writer) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "Differential testing outcome counters",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	bar.SetXAxis([]string{"Total", "Valid", "Invalid", "Bugs", "Crashes"}).
		AddSeries("outcomes", []opts.BarData{
			{Value: stats.Total},
			{Value: stats.Total - stats.InvalidBytecodes},
			{Value: stats.InvalidBytecodes},
			{Value: stats.BugsFound},
			{Value: stats.Crashes},
		})
	return bar.Render(w)
}

// WriteStatsChart renders the chart into a file at path.
func WriteStatsChart(stats Stats, title, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return RenderStatsChart(stats, title, f)
}
