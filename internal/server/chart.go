package server

import (
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/piwi3910/LaminateCut/internal/model"
)

// WasteChart builds a bar chart with one bar per sheet.
func WasteChart(plan model.Plan) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "LaminateCut waste"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Waste per sheet",
			Subtitle: "Mean " + model.FormatPercent(plan.Stats.MeanPercent),
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Waste %"}),
	)

	var labels []string
	var values []opts.BarData
	for _, mp := range plan.Materials {
		for _, s := range mp.Sheets {
			labels = append(labels, s.Label())
			values = append(values, opts.BarData{Value: math.Round(s.WastePercent()*100) / 100})
		}
	}

	bar.SetXAxis(labels).AddSeries("Waste %", values)
	return bar
}

// RenderWasteChart writes the chart as a standalone HTML page.
func RenderWasteChart(w io.Writer, plan model.Plan) error {
	return WasteChart(plan).Render(w)
}
