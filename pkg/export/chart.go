package export

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/regcast/core/forecast"
)

// gap is rendered by echarts as a missing value.
const gap = "-"

// WriteHTMLChart renders the observed series and the forecast as a line
// chart page.
func WriteHTMLChart(w io.Writer, res forecast.Result) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "regcast", Width: "960px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: res.Category, Subtitle: res.MethodLabel}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Year"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Vehicles"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	years := axisYears(res)
	xAxis := make([]string, len(years))
	for i, y := range years {
		xAxis[i] = strconv.Itoa(y)
	}
	historical := make(map[int]int64, len(res.Historical))
	for _, o := range res.Historical {
		historical[o.Year] = o.Count
	}

	line.SetXAxis(xAxis).
		AddSeries("Historical", series(years, historical)).
		AddSeries("Forecast", series(years, byYear(res.Forecast)),
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))
	if len(res.NewtonForecast) > 0 {
		line.AddSeries("Linear", series(years, byYear(res.LinearForecast)),
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dotted"})).
			AddSeries("Newton", series(years, byYear(res.NewtonForecast)),
				charts.WithLineStyleOpts(opts.LineStyle{Type: "dotted"}))
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func axisYears(res forecast.Result) []int {
	seen := make(map[int]struct{})
	var years []int
	add := func(y int) {
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			years = append(years, y)
		}
	}
	for _, o := range res.Historical {
		add(o.Year)
	}
	for _, p := range res.Forecast {
		add(p.Year)
	}
	sort.Ints(years)
	return years
}

func series(years []int, values map[int]int64) []opts.LineData {
	data := make([]opts.LineData, len(years))
	for i, y := range years {
		if v, ok := values[y]; ok {
			data[i] = opts.LineData{Value: v}
		} else {
			data[i] = opts.LineData{Value: gap}
		}
	}
	return data
}
