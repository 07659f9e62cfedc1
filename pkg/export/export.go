// Package export writes forecast results as JSON, CSV or an HTML chart.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/regcast/core/forecast"
	"github.com/kilianp07/regcast/core/model"
)

// Formats lists the supported output formats.
var Formats = []string{"json", "csv", "html"}

// Write encodes res to w in format.
func Write(w io.Writer, format string, res forecast.Result) error {
	switch format {
	case "json", "":
		return WriteJSON(w, res)
	case "csv":
		return WriteCSV(w, res)
	case "html":
		return WriteHTMLChart(w, res)
	default:
		return fmt.Errorf("unsupported format %q (known: %v)", format, Formats)
	}
}

// WriteJSON writes the forecast result to w in JSON format.
func WriteJSON(w io.Writer, res forecast.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteCSV writes one row per year: observed counts first, then the
// forecast with its linear and Newton components.
func WriteCSV(w io.Writer, res forecast.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vehicle_type", "year", "kind", "count", "linear", "newton"}); err != nil {
		return err
	}
	for _, o := range res.Historical {
		rec := []string{res.Category, strconv.Itoa(o.Year), "observed", strconv.FormatInt(o.Count, 10), "", ""}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	linear := byYear(res.LinearForecast)
	newton := byYear(res.NewtonForecast)
	for _, p := range res.Forecast {
		rec := []string{
			res.Category,
			strconv.Itoa(p.Year),
			"forecast",
			strconv.FormatInt(p.Count, 10),
			lookup(linear, p.Year),
			lookup(newton, p.Year),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func byYear(points []model.ForecastPoint) map[int]int64 {
	m := make(map[int]int64, len(points))
	for _, p := range points {
		m[p.Year] = p.Count
	}
	return m
}

func lookup(m map[int]int64, year int) string {
	v, ok := m[year]
	if !ok {
		return ""
	}
	return strconv.FormatInt(v, 10)
}
