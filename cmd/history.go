package cmd

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	corehistory "github.com/kilianp07/regcast/core/history"
)

var (
	historyCategory string
	historyLimit    int
	historySince    time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent forecast runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyCategory, "category", "", "only show this vehicle type")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "only show runs newer than this duration")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	svc, _, err := newOfflineService(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	q := corehistory.Query{Category: historyCategory, Limit: historyLimit}
	if historySince > 0 {
		q.Start = time.Now().Add(-historySince)
	}
	recs, err := svc.History(cmd.Context(), q)
	if err != nil {
		return err
	}
	return renderTable(cmd.OutOrStdout(), historyHeader, historyRows(recs))
}

var historyHeader = []string{"Time", "Vehicle type", "Year", "Method", "Samples", "R²", "Forecast", "Error"}

func historyRows(recs []corehistory.Record) [][]string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		points := make([]string, len(r.Forecast))
		for j, p := range r.Forecast {
			points[j] = strconv.Itoa(p.Year) + ":" + strconv.FormatInt(p.Count, 10)
		}
		r2 := ""
		if r.Error == "" {
			r2 = strconv.FormatFloat(r.Fit.RSquared, 'f', 3, 64)
		}
		rows[i] = []string{
			r.Timestamp.Local().Format(time.DateTime),
			r.Category,
			strconv.Itoa(r.TargetYear),
			r.Method,
			strconv.Itoa(r.SampleSize),
			r2,
			strings.Join(points, " "),
			r.Error,
		}
	}
	return rows
}
