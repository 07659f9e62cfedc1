package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/regcast/core/forecast"
	"github.com/kilianp07/regcast/pkg/export"
)

var (
	predictCategory string
	predictYear     int
	predictFormat   string
	predictOutput   string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Forecast registrations for one vehicle type",
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictCategory, "category", "", "vehicle type to forecast")
	predictCmd.Flags().IntVar(&predictYear, "year", 0, "first year kept in the forecast")
	predictCmd.Flags().StringVarP(&predictFormat, "format", "f", "json", "output format: json, csv or html")
	predictCmd.Flags().StringVarP(&predictOutput, "output", "o", "", "write to file instead of stdout")
	_ = predictCmd.MarkFlagRequired("category")
	_ = predictCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(predictCmd)
}

// runPredict prints {"error": "..."} on stdout and exits non-zero when the
// forecast fails, so scripted callers always receive JSON.
func runPredict(cmd *cobra.Command, args []string) error {
	svc, cfg, err := newOfflineService(cmd)
	if err != nil {
		return reportJSON(cmd.OutOrStdout(), err.Error(), err)
	}
	defer func() { _ = svc.Close() }()

	res, err := svc.Predict(cmd.Context(), predictCategory, predictYear)
	if err != nil {
		msg := err.Error()
		var noData *forecast.NoDataError
		if errors.As(err, &noData) {
			msg = forecast.NoDataMessage(cfg.Forecast.Language)
		}
		return reportJSON(cmd.OutOrStdout(), msg, err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if predictOutput != "" {
		f, err := os.Create(predictOutput)
		if err != nil {
			return reportJSON(cmd.OutOrStdout(), err.Error(), err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	if err := export.Write(w, predictFormat, res); err != nil {
		return reportJSON(cmd.OutOrStdout(), err.Error(), err)
	}
	return nil
}

func reportJSON(w io.Writer, msg string, err error) error {
	if encErr := json.NewEncoder(w).Encode(map[string]string{"error": msg}); encErr != nil {
		return fmt.Errorf("%w (encode: %v)", err, encErr)
	}
	return fmt.Errorf("%w: %w", errReported, err)
}
