package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"vehicle-types"},
	Short:   "List the vehicle types found in the dataset",
	RunE:    runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	svc, _, err := newOfflineService(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	cats, err := svc.Categories(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, len(cats))
	for i, c := range cats {
		rows[i] = []string{strconv.Itoa(i + 1), c}
	}
	return renderTable(cmd.OutOrStdout(), []string{"#", "Vehicle type"}, rows)
}
