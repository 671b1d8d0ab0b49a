package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var checkDatesCmd = &cobra.Command{
	Use:   "check-dates",
	Short: "Report how events are spread over time",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openEventStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		report, err := store.service.DateReport(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Event dates"))
		renderTable(out, []string{"Metric", "Value"}, [][]string{
			{"Total", strconv.FormatInt(report.Total, 10)},
			{"Past", strconv.FormatInt(report.Past, 10)},
			{"Upcoming", strconv.FormatInt(report.Upcoming, 10)},
			{"Without date", strconv.FormatInt(report.Undated, 10)},
			{"Earliest", formatDate(report.Earliest)},
			{"Latest", formatDate(report.Latest)},
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkDatesCmd)
}
