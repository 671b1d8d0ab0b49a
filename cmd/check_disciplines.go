package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/aquaevents/types"
)

var checkDisciplinesUpcoming bool

var checkDisciplinesCmd = &cobra.Command{
	Use:   "check-disciplines",
	Short: "List distinct disciplines with their event counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openEventStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		var filter types.EventFilter
		if checkDisciplinesUpcoming {
			filter.From = startOfToday()
		}
		counts, err := store.service.Disciplines(ctx, filter)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(counts))
		for _, c := range counts {
			name := c.Discipline
			if name == "" {
				name = "(none)"
			}
			rows = append(rows, []string{name, strconv.FormatInt(c.Count, 10)})
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%d disciplines", len(counts))))
		renderTable(out, []string{"Discipline", "Events"}, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkDisciplinesCmd)
	checkDisciplinesCmd.Flags().BoolVar(&checkDisciplinesUpcoming, "upcoming", false, "only count upcoming events")
}
