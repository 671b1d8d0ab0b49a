package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/aquaevents/types"
)

var checkEventsLimit int64

var checkEventsCmd = &cobra.Command{
	Use:   "check-events",
	Short: "Print the event count and the next upcoming events",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openEventStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		total, err := store.repo.Count(ctx, types.EventFilter{})
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}
		upcoming, err := store.service.Upcoming(ctx, checkEventsLimit)
		if err != nil {
			return fmt.Errorf("find upcoming events: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%d events in %s.%s", total, cfg.Database.Name, cfg.Database.EventsCollection)))
		fmt.Fprintf(out, "Next %d upcoming:\n", len(upcoming))
		renderTable(out, eventHeaders, eventRows(upcoming, cfg.Site.DefaultLocale))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkEventsCmd)
	checkEventsCmd.Flags().Int64VarP(&checkEventsLimit, "limit", "n", 10, "number of upcoming events to show")
}
