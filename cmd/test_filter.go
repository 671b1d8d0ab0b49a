package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/aquaevents/types"
	"go.uber.org/zap"
)

var testFilterFlags struct {
	discipline string
	region     string
	city       string
	from       string
	to         string
	limit      int64
	desc       bool
}

var testFilterCmd = &cobra.Command{
	Use:   "test-filter",
	Short: "Run an event query the way the site does and print the result",
	Example: `  aquaevents test-filter --discipline open_water --from 2026-06-01 --to 2026-09-01
  aquaevents test-filter --region Cantabria --desc`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := testFilter()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		store, err := openEventStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		log.Debug("running event filter", zap.Any("filter", filter))
		events, total, err := store.service.Search(ctx, filter)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%d matching events, showing %d", total, len(events))))
		renderTable(out, eventHeaders, eventRows(events, cfg.Site.DefaultLocale))
		return nil
	},
}

func testFilter() (types.EventFilter, error) {
	f := testFilterFlags
	filter := types.EventFilter{
		Discipline: f.discipline,
		Region:     f.region,
		City:       f.city,
		Limit:      f.limit,
		Sort:       types.SortDateAsc,
	}
	if f.desc {
		filter.Sort = types.SortDateDesc
	}
	var err error
	if f.from != "" {
		if filter.From, err = time.Parse(time.DateOnly, f.from); err != nil {
			return filter, fmt.Errorf("%w: --from: %v", types.ErrInvalidFilter, err)
		}
	}
	if f.to != "" {
		if filter.To, err = time.Parse(time.DateOnly, f.to); err != nil {
			return filter, fmt.Errorf("%w: --to: %v", types.ErrInvalidFilter, err)
		}
	}
	return filter, filter.Validate()
}

func startOfToday() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

func init() {
	rootCmd.AddCommand(testFilterCmd)
	flags := testFilterCmd.Flags()
	flags.StringVar(&testFilterFlags.discipline, "discipline", "", "discipline, e.g. open_water")
	flags.StringVar(&testFilterFlags.region, "region", "", "region, case-insensitive")
	flags.StringVar(&testFilterFlags.city, "city", "", "city, case-insensitive")
	flags.StringVar(&testFilterFlags.from, "from", "", "first day, inclusive (YYYY-MM-DD)")
	flags.StringVar(&testFilterFlags.to, "to", "", "last day, exclusive (YYYY-MM-DD)")
	flags.Int64VarP(&testFilterFlags.limit, "limit", "n", 20, "maximum events to print")
	flags.BoolVar(&testFilterFlags.desc, "desc", false, "sort by date descending")
}
