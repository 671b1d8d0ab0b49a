package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var backfillDryRun bool

var backfillSlugsCmd = &cobra.Command{
	Use:   "backfill-slugs",
	Short: "Give every event without a slug one derived from its name and date",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openEventStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if !backfillDryRun {
			if err := store.repo.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("ensure indexes: %w", err)
			}
		}

		assigned, err := store.service.BackfillSlugs(ctx, backfillDryRun)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(assigned))
		for id := range assigned {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		rows := make([][]string, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, []string{id, assigned[id]})
		}

		out := cmd.OutOrStdout()
		verb := "assigned"
		if backfillDryRun {
			verb = "would assign"
		}
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s %d slugs", verb, len(assigned))))
		if len(rows) > 0 {
			renderTable(out, []string{"Event ID", "Slug"}, rows)
		}
		log.Info("slug backfill finished", zap.Int("slugs", len(assigned)), zap.Bool("dry_run", backfillDryRun))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backfillSlugsCmd)
	backfillSlugsCmd.Flags().BoolVar(&backfillDryRun, "dry-run", false, "print the slugs without writing them")
}
