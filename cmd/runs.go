package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/feature/catalog/repository"

	"github.com/spf13/cobra"
)

var runsLimit int

// runsCmd prints the sync run history.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent sync runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		runs, err := repository.New(db).ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			return fmt.Errorf("failed to list sync runs: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tSTATUS\tSTATE\tDRY\tADDED\tSTALE\tPRUNED\tRECONCILED\tDURATION\tERROR")
		for _, run := range runs {
			duration := "-"
			if run.FinishedAt != nil {
				duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\t%d\t%d\t%d\t%s\t%s\n",
				run.StartedAt.Format(time.DateTime), run.Status, run.State, run.DryRun,
				run.Added, run.Stale, run.Pruned, run.Reconciled, duration, run.Error)
		}
		return w.Flush()
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Number of runs to show")
	RootCmd.AddCommand(runsCmd)
}
