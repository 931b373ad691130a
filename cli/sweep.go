package cli

import (
	"fmt"
	"time"

	"mada_server_go/data"
	"mada_server_go/jobs"
	"mada_server_go/services"

	"github.com/spf13/cobra"
)

// NewSweepCommand создает команду однократной пометки истекших записей.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Mark calendar entries that ended before today as expired",
		Long: `Mark calendar entries whose end date is before the given day as expired.

Example:
  mada sweep
  mada sweep --as-of 2024-01-01`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if asOf != "" {
				t, err := time.ParseInLocation("2006-01-02", asOf, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --as-of %q: %w", asOf, err)
				}
				now = t
			}

			cfg, logger, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			db, err := data.Open(cfg.Database, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			calendars := services.NewCalendarService(nil, data.NewCalendars(db, logger), cfg.CalendarOptions(), logger)
			n, err := jobs.RunExpiry(cmd.Context(), calendars, now)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "marked %d calendar entries as expired\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "day to compare end dates against (yyyy-MM-dd, default today)")
	return cmd
}
