package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"panel-dashboard/internal/tickets"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

var (
	ticketsRange  string
	ticketsStatus string
	ticketsSearch string
	ticketsTZ     string
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "List tickets newest first with range/status/search filters and range counts",
	RunE:  runTickets,
}

func init() {
	ticketsCmd.Flags().StringVar(&ticketsRange, "range", "all", "all|today|thisWeek|lastWeek|thisMonth|lastMonth")
	ticketsCmd.Flags().StringVar(&ticketsStatus, "status", "all", "all|open|inProgress")
	ticketsCmd.Flags().StringVar(&ticketsSearch, "search", "", "bus stop code or location substring")
	ticketsCmd.Flags().StringVar(&ticketsTZ, "tz", "Local", "time zone the range buckets are computed in")
	rootCmd.AddCommand(ticketsCmd)
}

func runTickets(cmd *cobra.Command, args []string) error {
	key, err := tickets.ParseRangeKey(ticketsRange)
	if err != nil {
		return err
	}
	status, err := tickets.ParseStatusKey(ticketsStatus)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(ticketsTZ)
	if err != nil {
		return fmt.Errorf("tz: %w", err)
	}

	snapshot, err := client().ListTickets(cmd.Context())
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}
	res := tickets.NewEngine(clockwork.NewRealClock(), loc).Evaluate(snapshot, key, status, ticketsSearch)

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBUS STOP\tLOCATION\tSTATUS\tCREATED\tAGE\tATTENDED")
	for _, r := range res.Tickets {
		attended := "no"
		if r.Attended {
			attended = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.BusStopCode, r.Location, r.Status, r.DateCreated, r.Age, attended)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s: all=%d open=%d inProgress=%d (showing %d)\n",
		res.Range, res.Counts.All, res.Counts.Open, res.Counts.InProgress, len(res.Tickets))
	return nil
}
