package main

import (
	"fmt"

	"panel-dashboard/internal/backend"
	"panel-dashboard/internal/panels"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Panel and screen totals plus software/hardware report counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ov, err := backend.LoadOverview(cmd.Context(), client())
		if err != nil {
			return fmt.Errorf("overview: %w", err)
		}
		s, r := ov.Summary, ov.Reports
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Panels:   %s (%s digital, %s hybrid)\n", humanize.Comma(int64(s.TotalPanels)), humanize.Comma(int64(s.DigitalPanels)), humanize.Comma(int64(s.HybridPanels)))
		fmt.Fprintf(out, "Screens:  %s\n", humanize.Comma(int64(s.TotalScreens)))
		fmt.Fprintf(out, "Reports:  %d software, %d hardware\n", r.Software, r.Hardware)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <busStopCode>",
	Short: "Show the panel at a bus stop with navigation links",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := backend.AllPanels(cmd.Context(), client(), backend.PanelQuery{Search: args[0]})
		if err != nil {
			return fmt.Errorf("list panels: %w", err)
		}
		p, ok := panels.FindByBusStop(list, args[0])
		if !ok {
			return fmt.Errorf("no panel at bus stop %s", args[0])
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Viewer:    %s\nType:      %s\nBus stop:  %s\nLocation:  %s\nRoad:      %s\n",
			p.ViewerID, p.PanelType, p.BusStopCode, p.Location, p.RoadName)
		if nav, ok := panels.NavigationFor(p); ok {
			fmt.Fprintf(out, "Maps:      %s\nWaze:      %s\nMap:       %s\n", nav.GoogleMaps, nav.Waze, nav.MapEmbed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(stopCmd)
}
