package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/voyage-ai/voyage/internal/types"
)

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "List archived trips",
	Args:  cobra.NoArgs,
	RunE:  runTrips,
}

var showCmd = &cobra.Command{
	Use:   "show <trip-id>",
	Short: "Show the active itinerary of an archived trip",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runTrips(cmd *cobra.Command, args []string) error {
	_, archive, closer, err := buildPipeline()
	if err != nil {
		return err
	}
	defer closer()

	trips, err := archive.ListTrips(cmd.Context())
	if err != nil {
		return err
	}
	if len(trips) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No trips archived yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDESTINATION\tDAYS\tBUDGET")
	for _, req := range trips {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", req.ID, req.Destination, req.Days(), req.TotalBudget)
	}
	return w.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	_, archive, closer, err := buildPipeline()
	if err != nil {
		return err
	}
	defer closer()

	ctx := cmd.Context()
	plan, err := archive.ActivePlan(ctx, types.ID(args[0]))
	if err != nil {
		return err
	}
	it, err := archive.Itinerary(ctx, plan.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Plan revision %d (%s)\n\n", plan.Revision, plan.Status)
	fmt.Fprintln(out, it.Text)
	for _, note := range it.DegradedNotes {
		fmt.Fprintf(out, "  - %s\n", note)
	}
	return nil
}
