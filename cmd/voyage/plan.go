package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/voyage-ai/voyage/internal/orchestrator"
)

var (
	flagStart string
	flagEnd   string
)

var planCmd = &cobra.Command{
	Use:   "plan <prompt>",
	Short: "Plan a trip from a natural-language prompt",
	Long: `Plan extracts a structured trip request from the prompt, researches
the destination, and prints a budget-partitioned day-by-day itinerary.

When the prompt leaves a mandatory detail unresolved, voyage asks one
clarification question at a time and reads answers from stdin.`,
	Example: `  voyage plan "Plan a 5-day trip to Goa from Mumbai under ₹30,000 for 2 people"`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runPlan,
}

func init() {
	planCmd.Flags().StringVar(&flagStart, "start", "", "trip start date (YYYY-MM-DD), overrides dates in the prompt")
	planCmd.Flags().StringVar(&flagEnd, "end", "", "trip end date (YYYY-MM-DD), overrides dates in the prompt")
}

// planDates turns the optional date flags into plan options.
func planDates() ([]orchestrator.PlanOption, error) {
	if flagStart == "" && flagEnd == "" {
		return nil, nil
	}
	parse := func(name, value string) (time.Time, error) {
		if value == "" {
			return time.Time{}, nil
		}
		d, err := time.Parse("2006-01-02", value)
		if err != nil {
			return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD, got %q", name, value)
		}
		return d, nil
	}
	start, err := parse("start", flagStart)
	if err != nil {
		return nil, err
	}
	end, err := parse("end", flagEnd)
	if err != nil {
		return nil, err
	}
	return []orchestrator.PlanOption{orchestrator.WithDates(start, end)}, nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	o, _, closer, err := buildPipeline()
	if err != nil {
		return err
	}
	defer closer()

	ctx := cmd.Context()
	prompt := strings.Join(args, " ")
	dates, err := planDates()
	if err != nil {
		return err
	}

	outcome, err := o.Plan(ctx, prompt, dates...)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	for outcome.State == orchestrator.StateNeedsInfo {
		fmt.Fprintln(cmd.OutOrStdout(), outcome.Question)
		fmt.Fprint(cmd.OutOrStdout(), "> ")
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("no answer received: %w", err)
		}
		outcome, err = o.Resume(ctx, outcome.Request, strings.TrimSpace(answer))
		if err != nil {
			return err
		}
	}

	printOutcome(cmd, outcome)
	return nil
}

func printOutcome(cmd *cobra.Command, outcome *orchestrator.Outcome) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Trip %s (plan revision %d)\n\n", outcome.Request.ID, outcome.Plan.Revision)
	fmt.Fprintln(out, outcome.Itinerary.Text)

	if !outcome.Itinerary.Overage.IsZero() {
		fmt.Fprintf(out, "\nNote: estimated total exceeds the budget by %s.\n", outcome.Itinerary.Overage)
	}
	for _, note := range outcome.Itinerary.DegradedNotes {
		fmt.Fprintf(out, "  - %s\n", note)
	}
}
