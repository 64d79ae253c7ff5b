package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

var (
	flagElapsed   int
	flagRemaining int
	flagSpent     []string
	flagForce     bool
)

var replanCmd = &cobra.Command{
	Use:   "replan <trip-id>",
	Short: "Replan the remaining days of a trip against actual spending",
	Long: `Replan checks actual mid-trip spending against the replan triggers
and, when warranted (or forced), rebuilds the remaining days in tight
mode under the leftover budget. Elapsed days are never rewritten.`,
	Example: `  voyage replan 7f3a... --elapsed 3 --remaining 2 --spent food=9500,accommodation=12000,transport=3000`,
	Args:    cobra.ExactArgs(1),
	RunE:    runReplan,
}

func init() {
	replanCmd.Flags().IntVar(&flagElapsed, "elapsed", 0, "days already lived")
	replanCmd.Flags().IntVar(&flagRemaining, "remaining", 0, "days still ahead")
	replanCmd.Flags().StringSliceVar(&flagSpent, "spent", nil, "actual spend as category=rupees pairs")
	replanCmd.Flags().BoolVar(&flagForce, "force", false, "replan even when no trigger fires")
	replanCmd.MarkFlagRequired("elapsed")
	replanCmd.MarkFlagRequired("remaining")
	replanCmd.MarkFlagRequired("spent")
}

func runReplan(cmd *cobra.Command, args []string) error {
	o, archive, closer, err := buildPipeline()
	if err != nil {
		return err
	}
	defer closer()

	tripID := types.ID(args[0])
	spent, err := parseSpent(flagSpent)
	if err != nil {
		return err
	}

	req, err := archive.GetTrip(cmd.Context(), tripID)
	if err != nil {
		return err
	}

	rctx := trip.ReplanContext{
		TripID:        tripID,
		DaysElapsed:   flagElapsed,
		DaysRemaining: flagRemaining,
		SpentSoFar:    spent,
		TotalBudget:   req.TotalBudget,
	}
	if err := rctx.Validate(); err != nil {
		return err
	}

	outcome, err := o.Replan(cmd.Context(), rctx, flagForce)
	if err != nil {
		return err
	}

	if outcome.Itinerary == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Spending is on pace; the active plan stands.")
		return nil
	}
	printOutcome(cmd, outcome)
	return nil
}

// parseSpent parses category=rupees pairs into a spend table.
func parseSpent(pairs []string) (map[trip.Category]types.Money, error) {
	spent := make(map[trip.Category]types.Money, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("malformed --spent entry %q, want category=rupees", pair)
		}
		category, err := trip.ParseCategory(strings.TrimSpace(key))
		if err != nil {
			return nil, err
		}
		amount, ok := types.ParseAmount(strings.TrimSpace(value))
		if !ok {
			return nil, fmt.Errorf("malformed amount in --spent entry %q", pair)
		}
		spent[category] = amount
	}
	return spent, nil
}
