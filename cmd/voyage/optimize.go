package main

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/voyage-ai/voyage/internal/planning"
	"github.com/voyage-ai/voyage/internal/types"
)

var (
	flagDay    int
	flagFrom   string
	flagNear   string
	flagBudget string
)

var timeOfDay = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

var optimizeDayCmd = &cobra.Command{
	Use:   "optimize-day <trip-id>",
	Short: "Rebuild the remainder of one day of the active plan",
	Long: `Optimize-day releases the budget of the not-yet-started activities of
a single day and refills the freed slots with alternatives the plan has
not used yet. Everything before the cutoff time, and every other day,
stays untouched.`,
	Example: `  voyage optimize-day 7f3a... --day 2 --from 14:00 --near Panjim --budget ₹1,500`,
	Args:    cobra.ExactArgs(1),
	RunE:    runOptimizeDay,
}

func init() {
	optimizeDayCmd.Flags().IntVar(&flagDay, "day", 0, "day number to rebuild (1-based)")
	optimizeDayCmd.Flags().StringVar(&flagFrom, "from", "14:00", "cutoff time HH:MM, slots at or after it are rebuilt")
	optimizeDayCmd.Flags().StringVar(&flagNear, "near", "", "current location, nearby alternatives are preferred")
	optimizeDayCmd.Flags().StringVar(&flagBudget, "budget", "", "money actually left for today, defaults to what the dropped activities release")
	optimizeDayCmd.MarkFlagRequired("day")
}

func runOptimizeDay(cmd *cobra.Command, args []string) error {
	if !timeOfDay.MatchString(flagFrom) {
		return fmt.Errorf("--from must be HH:MM, got %q", flagFrom)
	}
	opt := planning.DayOptRequest{DayNumber: flagDay, From: flagFrom, Near: flagNear}
	if flagBudget != "" {
		amount, ok := types.ParseAmount(flagBudget)
		if !ok {
			return fmt.Errorf("--budget must be an amount, got %q", flagBudget)
		}
		opt.Budget = amount
	}

	o, _, closer, err := buildPipeline()
	if err != nil {
		return err
	}
	defer closer()

	outcome, err := o.OptimizeDay(cmd.Context(), types.ID(args[0]), opt)
	if err != nil {
		return err
	}
	printOutcome(cmd, outcome)
	return nil
}
