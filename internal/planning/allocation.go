// Package planning turns a validated trip request and its research bundle
// into a day-partitioned itinerary plan. The same machinery serves first
// plans, mid-trip replans over the remaining days, and single-day
// optimizations.
package planning

import (
	"github.com/samber/lo"

	"github.com/voyage-ai/voyage/internal/config"
	"github.com/voyage-ai/voyage/internal/research"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

// Allocate partitions the total budget across spending categories. Each
// category starts from the configured default split, is blended with what
// research says the destination actually costs, and the result is
// renormalized so the categories sum to exactly the total budget.
func Allocate(req *trip.Request, bundle *research.Bundle, split config.CategorySplit) trip.Allocation {
	return allocateBudget(req.TotalBudget, req.Days(), max(req.PartySize, 1), bundle, split)
}

func allocateBudget(budget types.Money, days, party int, bundle *research.Bundle, split config.CategorySplit) trip.Allocation {
	defaults := splitAmounts(budget, split)
	estimates := researchedAmounts(days, party, bundle)

	blended := make(trip.Allocation, len(defaults))
	for _, category := range trip.Categories() {
		amount := defaults[category]
		if estimate, ok := estimates[category]; ok && estimate > 0 {
			amount = (amount + estimate) / 2
		}
		blended[category] = amount
	}
	return renormalize(blended, budget)
}

// splitAmounts applies the percentage split to the budget.
func splitAmounts(budget types.Money, split config.CategorySplit) trip.Allocation {
	pct := func(p int) types.Money {
		return types.Money(int64(budget) * int64(p) / 100)
	}
	return trip.Allocation{
		trip.CategoryAccommodation: pct(split.Accommodation),
		trip.CategoryFood:          pct(split.Food),
		trip.CategoryTransport:     pct(split.Transport),
		trip.CategoryActivities:    pct(split.Activities),
		trip.CategoryShopping:      pct(split.Shopping),
		trip.CategoryEmergency:     pct(split.Emergency),
	}
}

// researchedAmounts derives whole-trip category costs from the bundle.
// Search results beat the generic budget estimate where both exist.
func researchedAmounts(days, party int, bundle *research.Bundle) trip.Allocation {
	amounts := make(trip.Allocation)
	if bundle == nil || days <= 0 {
		return amounts
	}

	if estimate, ok := bundle.BudgetEstimate(); ok {
		for category, perDay := range estimate.PerCategoryPerDay {
			amounts[category] = perDay * types.Money(days)
		}
	}

	nights := max(days-1, 0)
	if stays, ok := bundle.Stays(); ok && !stays.TypicalNightly.IsZero() && nights > 0 {
		amounts[trip.CategoryAccommodation] = stays.TypicalNightly * types.Money(nights)
	}

	if prices, ok := bundle.Prices(); ok {
		if !prices.MealPerHead.IsZero() {
			amounts[trip.CategoryFood] = prices.MealPerHead * 3 * types.Money(party) * types.Money(days)
		}
		if !prices.LocalTransportPerDay.IsZero() {
			local := prices.LocalTransportPerDay * types.Money(days)
			if transport, ok := bundle.Transport(); ok && !transport.TypicalFare.IsZero() {
				local += transport.TypicalFare * types.Money(party)
			}
			amounts[trip.CategoryTransport] = local
		}
	} else if transport, ok := bundle.Transport(); ok && !transport.TypicalFare.IsZero() {
		amounts[trip.CategoryTransport] = transport.TypicalFare * types.Money(party)
	}

	return amounts
}

// renormalize scales the allocation so its categories sum to exactly the
// budget. Integer truncation leaves a residual of at most a few paise, which
// lands on the largest category.
func renormalize(alloc trip.Allocation, budget types.Money) trip.Allocation {
	total := alloc.Total()
	if total == 0 {
		return alloc
	}

	out := make(trip.Allocation, len(alloc))
	for category, amount := range alloc {
		out[category] = types.Money(int64(amount) * int64(budget) / int64(total))
	}

	if residual := budget - out.Total(); residual != 0 {
		largest := lo.MaxBy(trip.Categories(), func(a, b trip.Category) bool {
			return out[a] > out[b]
		})
		out[largest] += residual
	}
	return out
}
