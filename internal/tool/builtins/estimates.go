package builtins

import (
	"context"

	"github.com/voyage-ai/voyage/internal/places"
	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

// baselinePerDay is the per-category daily spend for one traveler at the
// national baseline (cost index 1.0, balanced style), in whole rupees.
var baselinePerDay = map[trip.Category]int64{
	trip.CategoryAccommodation: 1200,
	trip.CategoryFood:          700,
	trip.CategoryTransport:     400,
	trip.CategoryActivities:    500,
	trip.CategoryShopping:      200,
	trip.CategoryEmergency:     100,
}

// budgetEstimateTool synthesizes typical daily spend for a destination from
// baseline rates scaled by regional cost index and travel style.
type budgetEstimateTool struct {
	base
}

func (t *budgetEstimateTool) Kind() tool.Kind { return tool.KindBudgetEstimate }
func (t *budgetEstimateTool) Name() string    { return "builtin-budget-estimate" }
func (t *budgetEstimateTool) Description() string {
	return "Estimates typical per-day spend for a destination, broken down by category"
}
func (t *budgetEstimateTool) Tags() []string { return []string{"budget", "estimate"} }

func (t *budgetEstimateTool) Execute(ctx context.Context, q tool.Query) (tool.Payload, error) {
	p, err := t.resolve(q)
	if err != nil {
		return nil, err
	}

	factor := p.CostIndex * styleFactor(q.Style)
	perCategory := make(map[trip.Category]types.Money, len(baselinePerDay))
	var perDay types.Money
	for category, rupees := range baselinePerDay {
		amount := scale(types.FromMajor(rupees), factor)
		perCategory[category] = amount
		perDay += amount
	}

	return tool.BudgetEstimate{
		PerDay:              perDay,
		PerCategoryPerDay:   perCategory,
		MinimumViablePerDay: minimumViablePerDay(p),
	}, nil
}

// minimumViablePerDay is the cheapest workable daily spend at the place:
// the cheapest listed stay, three of the cheapest meals, and basic local
// transport. Falls back to cost-index-scaled baselines when the place lists
// no options.
func minimumViablePerDay(p *places.Place) types.Money {
	stay := scale(types.FromMajor(600), p.CostIndex)
	if len(p.Stays) > 0 {
		cheapest := p.Stays[0].Nightly
		for _, s := range p.Stays[1:] {
			if s.Nightly < cheapest {
				cheapest = s.Nightly
			}
		}
		stay = types.FromMajor(cheapest)
	}

	meal := scale(types.FromMajor(150), p.CostIndex)
	if len(p.Restaurants) > 0 {
		cheapest := p.Restaurants[0].MealPrice
		for _, r := range p.Restaurants[1:] {
			if r.MealPrice < cheapest {
				cheapest = r.MealPrice
			}
		}
		meal = types.FromMajor(cheapest)
	}

	local := scale(types.FromMajor(150), p.CostIndex)
	return stay + 3*meal + local
}

// priceTool synthesizes local price points from the place's dining options
// and cost index.
type priceTool struct {
	base
}

func (t *priceTool) Kind() tool.Kind { return tool.KindPriceEstimate }
func (t *priceTool) Name() string    { return "builtin-price-estimate" }
func (t *priceTool) Description() string {
	return "Estimates local price points such as meal cost and daily transport"
}
func (t *priceTool) Tags() []string { return []string{"prices", "estimate"} }

func (t *priceTool) Execute(ctx context.Context, q tool.Query) (tool.Payload, error) {
	p, err := t.resolve(q)
	if err != nil {
		return nil, err
	}

	meal := scale(types.FromMajor(300), p.CostIndex*styleFactor(q.Style))
	if len(p.Restaurants) > 0 {
		meals := make([]types.Money, 0, len(p.Restaurants))
		for _, r := range p.Restaurants {
			meals = append(meals, types.FromMajor(r.MealPrice))
		}
		meal = scale(median(meals), styleFactor(q.Style))
	}

	local := scale(types.FromMajor(150), p.CostIndex)
	if q.Style == trip.StyleLuxury {
		// Cab-first travelers spend well above the auto and bus baseline.
		local = scale(local, 2.5)
	}

	return tool.PriceEstimates{
		MealPerHead:          meal,
		LocalTransportPerDay: local,
	}, nil
}
