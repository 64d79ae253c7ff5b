package planning

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/voyage-ai/voyage/internal/config"
	"github.com/voyage-ai/voyage/internal/research"
	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

// slot is one of the three schedulable parts of a day.
type slot struct {
	name string
	time string
}

var daySlots = []slot{
	{name: "morning", time: "09:00"},
	{name: "afternoon", time: "14:00"},
	{name: "evening", time: "19:00"},
}

// Planner builds itinerary plans from a request and its research bundle.
type Planner struct {
	cfg    config.PlannerConfig
	logger *slog.Logger
}

// NewPlanner builds a planner with the given configuration.
func NewPlanner(cfg config.PlannerConfig, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{cfg: cfg, logger: logger.With("component", "planner")}
}

// Build produces the first plan revision for a validated request. The
// allocation partitions the budget exactly; each day spends only within its
// categories, so the plan total stays inside the budget whenever the
// destination offers options the allocation can afford.
func (p *Planner) Build(req *trip.Request, bundle *research.Bundle) (*trip.Plan, error) {
	days := req.Days()
	if days <= 0 {
		return nil, types.NewError(types.PLANNING_INFEASIBLE, "trip has no days to plan")
	}
	if err := p.checkFeasible(req.TotalBudget, days); err != nil {
		return nil, err
	}

	alloc := Allocate(req, bundle, p.cfg.Split)
	party := max(req.PartySize, 1)

	s := newScheduler(bundle, alloc, party, days, false)
	plan := &trip.Plan{
		ID:         types.NewID(),
		TripID:     req.ID,
		Revision:   1,
		Status:     trip.PlanStatusActive,
		Allocation: alloc,
		PerDayCap:  req.TotalBudget / types.Money(days),
		CreatedAt:  time.Now(),
	}
	plan.Days = s.buildSegment(1, days, days, req.StartDate)

	p.logger.Info("plan built",
		"trip_id", req.ID,
		"days", days,
		"total_cost", plan.TotalCost().String(),
		"budget", req.TotalBudget.String())
	return plan, nil
}

// checkFeasible rejects budgets below the survival floor for the length of
// the trip, naming the minimum that would work.
func (p *Planner) checkFeasible(budget types.Money, days int) error {
	minimum := types.FromMajor(p.cfg.DailyFloors.Sum() * int64(days))
	if budget < minimum {
		return types.NewError(types.PLANNING_INFEASIBLE,
			fmt.Sprintf("budget %s cannot cover %d days; minimum feasible is %s", budget, days, minimum))
	}
	return nil
}

// scheduler holds the per-trip choices the day builder draws from: the
// chosen stay and transport, daily meal and local transport spend, and the
// interest-ordered activity queues.
type scheduler struct {
	bundle *research.Bundle
	party  int
	tight  bool

	stay      *tool.StayOption
	transport *tool.TransportOption
	links     map[string]string

	mealsPerDay types.Money
	localPerDay types.Money

	bySlot         map[string][]tool.ActivityOption
	used           map[string]bool
	activityBudget types.Money
}

// newScheduler makes the whole-trip selections. tight mode always picks the
// cheapest viable option, used when replanning squeezed budgets.
func newScheduler(bundle *research.Bundle, alloc trip.Allocation, party, days int, tight bool) *scheduler {
	s := &scheduler{
		bundle:         bundle,
		party:          party,
		tight:          tight,
		used:           make(map[string]bool),
		bySlot:         make(map[string][]tool.ActivityOption),
		activityBudget: alloc[trip.CategoryActivities],
	}
	if links, ok := bundle.BookingLinks(); ok {
		s.links = links.Links
	}

	// In tight mode the whole remaining budget is the affordability bar:
	// a stay or transfer stays in the plan as long as the squeezed budget
	// can cover it at all, and drops out entirely when it cannot.
	stayBudget := alloc[trip.CategoryAccommodation]
	if tight {
		stayBudget = alloc.Total()
	}

	nights := max(days-1, 0)
	if stays, ok := bundle.Stays(); ok && len(stays.Options) > 0 && nights > 0 {
		s.stay = pickOption(stays.Options, tight, func(o tool.StayOption) types.Money {
			return o.Nightly * types.Money(nights)
		}, stayBudget)
	}

	if prices, ok := bundle.Prices(); ok {
		s.localPerDay = prices.LocalTransportPerDay
		s.mealsPerDay = prices.MealPerHead * 3 * types.Money(party)
	}
	if days > 0 {
		if ceiling := alloc[trip.CategoryFood] / types.Money(days); s.mealsPerDay == 0 || s.mealsPerDay > ceiling {
			s.mealsPerDay = ceiling
		}
	}

	if transport, ok := bundle.Transport(); ok && len(transport.Options) > 0 {
		transportHeadroom := alloc[trip.CategoryTransport] - s.localPerDay*types.Money(days)
		if tight {
			transportHeadroom = alloc.Total()
		}
		s.transport = pickOption(transport.Options, tight, func(o tool.TransportOption) types.Money {
			return o.Fare * types.Money(party)
		}, transportHeadroom)
	}

	if activities, ok := bundle.Activities(); ok {
		for _, opt := range activities.Options {
			s.bySlot[opt.Slot] = append(s.bySlot[opt.Slot], opt)
		}
	}
	return s
}

// pickOption chooses the most expensive option whose trip cost fits the
// budget, falling back to the cheapest when nothing fits. tight mode takes
// the cheapest, or nothing when even that exceeds the budget.
func pickOption[T any](options []T, tight bool, cost func(T) types.Money, budget types.Money) *T {
	cheapest := lo.MinBy(options, func(a, b T) bool { return cost(a) < cost(b) })
	if tight {
		if cost(cheapest) > budget {
			return nil
		}
		return &cheapest
	}
	affordable := lo.Filter(options, func(o T, _ int) bool { return cost(o) <= budget })
	if len(affordable) == 0 {
		return &cheapest
	}
	best := lo.MaxBy(affordable, func(a, b T) bool { return cost(a) > cost(b) })
	return &best
}

// buildSegment assembles days first through last of a trip totalDays long.
// startDate is the calendar date of the first built day; zero leaves days
// undated.
func (s *scheduler) buildSegment(first, last, totalDays int, startDate time.Time) []trip.Day {
	days := make([]trip.Day, 0, last-first+1)
	for number := first; number <= last; number++ {
		day := trip.Day{Number: number}
		if !startDate.IsZero() {
			day.Date = startDate.AddDate(0, 0, number-first)
		}
		day.Activities = s.buildDay(number, totalDays)
		days = append(days, day)
	}
	return days
}

func (s *scheduler) buildDay(number, totalDays int) []trip.Activity {
	var entries []trip.Activity

	if s.transport != nil && number == 1 {
		entries = append(entries, s.transferEntry("07:00",
			fmt.Sprintf("Travel to %s by %s", s.transport.To, s.transport.Mode), outboundShare))
	}

	for _, sl := range daySlots {
		if opt, ok := s.nextActivity(sl.name); ok {
			entries = append(entries, trip.Activity{
				Time:     sl.time,
				Name:     opt.Name,
				Location: opt.Area,
				Category: trip.CategoryActivities,
				Cost:     opt.Price * types.Money(s.party),
				Source:   tool.KindActivitySearch.String(),
			})
		}
	}

	if s.mealsPerDay > 0 {
		entries = append(entries, trip.Activity{
			Time:     "13:00",
			Name:     "Meals for the day",
			Category: trip.CategoryFood,
			Cost:     s.mealsPerDay,
			Source:   tool.KindPriceEstimate.String(),
		})
	}
	if s.localPerDay > 0 {
		entries = append(entries, trip.Activity{
			Time:     "18:00",
			Name:     "Local transport",
			Category: trip.CategoryTransport,
			Cost:     s.localPerDay,
			Source:   tool.KindPriceEstimate.String(),
		})
	}

	if s.transport != nil && number == totalDays && totalDays > 1 {
		entries = append(entries, s.transferEntry("20:00",
			fmt.Sprintf("Return to %s by %s", s.transport.From, s.transport.Mode), returnShare))
	}

	if s.stay != nil && number < totalDays {
		entries = append(entries, trip.Activity{
			Time:       "21:00",
			Name:       "Night at " + s.stay.Name,
			Location:   s.stay.Area,
			Category:   trip.CategoryAccommodation,
			Cost:       s.stay.Nightly,
			Source:     tool.KindStaySearch.String(),
			BookingRef: s.stay.RefCode,
			BookingURL: s.links[s.stay.RefCode],
		})
	}

	sortByTime(entries)
	return entries
}

// fareShare splits the round-trip fare between the outbound and return
// entries without losing a paisa to rounding.
type fareShare int

const (
	outboundShare fareShare = iota
	returnShare
)

func (s *scheduler) transferEntry(at, name string, share fareShare) trip.Activity {
	total := s.transport.Fare * types.Money(s.party)
	cost := total / 2
	if share == returnShare {
		cost = total - total/2
	}
	return trip.Activity{
		Time:       at,
		Name:       name,
		Category:   trip.CategoryTransport,
		Cost:       cost,
		Source:     tool.KindTransportSearch.String(),
		BookingRef: s.transport.RefCode,
		BookingURL: s.links[s.transport.RefCode],
	}
}

// nextActivity pops the first unused option for the slot that the remaining
// activity budget can afford. Free options always fit.
func (s *scheduler) nextActivity(slotName string) (tool.ActivityOption, bool) {
	queue := s.bySlot[slotName]
	for i, opt := range queue {
		if s.used[opt.Name] {
			continue
		}
		cost := opt.Price * types.Money(s.party)
		if cost > s.activityBudget {
			continue
		}
		s.used[opt.Name] = true
		s.activityBudget -= cost
		s.bySlot[slotName] = queue[i+1:]
		return opt, true
	}
	s.bySlot[slotName] = nil
	return tool.ActivityOption{}, false
}

func sortByTime(entries []trip.Activity) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Time < entries[j].Time })
}
