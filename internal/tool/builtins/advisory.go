package builtins

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/voyage-ai/voyage/internal/tool"
)

// seasonalRule raises an advisory when the trip window overlaps the given
// months at destinations carrying the tag.
type seasonalRule struct {
	tag       string
	fromMonth time.Month
	toMonth   time.Month
	level     tool.AdvisoryLevel
	summary   string
}

var seasonalRules = []seasonalRule{
	{
		tag:       "beaches",
		fromMonth: time.June,
		toMonth:   time.September,
		level:     tool.AdvisoryCaution,
		summary:   "Monsoon season: heavy rain likely, water sports often suspended",
	},
	{
		tag:       "mountains",
		fromMonth: time.December,
		toMonth:   time.February,
		level:     tool.AdvisoryCaution,
		summary:   "Peak winter: high passes may close, carry heavy woollens",
	},
}

// advisoryTool grades travel advisories for the destination and dates from
// seasonal rules over the gazetteer tags.
type advisoryTool struct {
	base
}

func (t *advisoryTool) Kind() tool.Kind { return tool.KindAdvisory }
func (t *advisoryTool) Name() string    { return "builtin-advisory" }
func (t *advisoryTool) Description() string {
	return "Looks up travel advisories for the destination and travel window"
}
func (t *advisoryTool) Tags() []string { return []string{"advisory", "safety"} }

func (t *advisoryTool) Execute(ctx context.Context, q tool.Query) (tool.Payload, error) {
	p, err := t.resolve(q)
	if err != nil {
		return nil, err
	}

	if q.StartDate.IsZero() {
		return tool.Advisory{Level: tool.AdvisoryNone}, nil
	}

	for _, rule := range seasonalRules {
		if !hasTag(p.Tags, rule.tag) {
			continue
		}
		if windowOverlapsMonths(q.StartDate, q.EndDate, rule.fromMonth, rule.toMonth) {
			return tool.Advisory{Level: rule.level, Summary: rule.summary}, nil
		}
	}
	return tool.Advisory{Level: tool.AdvisoryNone}, nil
}

func hasTag(tags []string, want string) bool {
	for _, tag := range tags {
		if strings.EqualFold(tag, want) {
			return true
		}
	}
	return false
}

// windowOverlapsMonths reports whether any month of the trip window falls in
// [from, to], wrapping across year end (e.g. December through February).
func windowOverlapsMonths(start, end time.Time, from, to time.Month) bool {
	if end.Before(start) {
		end = start
	}
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
		m := cursor.Month()
		if from <= to {
			if m >= from && m <= to {
				return true
			}
		} else if m >= from || m <= to {
			return true
		}
		if cursor.Sub(start) > 366*24*time.Hour {
			break
		}
	}
	return false
}

// visaTool answers visa requirements by comparing the destination country
// against the traveler's home country. Origin defaults to India when the
// request names no origin.
type visaTool struct {
	base
}

func (t *visaTool) Kind() tool.Kind { return tool.KindVisa }
func (t *visaTool) Name() string    { return "builtin-visa" }
func (t *visaTool) Description() string {
	return "Determines whether the destination requires a visa for the traveler"
}
func (t *visaTool) Tags() []string { return []string{"visa", "documents"} }

func (t *visaTool) Execute(ctx context.Context, q tool.Query) (tool.Payload, error) {
	p, err := t.resolve(q)
	if err != nil {
		return nil, err
	}

	home := "India"
	if q.Origin != "" {
		if origin, ok := t.catalog.Resolve(q.Origin); ok {
			home = origin.Country
		}
	}

	if strings.EqualFold(p.Country, home) {
		return tool.VisaInfo{Required: false, Notes: "Domestic travel, no visa needed"}, nil
	}

	// Indian passport holders get visa on arrival or an e-visa at the
	// international destinations the catalog covers.
	return tool.VisaInfo{
		Required:       true,
		Type:           "e-visa",
		ProcessingDays: 4,
		Notes:          fmt.Sprintf("Apply for an e-visa before travel to %s", p.Country),
	}, nil
}
