package builtins

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/voyage-ai/voyage/internal/tool"
)

// bookingTool synthesizes booking URLs keyed by the same reference codes the
// stay and transport searches emit, so the executor can attach a link to any
// option it picks without a second lookup round.
type bookingTool struct {
	base
}

func (t *bookingTool) Kind() tool.Kind { return tool.KindBookingLinks }
func (t *bookingTool) Name() string    { return "builtin-booking-links" }
func (t *bookingTool) Description() string {
	return "Generates booking links for stay and transport options"
}
func (t *bookingTool) Tags() []string { return []string{"booking", "links"} }

func (t *bookingTool) Execute(ctx context.Context, q tool.Query) (tool.Payload, error) {
	dest, err := t.resolve(q)
	if err != nil {
		return nil, err
	}

	links := make(map[string]string)
	for i, s := range dest.Stays {
		ref := stayRef(dest, i)
		links[ref] = bookingURL("stays", dest.Name, s.Name, ref)
	}

	if q.Origin != "" {
		if origin, ok := t.catalog.Resolve(q.Origin); ok {
			for _, mode := range []string{"flight", "train", "bus"} {
				if mode == "flight" && (!hasHub(origin, "airport") || !hasHub(dest, "airport")) {
					continue
				}
				ref := transportRef(origin, dest, mode)
				links[ref] = bookingURL(mode, origin.Name, dest.Name, ref)
			}
		}
	}

	return tool.BookingLinks{Links: links}, nil
}

func bookingURL(section, a, b, ref string) string {
	return fmt.Sprintf("https://book.voyage.example/%s/%s?ref=%s",
		section,
		url.PathEscape(slug(a)+"-"+slug(b)),
		url.QueryEscape(ref),
	)
}

func slug(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
}
