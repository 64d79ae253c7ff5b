// Package extract turns a free-text travel prompt into a structured trip
// request. Extraction is deterministic: place names resolve against the
// embedded gazetteer, amounts and dates parse from fixed patterns, and the
// same prompt always yields the same request. Follow-up prompts merge into
// the previous request so a clarification loop converges instead of
// forgetting earlier answers.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/voyage-ai/voyage/internal/places"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

// Result is the outcome of one extraction pass. When mandatory slots remain
// unresolved, NeedsMoreInfo is set and Question carries the single
// clarification to ask the traveler.
type Result struct {
	Request       *trip.Request
	NeedsMoreInfo bool
	Question      string
}

// Extractor parses prompts against a place catalog.
type Extractor struct {
	catalog *places.Catalog
	now     func() time.Time
}

// New returns an extractor over the given catalog.
func New(catalog *places.Catalog) *Extractor {
	return &Extractor{catalog: catalog, now: time.Now}
}

// NewDefault returns an extractor over the embedded catalog.
func NewDefault() (*Extractor, error) {
	catalog, err := places.Default()
	if err != nil {
		return nil, err
	}
	return New(catalog), nil
}

var (
	// currencyAmount matches amounts carrying an explicit currency marker,
	// anywhere in the prompt.
	currencyAmount = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr)\s*[0-9][0-9,]*(?:\.[0-9]+)?\s*(?:k|lakh|lakhs)?`)

	// contextAmount matches bare amounts only in budget context and only
	// with a magnitude suffix, so day counts and party sizes never read as
	// budgets.
	contextAmount = regexp.MustCompile(`(?i)(?:under|within|around|about|budget(?:\s+of)?|max(?:imum)?(?:\s+of)?)\s+([0-9][0-9,]*(?:\.[0-9]+)?\s*(?:k|lakh|lakhs))`)

	// suffixAmount matches bare amounts whose magnitude suffix already makes
	// them unambiguous, e.g. "30k" or "2 lakh".
	suffixAmount = regexp.MustCompile(`(?i)\b[0-9][0-9,]*(?:\.[0-9]+)?\s*(?:k|lakh|lakhs)\b`)

	partyCount  = regexp.MustCompile(`(?i)\b([0-9]{1,2})\s*(?:people|persons|pax|adults|travell?ers|friends)\b`)
	familyCount = regexp.MustCompile(`(?i)\bfamily\s+of\s+([0-9]{1,2})\b`)

	// unresolvedPlace captures the word after a destination preposition when
	// no catalog place matched, to distinguish an unknown destination from a
	// prompt that names none.
	unresolvedPlace = regexp.MustCompile(`\b(?:to|visit|visiting|explore|exploring)\s+([a-z]+)\b`)
)

// correctionCues mark a follow-up prompt as revising earlier answers rather
// than filling gaps.
var correctionCues = []string{"actually", "instead", "change", "rather", "make it", "not "}

// fillerWords are skipped when deciding whether a preposition introduces an
// unresolvable place name.
var fillerWords = map[string]bool{
	"the": true, "a": true, "an": true, "my": true, "our": true,
	"go": true, "plan": true, "see": true, "do": true, "be": true,
	"somewhere": true, "there": true,
}

// Extract parses the prompt, merges it over the previous request if any, and
// reports whether more information is needed.
func (e *Extractor) Extract(prompt string, prev *trip.Request) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, types.NewError(types.EXTRACTION_EMPTY, "prompt is empty")
	}

	fresh, err := e.parse(prompt)
	if err != nil {
		return nil, err
	}

	req := fresh
	if prev != nil {
		req = merge(prev, fresh, isCorrection(prompt))
	}
	req.RawPrompt = prompt
	req.Domestic = e.domestic(req)
	req.MissingFields = req.Missing()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = e.now()
	}
	if req.ID.IsZero() {
		req.ID = types.NewID()
	}

	result := &Result{Request: req}
	if len(req.MissingFields) > 0 {
		result.NeedsMoreInfo = true
		result.Question = clarificationQuestion(req.MissingFields)
	}
	return result, nil
}

// parse extracts every slot it can from a single prompt.
func (e *Extractor) parse(prompt string) (*trip.Request, error) {
	req := &trip.Request{}

	normalized := places.Normalize(prompt)
	padded := " " + normalized + " "

	destPlace, originPlace := e.findPlaces(padded)
	if destPlace != nil {
		req.Destination = destPlace.Name
	}
	if originPlace != nil {
		req.Origin = originPlace.Name
	}
	if destPlace == nil {
		if unknown := unresolvedDestination(normalized); unknown != "" {
			return nil, types.NewError(types.EXTRACTION_AMBIGUOUS,
				fmt.Sprintf("could not resolve destination %q", unknown))
		}
	}

	req.TotalBudget = parseBudget(prompt)
	req.StartDate, req.EndDate, req.Duration = parseWhen(strings.ToLower(prompt), e.now())
	req.PartySize = parseParty(normalized)
	req.Interests = parseInterests(normalized)
	req.Style = parseStyle(normalized)
	return req, nil
}

// domestic reports whether the merged request stays within the traveler's
// home country. Home defaults to India when no origin is known.
func (e *Extractor) domestic(req *trip.Request) bool {
	if req.Destination == "" {
		return false
	}
	dest, ok := e.catalog.Resolve(req.Destination)
	if !ok {
		return false
	}
	home := "India"
	if req.Origin != "" {
		if origin, found := e.catalog.Resolve(req.Origin); found {
			home = origin.Country
		}
	}
	return strings.EqualFold(dest.Country, home)
}

// findPlaces splits catalog mentions into destination and origin. A mention
// directly preceded by "from" is the origin; the earliest other mention is
// the destination.
func (e *Extractor) findPlaces(padded string) (dest, origin *places.Place) {
	for _, m := range e.catalog.FindAll(padded) {
		before := strings.Fields(padded[:m.Index])
		fromPreceded := len(before) > 0 && before[len(before)-1] == "from"
		switch {
		case fromPreceded && origin == nil:
			origin = m.Place
		case !fromPreceded && dest == nil:
			dest = m.Place
		}
	}
	return dest, origin
}

// unresolvedDestination returns the word the prompt offers as a destination
// when it resolves to nothing in the catalog; empty when the prompt simply
// names no place.
func unresolvedDestination(normalized string) string {
	for _, m := range unresolvedPlace.FindAllStringSubmatch(normalized, -1) {
		word := m[1]
		if fillerWords[word] || isDigits(word) {
			continue
		}
		return word
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// parseBudget finds the trip budget. Amounts with a currency marker count
// anywhere; bare numbers count only in budget context with a magnitude
// suffix.
func parseBudget(prompt string) types.Money {
	if m := currencyAmount.FindString(prompt); m != "" {
		if amount, ok := types.ParseAmount(m); ok {
			return amount
		}
	}
	if m := contextAmount.FindStringSubmatch(prompt); m != nil {
		if amount, ok := types.ParseAmount(m[1]); ok {
			return amount
		}
	}
	if m := suffixAmount.FindString(prompt); m != "" {
		if amount, ok := types.ParseAmount(m); ok {
			return amount
		}
	}
	return 0
}

func parseParty(normalized string) int {
	if m := familyCount.FindStringSubmatch(normalized); m != nil {
		return atoi(m[1])
	}
	if m := partyCount.FindStringSubmatch(normalized); m != nil {
		return atoi(m[1])
	}
	if strings.Contains(normalized, "couple") || strings.Contains(normalized, "honeymoon") {
		return 2
	}
	if strings.Contains(normalized, "solo") {
		return 1
	}
	return 0
}

// interestVocabulary maps prompt words to the canonical interest tags the
// activity search matches on.
var interestVocabulary = map[string]string{
	"beach": "beaches", "beaches": "beaches",
	"nightlife": "nightlife", "party": "nightlife", "parties": "nightlife",
	"food": "food", "foodie": "food", "eating": "food",
	"heritage": "heritage", "history": "heritage", "historical": "heritage", "forts": "heritage",
	"culture": "culture", "cultural": "culture",
	"adventure": "adventure", "adventurous": "adventure",
	"trek": "trekking", "trekking": "trekking", "hiking": "trekking",
	"nature": "nature", "wildlife": "nature",
	"yoga": "yoga", "spiritual": "spiritual", "temples": "spiritual",
	"shopping": "shopping", "markets": "shopping",
	"watersports": "watersports", "surfing": "watersports", "rafting": "watersports",
	"lakes": "lakes", "mountains": "mountains",
	"relaxing": "views", "views": "views",
}

func parseInterests(normalized string) []string {
	var interests []string
	seen := make(map[string]bool)
	for _, word := range strings.Fields(normalized) {
		tag, ok := interestVocabulary[word]
		if !ok || seen[tag] {
			continue
		}
		seen[tag] = true
		interests = append(interests, tag)
	}
	return interests
}

func parseStyle(normalized string) trip.TravelStyle {
	switch {
	case containsAny(normalized, "luxury", "luxurious", "premium", "five star", "5 star"):
		return trip.StyleLuxury
	case containsAny(normalized, "comfort", "comfortable", "mid range", "midrange"):
		return trip.StyleComfort
	case containsAny(normalized, "budget", "cheap", "cheapest", "backpack", "backpacking", "shoestring"):
		return trip.StyleBudget
	default:
		return trip.StyleBalanced
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isCorrection reports whether the prompt revises earlier answers.
func isCorrection(prompt string) bool {
	lower := strings.ToLower(prompt)
	for _, cue := range correctionCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

// clarificationQuestion phrases one question covering the unresolved slots.
func clarificationQuestion(missing []trip.Field) string {
	asks := make([]string, 0, len(missing))
	for _, f := range missing {
		switch f {
		case trip.FieldDestination:
			asks = append(asks, "where you want to go")
		case trip.FieldBudget:
			asks = append(asks, "your total budget")
		case trip.FieldDates:
			asks = append(asks, "your travel dates or trip length")
		case trip.FieldOrigin:
			asks = append(asks, "where you are starting from")
		case trip.FieldPartySize:
			asks = append(asks, "how many people are traveling")
		}
	}
	switch len(asks) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("Could you tell me %s?", asks[0])
	default:
		return fmt.Sprintf("Could you tell me %s and %s?",
			strings.Join(asks[:len(asks)-1], ", "), asks[len(asks)-1])
	}
}
