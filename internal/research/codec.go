package research

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/types"
)

// bundleJSON is the wire form of a bundle. Result payloads are interface
// values in memory, so they travel as raw JSON keyed by kind and decode
// back through the kind's concrete type.
type bundleJSON struct {
	TripID      types.ID                      `json:"trip_id"`
	Fingerprint string                        `json:"fingerprint"`
	Requested   []tool.Kind                   `json:"requested"`
	Results     map[tool.Kind]json.RawMessage `json:"results,omitempty"`
	Failures    map[tool.Kind]string          `json:"failures,omitempty"`
	CreatedAt   time.Time                     `json:"created_at"`
}

// MarshalJSON encodes the bundle including its typed result payloads.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	out := bundleJSON{
		TripID:      b.TripID,
		Fingerprint: b.Fingerprint,
		Requested:   b.Requested,
		Failures:    b.Failures,
		CreatedAt:   b.CreatedAt,
	}
	if len(b.Results) > 0 {
		out.Results = make(map[tool.Kind]json.RawMessage, len(b.Results))
		for kind, payload := range b.Results {
			raw, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("encode %s result: %w", kind, err)
			}
			out.Results[kind] = raw
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a bundle, rebuilding each result payload as the
// concrete type its kind produces.
func (b *Bundle) UnmarshalJSON(data []byte) error {
	var in bundleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	b.TripID = in.TripID
	b.Fingerprint = in.Fingerprint
	b.Requested = in.Requested
	b.Failures = in.Failures
	b.CreatedAt = in.CreatedAt
	b.Results = nil
	if len(in.Results) == 0 {
		return nil
	}
	b.Results = make(map[tool.Kind]tool.Payload, len(in.Results))
	for kind, raw := range in.Results {
		payload, err := decodePayload(kind, raw)
		if err != nil {
			return fmt.Errorf("decode %s result: %w", kind, err)
		}
		b.Results[kind] = payload
	}
	return nil
}

// decodePayload rebuilds the value type the bundle accessors assert on.
func decodePayload(kind tool.Kind, raw json.RawMessage) (tool.Payload, error) {
	switch kind {
	case tool.KindBudgetEstimate:
		var p tool.BudgetEstimate
		err := json.Unmarshal(raw, &p)
		return p, err
	case tool.KindAdvisory:
		var p tool.Advisory
		err := json.Unmarshal(raw, &p)
		return p, err
	case tool.KindVisa:
		var p tool.VisaInfo
		err := json.Unmarshal(raw, &p)
		return p, err
	case tool.KindStaySearch:
		var p tool.StayResults
		err := json.Unmarshal(raw, &p)
		return p, err
	case tool.KindTransportSearch:
		var p tool.TransportResults
		err := json.Unmarshal(raw, &p)
		return p, err
	case tool.KindActivitySearch:
		var p tool.ActivityResults
		err := json.Unmarshal(raw, &p)
		return p, err
	case tool.KindPriceEstimate:
		var p tool.PriceEstimates
		err := json.Unmarshal(raw, &p)
		return p, err
	case tool.KindBookingLinks:
		var p tool.BookingLinks
		err := json.Unmarshal(raw, &p)
		return p, err
	case tool.KindRestaurants:
		var p tool.RestaurantResults
		err := json.Unmarshal(raw, &p)
		return p, err
	default:
		return nil, fmt.Errorf("unknown capability kind %q", kind)
	}
}
