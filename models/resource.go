package models

import (
	"encoding/json"
	"fmt"
)

const (
	ResourceTypeRoom = "Room"
	ResourceTypeDesk = "Desk"
)

// Availability is a weekly recurring template mapping a lowercase weekday
// name to its bookable timeslots in compact "HHMM-HHMM" form.
type Availability map[string][]string

// Resource represents a bookable entity, either a Room (container) or a
// Desk (leaf, directly reservable).
type Resource struct {
	ID            string      `bson:"id" json:"id"`
	Name          string      `bson:"name" json:"name"`
	Type          string      `bson:"type" json:"type"` // "Room" or "Desk"
	CapacityLimit int         `bson:"capacityLimit,omitempty" json:"capacityLimit,omitempty"`
	Capacity      int         `bson:"capacity,omitempty" json:"capacity,omitempty"`
	Availability  interface{} `bson:"availability,omitempty" json:"availability,omitempty"`
	SubResources  []string    `bson:"subResources,omitempty" json:"subResources,omitempty"` // child Resource IDs (Rooms reference their Desks)
}

// DecodeAvailability normalizes the polymorphic availability payload into
// the canonical weekday map. Stored rows carry either a serialized JSON
// string or a structured document; both are accepted here, and only here.
func DecodeAvailability(raw interface{}) (Availability, error) {
	switch v := raw.(type) {
	case nil:
		return Availability{}, nil
	case Availability:
		return v, nil
	case map[string][]string:
		return Availability(v), nil
	case string:
		var avail Availability
		if err := json.Unmarshal([]byte(v), &avail); err != nil {
			return nil, fmt.Errorf("decoding availability string: %w", err)
		}
		return avail, nil
	case map[string]interface{}:
		return decodeAvailabilityMap(v)
	default:
		// bson decodes embedded documents to map[string]interface{}, but an
		// ExtJSON round-trip may hand us something else; re-marshal as a
		// last resort.
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("unsupported availability payload %T", raw)
		}
		var avail Availability
		if err := json.Unmarshal(b, &avail); err != nil {
			return nil, fmt.Errorf("unsupported availability payload %T", raw)
		}
		return avail, nil
	}
}

func decodeAvailabilityMap(m map[string]interface{}) (Availability, error) {
	avail := make(Availability, len(m))
	for day, rawSlots := range m {
		slots, ok := rawSlots.([]interface{})
		if !ok {
			if typed, isTyped := rawSlots.([]string); isTyped {
				avail[day] = typed
				continue
			}
			return nil, fmt.Errorf("availability bucket %q is not a list", day)
		}
		out := make([]string, 0, len(slots))
		for _, s := range slots {
			str, ok := s.(string)
			if !ok {
				return nil, fmt.Errorf("availability bucket %q contains a non-string slot", day)
			}
			out = append(out, str)
		}
		avail[day] = out
	}
	return avail, nil
}
