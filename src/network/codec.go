package network

import (
	"encoding/json"
	"errors"
	"fmt"

	"peerlift/src/types"
)

var ErrMalformed = errors.New("malformed event")

// wireEvent is the record sent on the transport. Enums travel as names so
// that a reordering of the Go constants never changes the wire format.
type wireEvent struct {
	RequestKind string `json:"request_kind"`
	Floor       int    `json:"floor"`
	Verb        string `json:"verb"`
	OriginID    uint   `json:"origin_id"`
}

func Encode(ev types.Event) ([]byte, error) {
	if !ev.Verb.Valid() || !ev.Request.Button.Valid() || ev.Origin < 0 {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, ev)
	}
	return json.Marshal(wireEvent{
		RequestKind: ev.Request.Button.String(),
		Floor:       ev.Request.Floor,
		Verb:        ev.Verb.String(),
		OriginID:    uint(ev.Origin),
	})
}

// Decode parses one packet. Range checks against the shaft are left to the
// registry; Decode only rejects what cannot be an event at all.
func Decode(data []byte) (types.Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return types.Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	button, ok := parseButton(w.RequestKind)
	if !ok {
		return types.Event{}, fmt.Errorf("%w: request kind %q", ErrMalformed, w.RequestKind)
	}
	verb, ok := parseVerb(w.Verb)
	if !ok {
		return types.Event{}, fmt.Errorf("%w: verb %q", ErrMalformed, w.Verb)
	}
	if w.Floor < 0 {
		return types.Event{}, fmt.Errorf("%w: floor %d", ErrMalformed, w.Floor)
	}
	return types.Event{
		Verb:    verb,
		Request: types.Request{Floor: w.Floor, Button: button},
		Origin:  int(w.OriginID),
	}, nil
}

func parseButton(s string) (types.ButtonType, bool) {
	for _, b := range types.ButtonTypes {
		if b.String() == s {
			return b, true
		}
	}
	return 0, false
}

func parseVerb(s string) (types.Verb, bool) {
	for _, v := range []types.Verb{types.VerbRequest, types.VerbClaimed, types.VerbFulfilled} {
		if v.String() == s {
			return v, true
		}
	}
	return 0, false
}
