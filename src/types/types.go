package types

import "fmt"

type ButtonType int

const (
	BT_HallUp ButtonType = iota
	BT_HallDown
	BT_Cab
)

// ButtonTypes lists every call kind in scan order.
var ButtonTypes = [...]ButtonType{BT_HallUp, BT_HallDown, BT_Cab}

func (b ButtonType) String() string {
	switch b {
	case BT_HallUp:
		return "HallUp"
	case BT_HallDown:
		return "HallDown"
	case BT_Cab:
		return "CabCall"
	}
	return fmt.Sprintf("ButtonType(%d)", int(b))
}

func (b ButtonType) Valid() bool {
	return b >= BT_HallUp && b <= BT_Cab
}

// Request is a single call for service at a floor.
type Request struct {
	Floor  int
	Button ButtonType
}

func (r Request) String() string {
	return fmt.Sprintf("%s(%d)", r.Button, r.Floor)
}

func (r Request) IsCab() bool {
	return r.Button == BT_Cab
}

// Order is a request together with the node that owns it. For cab calls the
// owner is the car the call was made in.
type Order struct {
	Request
	Origin int
}

// Verb says what an Event announces about its request.
type Verb int

const (
	VerbRequest Verb = iota
	VerbClaimed
	VerbFulfilled
)

func (v Verb) String() string {
	switch v {
	case VerbRequest:
		return "Request"
	case VerbClaimed:
		return "Claimed"
	case VerbFulfilled:
		return "Fulfilled"
	}
	return fmt.Sprintf("Verb(%d)", int(v))
}

func (v Verb) Valid() bool {
	return v >= VerbRequest && v <= VerbFulfilled
}

// Event is the unit exchanged between nodes and looped back internally.
// Events are values and are never mutated after being published.
type Event struct {
	Verb    Verb
	Request Request
	Origin  int
}

func (e Event) Order() Order {
	return Order{Request: e.Request, Origin: e.Origin}
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s from node %d", e.Verb, e.Request, e.Origin)
}

// NewEvent builds an event announcing verb for order.
func NewEvent(verb Verb, order Order) Event {
	return Event{Verb: verb, Request: order.Request, Origin: order.Origin}
}
