package executor

import (
	"peerlift/src/types"
)

// Enqueue appends order to the drive queue and announces the claim.
func (e *Engine) Enqueue(order types.Order) {
	e.queue = append(e.queue, order)
	log.Info().Stringer("request", order.Request).Int("origin", order.Origin).Int("queued", len(e.queue)).Msg("Order claimed")
	e.pub.Publish(types.NewEvent(types.VerbClaimed, order))
}

// Dequeue removes the first entry matching order. Cab calls also match on
// origin. It reports whether an entry was removed.
func (e *Engine) Dequeue(order types.Order) bool {
	for i, queued := range e.queue {
		if sameOrder(queued, order) {
			e.queue = append(e.queue[:i], e.queue[i+1:]...)
			log.Debug().Stringer("request", order.Request).Msg("Order dequeued")
			return true
		}
	}
	log.Debug().Stringer("request", order.Request).Msg("Dequeue of order not in drive queue")
	return false
}

// takeOrdersAt removes and returns every queued order at floor, in queue order.
func (e *Engine) takeOrdersAt(floor int) []types.Order {
	var served []types.Order
	kept := e.queue[:0]
	for _, order := range e.queue {
		if order.Floor == floor {
			served = append(served, order)
			continue
		}
		kept = append(kept, order)
	}
	e.queue = kept
	return served
}

func sameOrder(a, b types.Order) bool {
	if a.Request != b.Request {
		return false
	}
	return !a.IsCab() || a.Origin == b.Origin
}
