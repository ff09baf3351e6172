// Package dispatcher holds one task per outstanding request and runs the
// leaderless bidding protocol that decides which node serves it.
package dispatcher

import (
	"slices"
	"time"

	"github.com/tiendc/go-deepcopy"

	"peerlift/src/config"
	"peerlift/src/logger"
	"peerlift/src/timer"
	"peerlift/src/types"
)

var log = logger.Get()

// Executor is the part of the order execution engine the registry drives.
type Executor interface {
	Enqueue(order types.Order)
	Dequeue(order types.Order) bool
	SetIndicator(button types.ButtonType, floor int, on bool) error
	CurrentFloor() int
	LastFloor() int
	Queue() []types.Order
}

type Publisher interface {
	Publish(ev types.Event)
}

// Registry is owned by the node's tick loop and is not safe for concurrent
// use.
type Registry struct {
	nodeID    int
	numFloors int
	exec      Executor
	pub       Publisher
	clock     timer.Clock
	cost      CostModel
	cabWatch  time.Duration
	grace     time.Duration
	tasks     []Task
}

func NewRegistry(nodeID int, exec Executor, pub Publisher, clock timer.Clock, tunables config.Tunables) *Registry {
	return &Registry{
		nodeID:    nodeID,
		numFloors: tunables.NumFloors,
		exec:      exec,
		pub:       pub,
		clock:     clock,
		cost:      NewCostModel(tunables),
		cabWatch:  tunables.CabWatchInterval,
		grace:     tunables.CabGracePeriod,
	}
}

// Ingest applies one inbound event. Every verb is idempotent, so duplicated
// or looped-back events are harmless.
func (r *Registry) Ingest(ev types.Event) {
	if ev.Request.Floor < 0 || ev.Request.Floor >= r.numFloors || !ev.Request.Button.Valid() {
		log.Debug().Stringer("event", ev).Msg("Ignoring event outside the shaft")
		return
	}
	order := ev.Order()
	switch ev.Verb {
	case types.VerbRequest:
		r.addTask(order)
	case types.VerbClaimed:
		t := r.find(order)
		if t == nil {
			log.Debug().Stringer("event", ev).Msg("Claim for unknown task")
			return
		}
		t.claimed = true
	case types.VerbFulfilled:
		t := r.find(order)
		if t == nil {
			log.Debug().Stringer("event", ev).Msg("Fulfilment for unknown task")
			return
		}
		if !t.fulfilled {
			t.fulfilled = true
			t.FulfilledAt = r.clock.Now()
		}
	}
}

// addTask creates a task for order, or revives a fulfilled one. A Request for
// a task still in progress is a duplicate and changes nothing.
func (r *Registry) addTask(order types.Order) {
	t := r.find(order)
	if t == nil {
		r.tasks = append(r.tasks, newTask(order))
		log.Debug().Stringer("request", order.Request).Int("origin", order.Origin).Msg("New task")
		return
	}
	if t.fulfilled || t.State == StateDone {
		log.Debug().Stringer("request", order.Request).Int("origin", order.Origin).Stringer("state", t.State).Msg("Reviving fulfilled task")
		// The revived task bids afresh; a hall call still queued from the
		// previous claim must not be driven to.
		if t.State == StateAwaitLocalCompletion && !t.IsCab() {
			r.exec.Dequeue(t.Order)
		}
		t.reset(order.Origin)
	}
}

func (r *Registry) find(order types.Order) *Task {
	for i := range r.tasks {
		if r.tasks[i].matches(order) {
			return &r.tasks[i]
		}
	}
	return nil
}

// Step advances every task's state machine once and evicts finished tasks.
// Only hardware errors are returned.
func (r *Registry) Step() error {
	now := r.clock.Now()

	// Costing reads the table as it was when the step began, so a task
	// transitioning earlier in this step does not change the bids of the
	// tasks after it.
	var snapshot []Task
	if err := deepcopy.Copy(&snapshot, r.tasks); err != nil {
		log.Error().Err(err).Msg("Copying task table")
		snapshot = slices.Clone(r.tasks)
	}

	for i := range r.tasks {
		if err := r.stepTask(&r.tasks[i], snapshot, now); err != nil {
			return err
		}
	}
	r.evict(now)
	return nil
}

func (r *Registry) stepTask(t *Task, snapshot []Task, now time.Time) error {
	switch t.State {
	case StateNew:
		if t.IsCab() && t.Origin != r.nodeID {
			t.Deadline.Restart(now, r.cabWatch)
			r.transition(t, StateRemoteCabWatch)
			return nil
		}
		if err := r.exec.SetIndicator(t.Button, t.Floor, true); err != nil {
			return err
		}
		t.Deadline.Restart(now, r.bidDelay(t, snapshot))
		r.transition(t, StateBidding)

	case StateRemoteCabWatch:
		if t.fulfilled {
			return r.finish(t, now)
		}
		if t.Deadline.Expired(now) {
			log.Info().Stringer("request", t.Request).Int("origin", t.Origin).Msg("Repeating cab call")
			r.pub.Publish(types.NewEvent(types.VerbRequest, t.Order))
			t.Deadline.Restart(now, r.cabWatch)
		}

	case StateBidding:
		if t.claimed || t.fulfilled {
			t.Deadline.Restart(now, r.completionDelay(t, snapshot))
			r.transition(t, StateCompletionWatch)
			return nil
		}
		if t.Deadline.Expired(now) {
			r.transition(t, StateClaim)
		}

	case StateCompletionWatch:
		if t.fulfilled {
			return r.finish(t, now)
		}
		if t.Deadline.Expired(now) {
			log.Warn().Stringer("request", t.Request).Dur("waited", t.Deadline.Elapsed(now)).Msg("Claimant did not complete, taking over")
			r.transition(t, StateClaim)
		}

	case StateClaim:
		r.exec.Enqueue(t.Order)
		r.transition(t, StateAwaitLocalCompletion)

	case StateAwaitLocalCompletion:
		if t.fulfilled {
			if !t.IsCab() {
				r.exec.Dequeue(t.Order)
			}
			return r.finish(t, now)
		}
	}
	return nil
}

// finish moves t to Done and switches its lamp off. Other cars' cab calls
// never had a lamp here.
func (r *Registry) finish(t *Task, now time.Time) error {
	if t.FulfilledAt.IsZero() {
		t.FulfilledAt = now
	}
	r.transition(t, StateDone)
	if t.IsCab() && t.Origin != r.nodeID {
		return nil
	}
	return r.exec.SetIndicator(t.Button, t.Floor, false)
}

// evict drops finished hall calls at once and finished cab calls after the
// grace period, so trailing duplicates of the cab call do not recreate it.
func (r *Registry) evict(now time.Time) {
	r.tasks = slices.DeleteFunc(r.tasks, func(t Task) bool {
		if t.State != StateDone {
			return false
		}
		return !t.IsCab() || now.Sub(t.FulfilledAt) > r.grace
	})
}

func (r *Registry) transition(t *Task, to State) {
	log.Debug().
		Stringer("request", t.Request).
		Int("origin", t.Origin).
		Stringer("from", t.State).
		Stringer("to", to).
		Msg("Task transition")
	t.State = to
}

func (r *Registry) bidDelay(t *Task, snapshot []Task) time.Duration {
	delay := r.cost.BidDelay(*t, snapshot, r.exec.Queue(), r.exec.CurrentFloor(), r.exec.LastFloor(), r.nodeID)
	log.Debug().Stringer("request", t.Request).Dur("delay", delay).Msg("Bid delay")
	return delay
}

func (r *Registry) completionDelay(t *Task, snapshot []Task) time.Duration {
	return r.cost.CompletionDelay(*t, snapshot, r.exec.Queue(), r.exec.CurrentFloor(), r.exec.LastFloor(), r.nodeID)
}

// Tasks returns a copy of the task table in creation order.
func (r *Registry) Tasks() []Task {
	return slices.Clone(r.tasks)
}

func (r *Registry) Len() int {
	return len(r.tasks)
}

// Lookup returns the task identified by order.
func (r *Registry) Lookup(order types.Order) (Task, bool) {
	t := r.find(order)
	if t == nil {
		return Task{}, false
	}
	return *t, true
}
