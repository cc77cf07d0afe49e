// Package interrupt coordinates cooperative cancellation across every engine
// instance running in a process.
//
// A Coordinator is owned by the hosting application and handed to each run.
// Runs register themselves, poll IsInterruptRequested at their checkpoints
// and acknowledge with AcknowledgeInterrupted before unwinding. A requester
// calls RequestInterruptAll and blocks, bounded by a timeout, until every
// registered instance has acknowledged.
package interrupt

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/arthur-debert/packdrop/pkg/logging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultPollInterval is how often RequestInterruptAll re-checks the registry
const DefaultPollInterval = 100 * time.Millisecond

// State is the interrupt state of one registered instance.
// Transitions are monotonic: Alive -> InterruptRequested -> Interrupted.
type State int

const (
	StateAlive State = iota
	StateInterruptRequested
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StateAlive:
		return "alive"
	case StateInterruptRequested:
		return "interrupt-requested"
	case StateInterrupted:
		return "interrupted"
	}
	return "unknown"
}

// Instance identifies one registered engine run.
type Instance struct {
	ID uuid.UUID
}

// Coordinator is the registry of running instances. A host may reuse one
// Coordinator for successive runs: the desired flag raised by
// RequestInterruptAll stays up until the next Register finds no instance
// still pending, or until SetDiscardInterrupt is called.
type Coordinator struct {
	mu        sync.Mutex
	instances map[uuid.UUID]State
	discard   bool

	// desired is read without the registry lock by unrelated long-running
	// operations such as external process execution
	desired atomic.Bool

	pollInterval time.Duration
	logger       zerolog.Logger
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithPollInterval overrides DefaultPollInterval
func WithPollInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// NewCoordinator creates an empty registry
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		instances:    make(map[uuid.UUID]State),
		pollInterval: DefaultPollInterval,
		logger:       logging.GetLogger("interrupt"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds a new instance in the Alive state. When no other instance
// is still being asked to stop, a desired flag left over from an earlier
// request is cleared so the new run starts uninterrupted.
func (c *Coordinator) Register() Instance {
	inst := Instance{ID: uuid.New()}

	c.mu.Lock()
	if !c.pendingLocked() {
		c.desired.Store(false)
	}
	c.instances[inst.ID] = StateAlive
	c.mu.Unlock()

	c.logger.Debug().Str("instance", inst.ID.String()).Msg("Instance registered")
	return inst
}

// Unregister removes the instance from the registry.
func (c *Coordinator) Unregister(inst Instance) {
	c.mu.Lock()
	delete(c.instances, inst.ID)
	c.mu.Unlock()

	c.logger.Debug().Str("instance", inst.ID.String()).Msg("Instance unregistered")
}

// RequestInterruptAll asks every alive instance to stop and waits until all
// of them acknowledged or timeout elapsed. It returns false without doing
// anything when interrupts are being discarded; otherwise it returns true,
// also when the timeout lapsed before every instance acknowledged.
func (c *Coordinator) RequestInterruptAll(timeout time.Duration) bool {
	start := time.Now()

	c.mu.Lock()
	if c.discard {
		c.mu.Unlock()
		c.logger.Info().Msg("Interrupt request discarded")
		return false
	}
	for id, state := range c.instances {
		if state == StateAlive {
			c.instances[id] = StateInterruptRequested
		}
	}
	c.desired.Store(true)
	pending := len(c.instances)
	c.mu.Unlock()

	c.logger.Info().Int("instances", pending).Dur("timeout", timeout).Msg("Interrupt requested")

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for !c.allInterrupted() {
		if time.Since(start) > timeout {
			c.logger.Warn().Dur("waited", time.Since(start)).Msg("Interrupt not acknowledged by all instances before timeout")
			return true
		}
		<-ticker.C
	}

	c.logger.Info().Dur("waited", time.Since(start)).Msg("All instances interrupted")
	return true
}

// pendingLocked reports whether an instance has been asked to stop and has
// not acknowledged yet. c.mu must be held.
func (c *Coordinator) pendingLocked() bool {
	for _, state := range c.instances {
		if state == StateInterruptRequested {
			return true
		}
	}
	return false
}

func (c *Coordinator) allInterrupted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, state := range c.instances {
		if state != StateInterrupted {
			return false
		}
	}
	return true
}

// IsInterruptRequested reports whether the instance has been asked to stop.
// It stays true once the instance acknowledged.
func (c *Coordinator) IsInterruptRequested(inst Instance) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.instances[inst.ID]
	return ok && state != StateAlive
}

// AcknowledgeInterrupted moves a requested instance to Interrupted and
// reports whether it did so. Alive and unknown instances are left alone.
func (c *Coordinator) AcknowledgeInterrupted(inst Instance) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.instances[inst.ID]
	if !ok || state == StateAlive {
		return false
	}
	c.instances[inst.ID] = StateInterrupted
	return true
}

// IsInterruptDesired reports whether an interrupt was requested and not
// discarded since. It does not take the registry lock.
func (c *Coordinator) IsInterruptDesired() bool {
	return c.desired.Load()
}

// SetDiscardInterrupt makes subsequent RequestInterruptAll calls no-ops while
// a non-interruptible action runs. Either way the desired flag is cleared.
func (c *Coordinator) SetDiscardInterrupt(discard bool) {
	c.mu.Lock()
	c.discard = discard
	c.mu.Unlock()
	c.desired.Store(false)
}

// IsDiscardInterrupt reports whether interrupt requests are being discarded.
func (c *Coordinator) IsDiscardInterrupt() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discard
}

// Snapshot returns a copy of the registry.
func (c *Coordinator) Snapshot() map[uuid.UUID]State {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[uuid.UUID]State, len(c.instances))
	for id, state := range c.instances {
		out[id] = state
	}
	return out
}
