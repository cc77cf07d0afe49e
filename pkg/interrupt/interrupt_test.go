// pkg/interrupt/interrupt_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test the instance registry state machine and interrupt broadcast

package interrupt_test

import (
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/packdrop/pkg/interrupt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndUnregister(t *testing.T) {
	c := interrupt.NewCoordinator()

	a := c.Register()
	b := c.Register()
	assert.NotEqual(t, a.ID, b.ID)

	snap := c.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, interrupt.StateAlive, snap[a.ID])

	c.Unregister(a)
	snap = c.Snapshot()
	assert.Len(t, snap, 1)
	_, ok := snap[a.ID]
	assert.False(t, ok)
}

func TestAcknowledge_RequiresRequest(t *testing.T) {
	c := interrupt.NewCoordinator()
	inst := c.Register()

	assert.False(t, c.IsInterruptRequested(inst))
	assert.False(t, c.AcknowledgeInterrupted(inst), "alive instance must not jump to interrupted")
	assert.Equal(t, interrupt.StateAlive, c.Snapshot()[inst.ID])
}

func TestRequestInterruptAll_WaitsForAcknowledgement(t *testing.T) {
	c := interrupt.NewCoordinator(interrupt.WithPollInterval(5 * time.Millisecond))
	instances := []interrupt.Instance{c.Register(), c.Register(), c.Register()}

	var wg sync.WaitGroup
	for _, inst := range instances {
		wg.Add(1)
		go func(inst interrupt.Instance) {
			defer wg.Done()
			for !c.IsInterruptRequested(inst) {
				time.Sleep(time.Millisecond)
			}
			c.AcknowledgeInterrupted(inst)
		}(inst)
	}

	honored := c.RequestInterruptAll(2 * time.Second)
	wg.Wait()

	assert.True(t, honored)
	assert.True(t, c.IsInterruptDesired())
	for _, inst := range instances {
		assert.Equal(t, interrupt.StateInterrupted, c.Snapshot()[inst.ID])
		assert.True(t, c.IsInterruptRequested(inst), "requested stays true after acknowledgement")
	}
}

func TestRequestInterruptAll_Timeout(t *testing.T) {
	c := interrupt.NewCoordinator(interrupt.WithPollInterval(5 * time.Millisecond))
	inst := c.Register()

	start := time.Now()
	honored := c.RequestInterruptAll(30 * time.Millisecond)
	elapsed := time.Since(start)

	assert.True(t, honored, "a lapsed timeout still counts as honored")
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
	assert.Equal(t, interrupt.StateInterruptRequested, c.Snapshot()[inst.ID])
}

func TestRequestInterruptAll_Discarded(t *testing.T) {
	c := interrupt.NewCoordinator()
	inst := c.Register()
	c.SetDiscardInterrupt(true)

	honored := c.RequestInterruptAll(time.Second)

	assert.False(t, honored)
	assert.False(t, c.IsInterruptDesired())
	assert.False(t, c.IsInterruptRequested(inst))
	assert.True(t, c.IsDiscardInterrupt())
}

func TestSetDiscardInterrupt_ClearsDesired(t *testing.T) {
	c := interrupt.NewCoordinator()
	require.True(t, c.RequestInterruptAll(0))
	require.True(t, c.IsInterruptDesired())

	c.SetDiscardInterrupt(false)
	assert.False(t, c.IsInterruptDesired())
}

func TestRequestInterruptAll_NoInstances(t *testing.T) {
	c := interrupt.NewCoordinator()
	assert.True(t, c.RequestInterruptAll(time.Second))
}

func TestStateTransitionsAreMonotonic(t *testing.T) {
	c := interrupt.NewCoordinator()
	inst := c.Register()

	c.RequestInterruptAll(0)
	require.True(t, c.AcknowledgeInterrupted(inst))

	// A second broadcast never moves an interrupted instance back.
	c.RequestInterruptAll(0)
	assert.Equal(t, interrupt.StateInterrupted, c.Snapshot()[inst.ID])
	assert.True(t, c.AcknowledgeInterrupted(inst))
	assert.Equal(t, interrupt.StateInterrupted, c.Snapshot()[inst.ID])
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "alive", interrupt.StateAlive.String())
	assert.Equal(t, "interrupt-requested", interrupt.StateInterruptRequested.String())
	assert.Equal(t, "interrupted", interrupt.StateInterrupted.String())
}

func TestRegister_ClearsStaleDesiredFlag(t *testing.T) {
	c := interrupt.NewCoordinator()
	require.True(t, c.RequestInterruptAll(0))
	require.True(t, c.IsInterruptDesired())

	inst := c.Register()

	assert.False(t, c.IsInterruptDesired(), "a fresh run must not inherit an earlier interrupt")
	assert.False(t, c.IsInterruptRequested(inst))
}

func TestRegister_KeepsDesiredWhileAnInstanceIsPending(t *testing.T) {
	c := interrupt.NewCoordinator(interrupt.WithPollInterval(time.Millisecond))
	first := c.Register()
	c.RequestInterruptAll(0)
	require.Equal(t, interrupt.StateInterruptRequested, c.Snapshot()[first.ID])

	c.Register()

	assert.True(t, c.IsInterruptDesired())
}
