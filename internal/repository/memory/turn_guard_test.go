package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnGuardAcquireIsExclusive(t *testing.T) {
	guard := NewTurnGuard()

	assert.True(t, guard.Acquire("p1"))
	assert.False(t, guard.Acquire("p1"))
	assert.True(t, guard.Acquire("p2")) // other participants unaffected

	guard.Release("p1")
	assert.True(t, guard.Acquire("p1"))
}

func TestTurnGuardStopFlagLifecycle(t *testing.T) {
	guard := NewTurnGuard()

	assert.False(t, guard.StopRequested("p1"))
	guard.MarkStopRequested("p1")
	assert.True(t, guard.StopRequested("p1"))

	guard.ClearStop("p1")
	assert.False(t, guard.StopRequested("p1"))
}

// The stop flag holds until the engine consumes it: it is independent of the
// turn lock's lifecycle and survives release/re-acquire cycles.
func TestTurnGuardStopFlagSurvivesLockCycles(t *testing.T) {
	guard := NewTurnGuard()

	assert.True(t, guard.Acquire("p1"))
	guard.MarkStopRequested("p1")
	guard.Release("p1")

	assert.True(t, guard.StopRequested("p1"))
	assert.True(t, guard.Acquire("p1"))
	assert.True(t, guard.StopRequested("p1"))

	guard.ClearStop("p1")
	assert.False(t, guard.StopRequested("p1"))
}
