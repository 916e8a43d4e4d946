package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// TurnGuard serializes message processing per participant and carries the
// queued-stop flag a moderator can set while a turn is in flight. At most one
// turn per participant runs at a time; a second submission is rejected rather
// than queued.
type TurnGuard struct {
	cache *cache.Cache
}

func NewTurnGuard() *TurnGuard {
	// Guard entries self-expire so a crashed turn never wedges a participant.
	c := cache.New(2*time.Minute, 1*time.Minute)
	return &TurnGuard{
		cache: c,
	}
}

// Acquire reserves the participant's turn slot. It reports false when another
// turn currently holds the slot.
func (g *TurnGuard) Acquire(participantId string) bool {
	// cache.Add is atomic: it errors if the key already exists.
	err := g.cache.Add(lockKey(participantId), struct{}{}, cache.DefaultExpiration)
	return err == nil
}

func (g *TurnGuard) Release(participantId string) {
	g.cache.Delete(lockKey(participantId))
}

// MarkStopRequested records a stop that arrived while a turn was in flight,
// to be applied when the current turn completes. Stop flags never expire:
// a queued stop holds until the engine consumes it.
func (g *TurnGuard) MarkStopRequested(participantId string) {
	g.cache.Set(stopKey(participantId), struct{}{}, cache.NoExpiration)
}

func (g *TurnGuard) StopRequested(participantId string) bool {
	_, found := g.cache.Get(stopKey(participantId))
	return found
}

func (g *TurnGuard) ClearStop(participantId string) {
	g.cache.Delete(stopKey(participantId))
}

func lockKey(participantId string) string {
	return "turn:" + participantId
}

func stopKey(participantId string) string {
	return "stop:" + participantId
}
