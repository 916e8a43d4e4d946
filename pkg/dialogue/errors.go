// Package dialogue holds the domain errors shared by the conversation
// services and the HTTP layer.
package dialogue

import "errors"

var (
	// ErrTurnInFlight rejects a message submitted while the participant's
	// previous turn is still being processed.
	ErrTurnInFlight = errors.New("turn already in flight for participant")

	// ErrConversationConcluded rejects messages after a conversation ended.
	ErrConversationConcluded = errors.New("conversation already concluded")

	// ErrConversationActive rejects terminal-only operations (finalization
	// retry) while the conversation is still running.
	ErrConversationActive = errors.New("conversation still active")

	// ErrInsufficientData means no concluded participant has a final
	// document yet, so there is nothing to synthesize.
	ErrInsufficientData = errors.New("insufficient data for synthesis")

	// ErrFinalizationDone rejects re-finalization after a successful run.
	ErrFinalizationDone = errors.New("finalization already completed")

	ErrParticipantNotFound = errors.New("participant not found")
	ErrSessionNotFound     = errors.New("session not found")
)
