package dto

import (
	"time"

	"github.com/google/uuid"
)

type SynthesisReportResponse struct {
	SessionId          uuid.UUID `json:"session_id"`
	ParticipantCount   int       `json:"participant_count"`
	Consensus          []string  `json:"consensus"`
	Disagreement       []string  `json:"disagreement"`
	SentimentStrength  []string  `json:"sentiment_strength"`
	Confusion          []string  `json:"confusion"`
	MissingInformation []string  `json:"missing_information"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// RebuildIndexMessage is the watermill payload for async index rebuilds.
type RebuildIndexMessage struct {
	SessionId uuid.UUID `json:"session_id"`
}
