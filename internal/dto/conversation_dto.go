package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitMessageRequest struct {
	SessionId      uuid.UUID
	ParticipantKey string `json:"participant_key" validate:"required"`
	DisplayName    string `json:"display_name"`
	Message        string `json:"message" validate:"required"`
}

type ProgressDTO struct {
	QuestionIndex  int  `json:"question_index"`
	QuestionsTotal int  `json:"questions_total"`
	FollowupsUsed  int  `json:"followups_used"`
	NoNewInfoRuns  int  `json:"no_new_info_runs"`
	MessageCount   int  `json:"message_count"`
	Concluded      bool `json:"concluded"`
}

type SubmitMessageResponse struct {
	Reply          string      `json:"reply"`
	Clarifications []string    `json:"clarifications,omitempty"`
	Progress       ProgressDTO `json:"progress"`
	Concluded      bool        `json:"concluded"`
	ConcludeReason string      `json:"conclude_reason,omitempty"`
}

type RequestStopRequest struct {
	SessionId      uuid.UUID
	ParticipantKey string `json:"participant_key" validate:"required"`
}

type RequestStopResponse struct {
	Stopped bool `json:"stopped"`
	Queued  bool `json:"queued"`
}

type TurnDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type GetHistoryResponse struct {
	ParticipantKey string    `json:"participant_key"`
	Turns          []TurnDTO `json:"turns"`
}

type GetFinalDocumentResponse struct {
	ParticipantKey string     `json:"participant_key"`
	FinalStatus    string     `json:"final_status"`
	FinalDocument  string     `json:"final_document,omitempty"`
	ConcludedAt    *time.Time `json:"concluded_at,omitempty"`
}

type RetryFinalizationResponse struct {
	ParticipantKey string `json:"participant_key"`
	FinalStatus    string `json:"final_status"`
}
