package facilitator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// judgmentPayload uses pointers so a missing required field is
// distinguishable from a zero value.
type judgmentPayload struct {
	Reply          *string  `json:"reply"`
	Breakdown      []string `json:"breakdown"`
	Clarifications []string `json:"clarification_requests"`
	NewInformation *bool    `json:"new_information"`
	NotesEntry     *string  `json:"notes_entry"`
	Justification  *string  `json:"justification"`
}

type reportPayload struct {
	Consensus          *[]string `json:"consensus"`
	Disagreement       *[]string `json:"disagreement"`
	SentimentStrength  *[]string `json:"sentiment_strength"`
	Confusion          *[]string `json:"confusion"`
	MissingInformation *[]string `json:"missing_information"`
}

func parseJudgment(raw string) (*Judgment, error) {
	var payload judgmentPayload
	if err := decodeStrict(raw, &payload); err != nil {
		return nil, err
	}

	if payload.Reply == nil || payload.NewInformation == nil || payload.NotesEntry == nil {
		return nil, fmt.Errorf("%w: missing required judgment fields", ErrMalformedOutput)
	}

	judgment := &Judgment{
		Reply:          *payload.Reply,
		Breakdown:      payload.Breakdown,
		Clarifications: payload.Clarifications,
		NewInformation: *payload.NewInformation,
		NotesEntry:     *payload.NotesEntry,
	}
	if payload.Justification != nil {
		judgment.Justification = *payload.Justification
	}
	if judgment.Breakdown == nil {
		judgment.Breakdown = []string{}
	}
	if judgment.Clarifications == nil {
		judgment.Clarifications = []string{}
	}
	return judgment, nil
}

func parseReport(raw string) (*Report, error) {
	var payload reportPayload
	if err := decodeStrict(raw, &payload); err != nil {
		return nil, err
	}

	if payload.Consensus == nil || payload.Disagreement == nil ||
		payload.SentimentStrength == nil || payload.Confusion == nil ||
		payload.MissingInformation == nil {
		return nil, fmt.Errorf("%w: missing required report fields", ErrMalformedOutput)
	}

	return &Report{
		Consensus:          *payload.Consensus,
		Disagreement:       *payload.Disagreement,
		SentimentStrength:  *payload.SentimentStrength,
		Confusion:          *payload.Confusion,
		MissingInformation: *payload.MissingInformation,
	}, nil
}

func decodeStrict(raw string, out interface{}) error {
	jsonContent := extractJSON(raw)

	decoder := json.NewDecoder(strings.NewReader(jsonContent))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

// extractJSON isolates JSON content from response
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return response
	}

	return response[startIdx : endIdx+1]
}
