package models

import (
	"time"

	"github.com/google/uuid"
)

// Call outcomes recorded by agents
const (
	CallOutcomeAnswered   = "answered"
	CallOutcomeNoAnswer   = "no_answer"
	CallOutcomeVoicemail  = "voicemail"
	CallOutcomeCallback   = "callback"
	CallOutcomeWrongPhone = "wrong_number"
)

// Call is one entry of a client's call history
type Call struct {
	ID              int64     `json:"id"`
	ClientID        uuid.UUID `json:"client_id"`
	UserID          uuid.UUID `json:"user_id"`
	UserName        string    `json:"user_name,omitempty"`
	Outcome         string    `json:"outcome"`
	DurationSeconds int       `json:"duration_seconds"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateCallRequest represents the request body for logging a call
type CreateCallRequest struct {
	Outcome         string `json:"outcome"`
	DurationSeconds int    `json:"duration_seconds"`
	Notes           string `json:"notes"`
}

// IsValidCallOutcome checks the outcome against the known set
func IsValidCallOutcome(o string) bool {
	switch o {
	case CallOutcomeAnswered, CallOutcomeNoAnswer, CallOutcomeVoicemail, CallOutcomeCallback, CallOutcomeWrongPhone:
		return true
	}
	return false
}
