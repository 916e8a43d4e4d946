package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByParticipantID struct {
	ParticipantID uuid.UUID
}

func (s ByParticipantID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("participant_id = ?", s.ParticipantID)
}

type ByParticipantKey struct {
	Key string
}

func (s ByParticipantKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("key = ?", s.Key)
}

type ByRole struct {
	Role string
}

func (s ByRole) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role = ?", s.Role)
}

// ConcludedOnly selects participants whose conversations have ended.
type ConcludedOnly struct{}

func (s ConcludedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("concluded = ?", true)
}

// ActiveOnly selects participants still mid-conversation.
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("concluded = ?", false)
}

type ByFinalStatus struct {
	Status string
}

func (s ByFinalStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("final_status = ?", s.Status)
}
