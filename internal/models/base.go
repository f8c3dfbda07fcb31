package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Base carries the columns shared by every mutable entity.
type Base struct {
	ID        string            `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null" json:"updated_at"`
	ExtraData datatypes.JSONMap `gorm:"type:jsonb" json:"extra_data"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.ExtraData = jsonOrEmpty(b.ExtraData)
	return nil
}

func jsonOrEmpty(m datatypes.JSONMap) datatypes.JSONMap {
	if m == nil {
		return datatypes.JSONMap{}
	}
	return m
}

func newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// All returns every persisted entity, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserSession{},
		&UserToken{},
		&StudentProfile{},
		&TeacherProfile{},
		&QuestionCategory{},
		&Question{},
		&QuestionTestCase{},
		&Exam{},
		&ExamQuestion{},
		&StudentExamQuestion{},
		&ExamRegistration{},
		&ExamSession{},
		&Submission{},
		&SubmissionResult{},
		&SubmissionEvent{},
		&ExamEvent{},
		&AuditLog{},
	}
}
