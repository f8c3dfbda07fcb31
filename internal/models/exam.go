package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Exam struct {
	Base
	CreatedBy        string            `gorm:"type:uuid;not null;index:idx_exams_created_by" json:"created_by"`
	Title            string            `gorm:"size:255;not null" json:"title"`
	Description      *string           `gorm:"type:text" json:"description"`
	StartTime        time.Time         `gorm:"not null;index:idx_exams_start_time" json:"start_time"`
	EndTime          time.Time         `gorm:"not null;index:idx_exams_end_time" json:"end_time"`
	DurationMinutes  int               `gorm:"not null" json:"duration_minutes"`
	ExamType         ExamType          `gorm:"type:varchar(20);not null;index:idx_exams_exam_type" json:"exam_type"`
	ShuffleQuestions bool              `gorm:"not null" json:"shuffle_questions"`
	MaxAttempts      int               `gorm:"not null" json:"max_attempts"`
	Settings         datatypes.JSONMap `gorm:"type:jsonb" json:"settings"`
	Status           ExamStatus        `gorm:"type:varchar(20);not null;index:idx_exams_status" json:"status"`

	Creator *User `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE" json:"-"`
}

func (e *Exam) BeforeCreate(tx *gorm.DB) (err error) {
	e.Settings = jsonOrEmpty(e.Settings)
	if e.Status == "" {
		e.Status = ExamStatusDraft
	}
	return e.Base.BeforeCreate(tx)
}

// ExamQuestion attaches a question to an exam for every candidate.
type ExamQuestion struct {
	Base
	ExamID        string `gorm:"type:uuid;not null;index:idx_exam_questions_exam_id;uniqueIndex:uq_exam_questions_exam_question,priority:1;uniqueIndex:uq_exam_questions_exam_order,priority:1" json:"exam_id"`
	QuestionID    string `gorm:"type:uuid;not null;index:idx_exam_questions_question_id;uniqueIndex:uq_exam_questions_exam_question,priority:2" json:"question_id"`
	QuestionOrder int    `gorm:"not null;uniqueIndex:uq_exam_questions_exam_order,priority:2" json:"question_order"`
	Points        int    `gorm:"not null" json:"points"`

	Exam     *Exam     `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE" json:"-"`
	Question *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
}

// StudentExamQuestion assigns a question to one student within an exam,
// overriding order and points for personalised question sets.
// StudentID references student_profiles, not users.
type StudentExamQuestion struct {
	Base
	ExamID        string `gorm:"type:uuid;not null;index:idx_student_exam_questions_exam_id;uniqueIndex:uq_student_exam_question,priority:1" json:"exam_id"`
	StudentID     string `gorm:"type:uuid;not null;index:idx_student_exam_questions_student_id;uniqueIndex:uq_student_exam_question,priority:2" json:"student_id"`
	QuestionID    string `gorm:"type:uuid;not null;index:idx_student_exam_questions_question_id;uniqueIndex:uq_student_exam_question,priority:3" json:"question_id"`
	QuestionOrder int    `gorm:"not null" json:"question_order"`
	Points        int    `gorm:"not null" json:"points"`

	Exam     *Exam           `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE" json:"-"`
	Student  *StudentProfile `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Question *Question       `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
}

type ExamRegistration struct {
	Base
	ExamID       string             `gorm:"type:uuid;not null;index:idx_exam_registrations_exam_id;uniqueIndex:uq_exam_registrations_exam_student,priority:1" json:"exam_id"`
	StudentID    string             `gorm:"type:uuid;not null;index:idx_exam_registrations_student_id;uniqueIndex:uq_exam_registrations_exam_student,priority:2" json:"student_id"`
	Status       RegistrationStatus `gorm:"type:varchar(20);not null;index:idx_exam_registrations_status" json:"status"`
	RegisteredAt time.Time          `gorm:"not null" json:"registered_at"`
	ApprovedAt   *time.Time         `json:"approved_at"`
	ApprovedBy   *string            `gorm:"type:uuid" json:"approved_by"`

	Exam     *Exam `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE" json:"-"`
	Student  *User `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Approver *User `gorm:"foreignKey:ApprovedBy;constraint:OnDelete:SET NULL" json:"-"`
}

func (r *ExamRegistration) BeforeCreate(tx *gorm.DB) (err error) {
	if r.Status == "" {
		r.Status = RegistrationPending
	}
	if r.RegisteredAt.IsZero() {
		r.RegisteredAt = tx.NowFunc()
	}
	return r.Base.BeforeCreate(tx)
}

// ExamSession is one student's attempt at an exam.
type ExamSession struct {
	Base
	ExamID         string            `gorm:"type:uuid;not null;index:idx_exam_sessions_exam_id" json:"exam_id"`
	StudentID      string            `gorm:"type:uuid;not null;index:idx_exam_sessions_student_id" json:"student_id"`
	SessionToken   string            `gorm:"size:255;not null;uniqueIndex:idx_exam_sessions_token" json:"session_token"`
	StartedAt      *time.Time        `json:"started_at"`
	EndedAt        *time.Time        `json:"ended_at"`
	LastActivityAt *time.Time        `json:"last_activity_at"`
	Status         SessionStatus     `gorm:"type:varchar(20);not null;index:idx_exam_sessions_status" json:"status"`
	BrowserInfo    datatypes.JSONMap `gorm:"type:jsonb" json:"browser_info"`
	IPAddress      *string           `gorm:"type:inet" json:"ip_address"`

	Exam    *Exam `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE" json:"-"`
	Student *User `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *ExamSession) BeforeCreate(tx *gorm.DB) (err error) {
	s.BrowserInfo = jsonOrEmpty(s.BrowserInfo)
	if s.Status == "" {
		s.Status = SessionActive
	}
	return s.Base.BeforeCreate(tx)
}

// ExamEvent is an append-only proctoring log entry for an exam session.
type ExamEvent struct {
	ID            string            `gorm:"type:uuid;primaryKey" json:"id"`
	ExamSessionID string            `gorm:"type:uuid;not null;index:idx_exam_events_exam_session_id" json:"exam_session_id"`
	EventType     EventType         `gorm:"type:varchar(32);not null;index:idx_exam_events_event_type" json:"event_type"`
	EventData     datatypes.JSONMap `gorm:"type:jsonb" json:"event_data"`
	CreatedAt     time.Time         `gorm:"not null;index:idx_exam_events_created_at" json:"created_at"`
	ExtraData     datatypes.JSONMap `gorm:"type:jsonb" json:"extra_data"`

	ExamSession *ExamSession `gorm:"foreignKey:ExamSessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (e *ExamEvent) BeforeCreate(tx *gorm.DB) (err error) {
	e.ID = newID(e.ID)
	e.EventData = jsonOrEmpty(e.EventData)
	e.ExtraData = jsonOrEmpty(e.ExtraData)
	return nil
}
