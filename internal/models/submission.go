package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Submission struct {
	Base
	ExamSessionID string           `gorm:"type:uuid;not null;index:idx_submissions_exam_session_id" json:"exam_session_id"`
	QuestionID    string           `gorm:"type:uuid;not null;index:idx_submissions_question_id" json:"question_id"`
	StudentID     string           `gorm:"type:uuid;not null;index:idx_submissions_student_id" json:"student_id"`
	SourceCode    string           `gorm:"type:text;not null" json:"source_code"`
	Language      string           `gorm:"size:50;not null" json:"language"`
	Status        SubmissionStatus `gorm:"type:varchar(20);not null;index:idx_submissions_status" json:"status"`
	SubmittedAt   time.Time        `gorm:"not null;index:idx_submissions_submitted_at" json:"submitted_at"`
	AttemptNumber int              `gorm:"not null" json:"attempt_number"`

	ExamSession *ExamSession `gorm:"foreignKey:ExamSessionID;constraint:OnDelete:CASCADE" json:"-"`
	Question    *Question    `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	Student     *User        `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) (err error) {
	if s.Status == "" {
		s.Status = SubmissionPending
	}
	if s.AttemptNumber == 0 {
		s.AttemptNumber = 1
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = tx.NowFunc()
	}
	return s.Base.BeforeCreate(tx)
}

// SubmissionResult is written back once the external judge has evaluated
// a submission. Judge0Token is the judge's opaque handle.
type SubmissionResult struct {
	Base
	SubmissionID  string            `gorm:"type:uuid;not null;index:idx_submission_results_submission_id" json:"submission_id"`
	Judge0Token   *string           `gorm:"column:judge0_token;size:255" json:"judge0_token"`
	Status        ExecutionStatus   `gorm:"type:varchar(32);not null;index:idx_submission_results_status" json:"status"`
	Stdout        *string           `gorm:"type:text" json:"stdout"`
	Stderr        *string           `gorm:"type:text" json:"stderr"`
	CompileOutput *string           `gorm:"type:text" json:"compile_output"`
	ExitCode      *int              `json:"exit_code"`
	ExecutionTime *float64          `json:"execution_time"`
	MemoryUsed    *int              `json:"memory_used"`
	Score         int               `gorm:"not null" json:"score"`
	MaxScore      int               `gorm:"not null" json:"max_score"`
	TestResults   datatypes.JSONMap `gorm:"type:jsonb" json:"test_results"`
	EvaluatedAt   time.Time         `gorm:"not null;index:idx_submission_results_evaluated_at" json:"evaluated_at"`

	Submission *Submission `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *SubmissionResult) BeforeCreate(tx *gorm.DB) (err error) {
	r.TestResults = jsonOrEmpty(r.TestResults)
	if r.EvaluatedAt.IsZero() {
		r.EvaluatedAt = tx.NowFunc()
	}
	return r.Base.BeforeCreate(tx)
}

type SubmissionEvent struct {
	ID           string            `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID string            `gorm:"type:uuid;not null;index:idx_submission_events_submission_id" json:"submission_id"`
	EventType    EventType         `gorm:"type:varchar(32);not null;index:idx_submission_events_event_type" json:"event_type"`
	EventData    datatypes.JSONMap `gorm:"type:jsonb" json:"event_data"`
	CreatedAt    time.Time         `gorm:"not null;index:idx_submission_events_created_at" json:"created_at"`
	ExtraData    datatypes.JSONMap `gorm:"type:jsonb" json:"extra_data"`

	Submission *Submission `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (e *SubmissionEvent) BeforeCreate(tx *gorm.DB) (err error) {
	e.ID = newID(e.ID)
	e.EventData = jsonOrEmpty(e.EventData)
	e.ExtraData = jsonOrEmpty(e.ExtraData)
	return nil
}
