package schemas

import (
	"time"

	"gorm.io/datatypes"

	"github.com/zaqqye/exam_backend/internal/models"
	"github.com/zaqqye/exam_backend/internal/patch"
)

type ExamCreate struct {
	CreatedBy        string            `json:"created_by" binding:"required,uuid"`
	Title            string            `json:"title" binding:"required,max=255"`
	Description      *string           `json:"description"`
	StartTime        time.Time         `json:"start_time" binding:"required"`
	EndTime          time.Time         `json:"end_time" binding:"required"`
	DurationMinutes  *int              `json:"duration_minutes" binding:"required"`
	ExamType         models.ExamType   `json:"exam_type" binding:"required,enum"`
	ShuffleQuestions *bool             `json:"shuffle_questions"`
	MaxAttempts      *int              `json:"max_attempts"`
	Settings         datatypes.JSONMap `json:"settings"`
	Status           models.ExamStatus `json:"status" binding:"omitempty,enum"`
	ExtraData        datatypes.JSONMap `json:"extra_data"`
}

func (in *ExamCreate) Model() *models.Exam {
	status := in.Status
	if status == "" {
		status = models.ExamStatusDraft
	}
	return &models.Exam{
		Base:             base(in.ExtraData),
		CreatedBy:        in.CreatedBy,
		Title:            in.Title,
		Description:      in.Description,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		DurationMinutes:  *in.DurationMinutes,
		ExamType:         in.ExamType,
		ShuffleQuestions: boolOr(in.ShuffleQuestions, false),
		MaxAttempts:      intOr(in.MaxAttempts, 1),
		Settings:         in.Settings,
		Status:           status,
	}
}

type ExamUpdate struct {
	Title            patch.Field[string]            `json:"title" binding:"omitnil,min=1,max=255"`
	Description      patch.Field[string]            `json:"description" patch:"nullable"`
	StartTime        patch.Field[time.Time]         `json:"start_time"`
	EndTime          patch.Field[time.Time]         `json:"end_time"`
	DurationMinutes  patch.Field[int]               `json:"duration_minutes"`
	ExamType         patch.Field[models.ExamType]   `json:"exam_type" binding:"omitnil,enum"`
	ShuffleQuestions patch.Field[bool]              `json:"shuffle_questions"`
	MaxAttempts      patch.Field[int]               `json:"max_attempts"`
	Settings         patch.Field[datatypes.JSONMap] `json:"settings" patch:"nullable"`
	Status           patch.Field[models.ExamStatus] `json:"status" binding:"omitnil,enum"`
	ExtraData        patch.Field[datatypes.JSONMap] `json:"extra_data" patch:"nullable"`
}

type ExamQuestionCreate struct {
	ExamID        string            `json:"exam_id" binding:"required,uuid"`
	QuestionID    string            `json:"question_id" binding:"required,uuid"`
	QuestionOrder *int              `json:"question_order" binding:"required"`
	Points        *int              `json:"points" binding:"required"`
	ExtraData     datatypes.JSONMap `json:"extra_data"`
}

func (in *ExamQuestionCreate) Model() *models.ExamQuestion {
	return &models.ExamQuestion{
		Base:          base(in.ExtraData),
		ExamID:        in.ExamID,
		QuestionID:    in.QuestionID,
		QuestionOrder: *in.QuestionOrder,
		Points:        *in.Points,
	}
}

type ExamQuestionUpdate struct {
	QuestionOrder patch.Field[int]               `json:"question_order"`
	Points        patch.Field[int]               `json:"points"`
	ExtraData     patch.Field[datatypes.JSONMap] `json:"extra_data" patch:"nullable"`
}

// StudentExamQuestionCreate takes the student_profiles id in student_id.
type StudentExamQuestionCreate struct {
	ExamID        string            `json:"exam_id" binding:"required,uuid"`
	StudentID     string            `json:"student_id" binding:"required,uuid"`
	QuestionID    string            `json:"question_id" binding:"required,uuid"`
	QuestionOrder *int              `json:"question_order" binding:"required"`
	Points        *int              `json:"points"`
	ExtraData     datatypes.JSONMap `json:"extra_data"`
}

func (in *StudentExamQuestionCreate) Model() *models.StudentExamQuestion {
	return &models.StudentExamQuestion{
		Base:          base(in.ExtraData),
		ExamID:        in.ExamID,
		StudentID:     in.StudentID,
		QuestionID:    in.QuestionID,
		QuestionOrder: *in.QuestionOrder,
		Points:        intOr(in.Points, 0),
	}
}

type StudentExamQuestionUpdate struct {
	QuestionOrder patch.Field[int]               `json:"question_order"`
	Points        patch.Field[int]               `json:"points"`
	ExtraData     patch.Field[datatypes.JSONMap] `json:"extra_data" patch:"nullable"`
}

type ExamRegistrationCreate struct {
	ExamID     string                    `json:"exam_id" binding:"required,uuid"`
	StudentID  string                    `json:"student_id" binding:"required,uuid"`
	Status     models.RegistrationStatus `json:"status" binding:"omitempty,enum"`
	ApprovedAt *time.Time                `json:"approved_at"`
	ApprovedBy *string                   `json:"approved_by" binding:"omitempty,uuid"`
	ExtraData  datatypes.JSONMap         `json:"extra_data"`
}

func (in *ExamRegistrationCreate) Model() *models.ExamRegistration {
	status := in.Status
	if status == "" {
		status = models.RegistrationPending
	}
	return &models.ExamRegistration{
		Base:       base(in.ExtraData),
		ExamID:     in.ExamID,
		StudentID:  in.StudentID,
		Status:     status,
		ApprovedAt: in.ApprovedAt,
		ApprovedBy: in.ApprovedBy,
	}
}

type ExamRegistrationUpdate struct {
	Status     patch.Field[models.RegistrationStatus] `json:"status" binding:"omitnil,enum"`
	ApprovedAt patch.Field[time.Time]                 `json:"approved_at" patch:"nullable"`
	ApprovedBy patch.Field[string]                    `json:"approved_by" binding:"omitnil,uuid" patch:"nullable"`
	ExtraData  patch.Field[datatypes.JSONMap]         `json:"extra_data" patch:"nullable"`
}

type ExamSessionCreate struct {
	ExamID         string               `json:"exam_id" binding:"required,uuid"`
	StudentID      string               `json:"student_id" binding:"required,uuid"`
	SessionToken   string               `json:"session_token" binding:"required,max=255"`
	StartedAt      *time.Time           `json:"started_at"`
	EndedAt        *time.Time           `json:"ended_at"`
	LastActivityAt *time.Time           `json:"last_activity_at"`
	Status         models.SessionStatus `json:"status" binding:"omitempty,enum"`
	BrowserInfo    datatypes.JSONMap    `json:"browser_info"`
	IPAddress      *string              `json:"ip_address" binding:"omitempty,ip|cidr"`
	ExtraData      datatypes.JSONMap    `json:"extra_data"`
}

func (in *ExamSessionCreate) Model() *models.ExamSession {
	status := in.Status
	if status == "" {
		status = models.SessionActive
	}
	return &models.ExamSession{
		Base:           base(in.ExtraData),
		ExamID:         in.ExamID,
		StudentID:      in.StudentID,
		SessionToken:   in.SessionToken,
		StartedAt:      in.StartedAt,
		EndedAt:        in.EndedAt,
		LastActivityAt: in.LastActivityAt,
		Status:         status,
		BrowserInfo:    in.BrowserInfo,
		IPAddress:      in.IPAddress,
	}
}

type ExamSessionUpdate struct {
	SessionToken   patch.Field[string]               `json:"session_token" binding:"omitnil,min=1,max=255"`
	StartedAt      patch.Field[time.Time]            `json:"started_at" patch:"nullable"`
	EndedAt        patch.Field[time.Time]            `json:"ended_at" patch:"nullable"`
	LastActivityAt patch.Field[time.Time]            `json:"last_activity_at" patch:"nullable"`
	Status         patch.Field[models.SessionStatus] `json:"status" binding:"omitnil,enum"`
	BrowserInfo    patch.Field[datatypes.JSONMap]    `json:"browser_info" patch:"nullable"`
	IPAddress      patch.Field[string]               `json:"ip_address" binding:"omitnil,ip|cidr" patch:"nullable"`
	ExtraData      patch.Field[datatypes.JSONMap]    `json:"extra_data" patch:"nullable"`
}

type ExamEventCreate struct {
	ExamSessionID string            `json:"exam_session_id" binding:"required,uuid"`
	EventType     models.EventType  `json:"event_type" binding:"required,enum"`
	EventData     datatypes.JSONMap `json:"event_data"`
	ExtraData     datatypes.JSONMap `json:"extra_data"`
}

func (in *ExamEventCreate) Model() *models.ExamEvent {
	return &models.ExamEvent{
		ExamSessionID: in.ExamSessionID,
		EventType:     in.EventType,
		EventData:     in.EventData,
		ExtraData:     in.ExtraData,
	}
}

type ExamEventUpdate struct {
	EventType patch.Field[models.EventType]  `json:"event_type" binding:"omitnil,enum"`
	EventData patch.Field[datatypes.JSONMap] `json:"event_data" patch:"nullable"`
	ExtraData patch.Field[datatypes.JSONMap] `json:"extra_data" patch:"nullable"`
}
