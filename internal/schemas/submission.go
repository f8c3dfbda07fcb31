package schemas

import (
	"gorm.io/datatypes"

	"github.com/zaqqye/exam_backend/internal/models"
	"github.com/zaqqye/exam_backend/internal/patch"
)

type SubmissionCreate struct {
	ExamSessionID string                  `json:"exam_session_id" binding:"required,uuid"`
	QuestionID    string                  `json:"question_id" binding:"required,uuid"`
	StudentID     string                  `json:"student_id" binding:"required,uuid"`
	SourceCode    string                  `json:"source_code" binding:"required"`
	Language      string                  `json:"language" binding:"required,max=50"`
	Status        models.SubmissionStatus `json:"status" binding:"omitempty,enum"`
	AttemptNumber *int                    `json:"attempt_number"`
	ExtraData     datatypes.JSONMap       `json:"extra_data"`
}

func (in *SubmissionCreate) Model() *models.Submission {
	status := in.Status
	if status == "" {
		status = models.SubmissionPending
	}
	return &models.Submission{
		Base:          base(in.ExtraData),
		ExamSessionID: in.ExamSessionID,
		QuestionID:    in.QuestionID,
		StudentID:     in.StudentID,
		SourceCode:    in.SourceCode,
		Language:      in.Language,
		Status:        status,
		AttemptNumber: intOr(in.AttemptNumber, 1),
	}
}

type SubmissionUpdate struct {
	SourceCode    patch.Field[string]                  `json:"source_code" binding:"omitnil,min=1"`
	Language      patch.Field[string]                  `json:"language" binding:"omitnil,min=1,max=50"`
	Status        patch.Field[models.SubmissionStatus] `json:"status" binding:"omitnil,enum"`
	AttemptNumber patch.Field[int]                     `json:"attempt_number"`
	ExtraData     patch.Field[datatypes.JSONMap]       `json:"extra_data" patch:"nullable"`
}

// SubmissionResultCreate is what the judge writes back. judge0_token is
// opaque to this service.
type SubmissionResultCreate struct {
	SubmissionID  string                 `json:"submission_id" binding:"required,uuid"`
	Judge0Token   *string                `json:"judge0_token" binding:"omitempty,max=255"`
	Status        models.ExecutionStatus `json:"status" binding:"required,enum"`
	Stdout        *string                `json:"stdout"`
	Stderr        *string                `json:"stderr"`
	CompileOutput *string                `json:"compile_output"`
	ExitCode      *int                   `json:"exit_code"`
	ExecutionTime *float64               `json:"execution_time"`
	MemoryUsed    *int                   `json:"memory_used"`
	Score         *int                   `json:"score"`
	MaxScore      *int                   `json:"max_score" binding:"required"`
	TestResults   datatypes.JSONMap      `json:"test_results"`
	ExtraData     datatypes.JSONMap      `json:"extra_data"`
}

func (in *SubmissionResultCreate) Model() *models.SubmissionResult {
	return &models.SubmissionResult{
		Base:          base(in.ExtraData),
		SubmissionID:  in.SubmissionID,
		Judge0Token:   in.Judge0Token,
		Status:        in.Status,
		Stdout:        in.Stdout,
		Stderr:        in.Stderr,
		CompileOutput: in.CompileOutput,
		ExitCode:      in.ExitCode,
		ExecutionTime: in.ExecutionTime,
		MemoryUsed:    in.MemoryUsed,
		Score:         intOr(in.Score, 0),
		MaxScore:      *in.MaxScore,
		TestResults:   in.TestResults,
	}
}

type SubmissionResultUpdate struct {
	Judge0Token   patch.Field[string]                 `json:"judge0_token" binding:"omitnil,max=255" patch:"nullable"`
	Status        patch.Field[models.ExecutionStatus] `json:"status" binding:"omitnil,enum"`
	Stdout        patch.Field[string]                 `json:"stdout" patch:"nullable"`
	Stderr        patch.Field[string]                 `json:"stderr" patch:"nullable"`
	CompileOutput patch.Field[string]                 `json:"compile_output" patch:"nullable"`
	ExitCode      patch.Field[int]                    `json:"exit_code" patch:"nullable"`
	ExecutionTime patch.Field[float64]                `json:"execution_time" patch:"nullable"`
	MemoryUsed    patch.Field[int]                    `json:"memory_used" patch:"nullable"`
	Score         patch.Field[int]                    `json:"score"`
	MaxScore      patch.Field[int]                    `json:"max_score"`
	TestResults   patch.Field[datatypes.JSONMap]      `json:"test_results" patch:"nullable"`
	ExtraData     patch.Field[datatypes.JSONMap]      `json:"extra_data" patch:"nullable"`
}

type SubmissionEventCreate struct {
	SubmissionID string            `json:"submission_id" binding:"required,uuid"`
	EventType    models.EventType  `json:"event_type" binding:"required,enum"`
	EventData    datatypes.JSONMap `json:"event_data"`
	ExtraData    datatypes.JSONMap `json:"extra_data"`
}

func (in *SubmissionEventCreate) Model() *models.SubmissionEvent {
	return &models.SubmissionEvent{
		SubmissionID: in.SubmissionID,
		EventType:    in.EventType,
		EventData:    in.EventData,
		ExtraData:    in.ExtraData,
	}
}

type SubmissionEventUpdate struct {
	EventType patch.Field[models.EventType]  `json:"event_type" binding:"omitnil,enum"`
	EventData patch.Field[datatypes.JSONMap] `json:"event_data" patch:"nullable"`
	ExtraData patch.Field[datatypes.JSONMap] `json:"extra_data" patch:"nullable"`
}
