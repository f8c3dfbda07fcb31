package schemas

import (
	"gorm.io/datatypes"

	"github.com/zaqqye/exam_backend/internal/models"
	"github.com/zaqqye/exam_backend/internal/patch"
)

const defaultTimeLimitSeconds = 30

type QuestionCategoryCreate struct {
	Name        string            `json:"name" binding:"required,max=100"`
	Description *string           `json:"description"`
	IsActive    *bool             `json:"is_active"`
	ExtraData   datatypes.JSONMap `json:"extra_data"`
}

func (in *QuestionCategoryCreate) Model() *models.QuestionCategory {
	return &models.QuestionCategory{
		Base:        base(in.ExtraData),
		Name:        in.Name,
		Description: in.Description,
		IsActive:    boolOr(in.IsActive, true),
	}
}

type QuestionCategoryUpdate struct {
	Name        patch.Field[string]            `json:"name" binding:"omitnil,min=1,max=100"`
	Description patch.Field[string]            `json:"description" patch:"nullable"`
	IsActive    patch.Field[bool]              `json:"is_active"`
	ExtraData   patch.Field[datatypes.JSONMap] `json:"extra_data" patch:"nullable"`
}

// QuestionCreate leaves time_limit_seconds at 30 when the key is absent and
// stores NULL when it is sent as null.
type QuestionCreate struct {
	CategoryID       string            `json:"category_id" binding:"required,uuid"`
	CreatedBy        string            `json:"created_by" binding:"required,uuid"`
	Title            string            `json:"title" binding:"required,max=255"`
	Description      *string           `json:"description"`
	ProblemStatement string            `json:"problem_statement" binding:"required"`
	Difficulty       models.Difficulty `json:"difficulty" binding:"required,enum"`
	Constraints      datatypes.JSONMap `json:"constraints"`
	StarterCode      datatypes.JSONMap `json:"starter_code"`
	MaxScore         *int              `json:"max_score" binding:"required"`
	TimeLimitSeconds patch.Field[int]  `json:"time_limit_seconds"`
	IsActive         *bool             `json:"is_active"`
	ExtraData        datatypes.JSONMap `json:"extra_data"`
}

func (in *QuestionCreate) Model() *models.Question {
	q := &models.Question{
		Base:             base(in.ExtraData),
		CategoryID:       in.CategoryID,
		CreatedBy:        in.CreatedBy,
		Title:            in.Title,
		Description:      in.Description,
		ProblemStatement: in.ProblemStatement,
		Difficulty:       in.Difficulty,
		Constraints:      in.Constraints,
		StarterCode:      in.StarterCode,
		MaxScore:         *in.MaxScore,
		IsActive:         boolOr(in.IsActive, true),
	}
	switch {
	case !in.TimeLimitSeconds.Set:
		limit := defaultTimeLimitSeconds
		q.TimeLimitSeconds = &limit
	case !in.TimeLimitSeconds.Null:
		limit := in.TimeLimitSeconds.Value
		q.TimeLimitSeconds = &limit
	}
	return q
}

// QuestionUpdate may move a question to another category but never to
// another creator.
type QuestionUpdate struct {
	CategoryID       patch.Field[string]            `json:"category_id" binding:"omitnil,uuid"`
	Title            patch.Field[string]            `json:"title" binding:"omitnil,min=1,max=255"`
	Description      patch.Field[string]            `json:"description" patch:"nullable"`
	ProblemStatement patch.Field[string]            `json:"problem_statement" binding:"omitnil,min=1"`
	Difficulty       patch.Field[models.Difficulty] `json:"difficulty" binding:"omitnil,enum"`
	Constraints      patch.Field[datatypes.JSONMap] `json:"constraints" patch:"nullable"`
	StarterCode      patch.Field[datatypes.JSONMap] `json:"starter_code" patch:"nullable"`
	MaxScore         patch.Field[int]               `json:"max_score"`
	TimeLimitSeconds patch.Field[int]               `json:"time_limit_seconds" patch:"nullable"`
	IsActive         patch.Field[bool]              `json:"is_active"`
	ExtraData        patch.Field[datatypes.JSONMap] `json:"extra_data" patch:"nullable"`
}

// QuestionTestCaseCreate accepts empty input and expected output; a program
// may legitimately read or print nothing.
type QuestionTestCaseCreate struct {
	QuestionID     string            `json:"question_id" binding:"required,uuid"`
	InputData      *string           `json:"input_data" binding:"required"`
	ExpectedOutput *string           `json:"expected_output" binding:"required"`
	IsSample       *bool             `json:"is_sample"`
	IsHidden       *bool             `json:"is_hidden"`
	Weight         *int              `json:"weight"`
	ExtraData      datatypes.JSONMap `json:"extra_data"`
}

func (in *QuestionTestCaseCreate) Model() *models.QuestionTestCase {
	return &models.QuestionTestCase{
		Base:           base(in.ExtraData),
		QuestionID:     in.QuestionID,
		InputData:      *in.InputData,
		ExpectedOutput: *in.ExpectedOutput,
		IsSample:       boolOr(in.IsSample, false),
		IsHidden:       boolOr(in.IsHidden, false),
		Weight:         intOr(in.Weight, 1),
	}
}

type QuestionTestCaseUpdate struct {
	InputData      patch.Field[string]            `json:"input_data"`
	ExpectedOutput patch.Field[string]            `json:"expected_output"`
	IsSample       patch.Field[bool]              `json:"is_sample"`
	IsHidden       patch.Field[bool]              `json:"is_hidden"`
	Weight         patch.Field[int]               `json:"weight"`
	ExtraData      patch.Field[datatypes.JSONMap] `json:"extra_data" patch:"nullable"`
}
