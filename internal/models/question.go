package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionCategory struct {
	Base
	Name        string  `gorm:"size:100;not null;uniqueIndex:idx_question_categories_name" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	IsActive    bool    `gorm:"not null;index:idx_question_categories_is_active" json:"is_active"`
}

type Question struct {
	Base
	CategoryID       string            `gorm:"type:uuid;not null;index:idx_questions_category_id" json:"category_id"`
	CreatedBy        string            `gorm:"type:uuid;not null;index:idx_questions_created_by" json:"created_by"`
	Title            string            `gorm:"size:255;not null" json:"title"`
	Description      *string           `gorm:"type:text" json:"description"`
	ProblemStatement string            `gorm:"type:text;not null" json:"problem_statement"`
	Difficulty       Difficulty        `gorm:"type:varchar(20);not null;index:idx_questions_difficulty" json:"difficulty"`
	Constraints      datatypes.JSONMap `gorm:"type:jsonb" json:"constraints"`
	StarterCode      datatypes.JSONMap `gorm:"type:jsonb" json:"starter_code"`
	MaxScore         int               `gorm:"not null" json:"max_score"`
	TimeLimitSeconds *int              `json:"time_limit_seconds"`
	IsActive         bool              `gorm:"not null;index:idx_questions_is_active" json:"is_active"`

	Category *QuestionCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
	Creator  *User             `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE" json:"-"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) (err error) {
	q.Constraints = jsonOrEmpty(q.Constraints)
	q.StarterCode = jsonOrEmpty(q.StarterCode)
	return q.Base.BeforeCreate(tx)
}

// QuestionTestCase is graded by weight; hidden cases are never shown to
// students, sample cases are.
type QuestionTestCase struct {
	Base
	QuestionID     string `gorm:"type:uuid;not null;index:idx_question_test_cases_question_id" json:"question_id"`
	InputData      string `gorm:"type:text;not null" json:"input_data"`
	ExpectedOutput string `gorm:"type:text;not null" json:"expected_output"`
	IsSample       bool   `gorm:"not null;index:idx_question_test_cases_is_sample" json:"is_sample"`
	IsHidden       bool   `gorm:"not null" json:"is_hidden"`
	Weight         int    `gorm:"not null" json:"weight"`

	Question *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
}
