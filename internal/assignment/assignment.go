// Package assignment resolves the questions a student actually sits for an
// exam from the exam-wide list and the per-student overrides.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/zaqqye/exam_backend/internal/models"
)

type Precedence string

const (
	// Override uses the student's rows as the complete set when any exist.
	Override Precedence = "override"
	// ExamOnly ignores per-student rows.
	ExamOnly Precedence = "exam"
	// Merge lets student rows override exam rows by question id and
	// appends student-only questions.
	Merge Precedence = "merge"
)

type Source string

const (
	SourceExam    Source = "exam"
	SourceStudent Source = "student"
)

var (
	ErrExamNotFound    = errors.New("exam not found")
	ErrStudentNotFound = errors.New("student profile not found")
)

func ParsePrecedence(s string) (Precedence, error) {
	switch p := Precedence(s); p {
	case Override, ExamOnly, Merge:
		return p, nil
	case "":
		return Override, nil
	}
	return "", fmt.Errorf("unknown question assignment precedence %q", s)
}

// Item is one question of the effective assignment. ID is the id of the
// row it came from.
type Item struct {
	ID            string `json:"id"`
	QuestionID    string `json:"question_id"`
	QuestionOrder int    `json:"question_order"`
	Points        int    `json:"points"`
	Source        Source `json:"source"`
}

func fromExam(q models.ExamQuestion) Item {
	return Item{ID: q.ID, QuestionID: q.QuestionID, QuestionOrder: q.QuestionOrder, Points: q.Points, Source: SourceExam}
}

func fromStudent(q models.StudentExamQuestion) Item {
	return Item{ID: q.ID, QuestionID: q.QuestionID, QuestionOrder: q.QuestionOrder, Points: q.Points, Source: SourceStudent}
}

// Combine applies p to the exam rows and the student rows of one exam. The
// result is ordered by question_order, then question_id.
func Combine(p Precedence, exam []models.ExamQuestion, student []models.StudentExamQuestion) []Item {
	items := make([]Item, 0, len(exam)+len(student))
	switch {
	case p == Override && len(student) > 0:
		for _, q := range student {
			items = append(items, fromStudent(q))
		}
	case p == Merge:
		byQuestion := make(map[string]models.StudentExamQuestion, len(student))
		for _, q := range student {
			byQuestion[q.QuestionID] = q
		}
		for _, q := range exam {
			if s, ok := byQuestion[q.QuestionID]; ok {
				items = append(items, fromStudent(s))
				delete(byQuestion, q.QuestionID)
				continue
			}
			items = append(items, fromExam(q))
		}
		for _, q := range student {
			if _, ok := byQuestion[q.QuestionID]; ok {
				items = append(items, fromStudent(q))
			}
		}
	default:
		for _, q := range exam {
			items = append(items, fromExam(q))
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].QuestionOrder != items[j].QuestionOrder {
			return items[i].QuestionOrder < items[j].QuestionOrder
		}
		return items[i].QuestionID < items[j].QuestionID
	})
	return items
}

type Resolver struct {
	DB         *gorm.DB
	Precedence Precedence
}

func NewResolver(db *gorm.DB, p Precedence) *Resolver {
	return &Resolver{DB: db, Precedence: p}
}

// Resolve reads both assignment tables for examID and studentProfileID and
// combines them. It never writes.
func (r *Resolver) Resolve(ctx context.Context, examID, studentProfileID string) ([]Item, error) {
	db := r.DB.WithContext(ctx)

	if err := exists(db, &models.Exam{}, examID, ErrExamNotFound); err != nil {
		return nil, err
	}
	if err := exists(db, &models.StudentProfile{}, studentProfileID, ErrStudentNotFound); err != nil {
		return nil, err
	}

	var exam []models.ExamQuestion
	if err := db.Where("exam_id = ?", examID).Find(&exam).Error; err != nil {
		return nil, fmt.Errorf("load exam questions: %w", err)
	}
	var student []models.StudentExamQuestion
	if r.Precedence != ExamOnly {
		if err := db.Where("exam_id = ? AND student_id = ?", examID, studentProfileID).Find(&student).Error; err != nil {
			return nil, fmt.Errorf("load student exam questions: %w", err)
		}
	}
	return Combine(r.Precedence, exam, student), nil
}

func exists(db *gorm.DB, model interface{}, id string, notFound error) error {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("lookup %s: %w", id, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
