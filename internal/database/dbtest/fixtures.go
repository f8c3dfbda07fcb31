package dbtest

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/zaqqye/exam_backend/internal/models"
)

// Insert writes v straight through gorm and fails the test on error.
func Insert(t testing.TB, db *gorm.DB, v interface{}) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("insert %T: %v", v, err)
	}
}

func User(t testing.TB, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{
		Email:        fmt.Sprintf("%s-%d@example.com", role, seq.Add(1)),
		PasswordHash: "hash",
		Role:         role,
		IsActive:     true,
	}
	Insert(t, db, u)
	return u
}

func StudentProfile(t testing.TB, db *gorm.DB, user *models.User) *models.StudentProfile {
	t.Helper()
	p := &models.StudentProfile{
		UserID:        user.ID,
		StudentNumber: fmt.Sprintf("S%04d", seq.Add(1)),
		FirstName:     "Ada",
		LastName:      "Lovelace",
	}
	Insert(t, db, p)
	return p
}

func Category(t testing.TB, db *gorm.DB) *models.QuestionCategory {
	t.Helper()
	c := &models.QuestionCategory{Name: fmt.Sprintf("category-%d", seq.Add(1)), IsActive: true}
	Insert(t, db, c)
	return c
}

func Question(t testing.TB, db *gorm.DB, category *models.QuestionCategory, author *models.User) *models.Question {
	t.Helper()
	q := &models.Question{
		CategoryID:       category.ID,
		CreatedBy:        author.ID,
		Title:            fmt.Sprintf("question-%d", seq.Add(1)),
		ProblemStatement: "Add two numbers.",
		Difficulty:       models.DifficultyEasy,
		MaxScore:         100,
		IsActive:         true,
	}
	Insert(t, db, q)
	return q
}

func Exam(t testing.TB, db *gorm.DB, author *models.User) *models.Exam {
	t.Helper()
	start := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	e := &models.Exam{
		CreatedBy:       author.ID,
		Title:           "Midterm",
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		DurationMinutes: 120,
		ExamType:        models.ExamTypeMidterm,
		MaxAttempts:     1,
	}
	Insert(t, db, e)
	return e
}

func ExamSession(t testing.TB, db *gorm.DB, exam *models.Exam, student *models.User) *models.ExamSession {
	t.Helper()
	s := &models.ExamSession{
		ExamID:       exam.ID,
		StudentID:    student.ID,
		SessionToken: fmt.Sprintf("session-%d", seq.Add(1)),
		Status:       models.SessionActive,
	}
	Insert(t, db, s)
	return s
}

func Submission(t testing.TB, db *gorm.DB, session *models.ExamSession, q *models.Question) *models.Submission {
	t.Helper()
	s := &models.Submission{
		ExamSessionID: session.ID,
		QuestionID:    q.ID,
		StudentID:     session.StudentID,
		SourceCode:    "print(1 + 2)",
		Language:      "python",
		Status:        models.SubmissionPending,
		SubmittedAt:   time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC),
		AttemptNumber: 1,
	}
	Insert(t, db, s)
	return s
}
