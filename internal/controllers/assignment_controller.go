package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zaqqye/exam_backend/internal/assignment"
)

type AssignmentController struct {
	Resolver *assignment.Resolver
	Log      *zap.Logger
}

// StudentQuestions lists the questions a student profile sits for an exam.
func (ac *AssignmentController) StudentQuestions(c *gin.Context) {
	examID, ok := parseID(c, "id")
	if !ok {
		return
	}
	studentID, ok := parseID(c, "student_profile_id")
	if !ok {
		return
	}
	items, err := ac.Resolver.Resolve(c.Request.Context(), examID, studentID)
	switch {
	case errors.Is(err, assignment.ErrExamNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Exam not found"})
	case errors.Is(err, assignment.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Student profile not found"})
	case err != nil:
		internalError(c, ac.Log, err)
	default:
		c.JSON(http.StatusOK, items)
	}
}
