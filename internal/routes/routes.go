package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zaqqye/exam_backend/internal/assignment"
	"github.com/zaqqye/exam_backend/internal/config"
	"github.com/zaqqye/exam_backend/internal/controllers"
	"github.com/zaqqye/exam_backend/internal/metrics"
	"github.com/zaqqye/exam_backend/internal/middleware"
	"github.com/zaqqye/exam_backend/internal/models"
	"github.com/zaqqye/exam_backend/internal/repository"
	"github.com/zaqqye/exam_backend/internal/schemas"
	"github.com/zaqqye/exam_backend/internal/tracing"
	"github.com/zaqqye/exam_backend/internal/ws"
)

// Deps is everything the router wires together. Metrics and Hub may be nil.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Hub     *ws.Hub
}

func (d Deps) observer() repository.Observer {
	if d.Metrics == nil {
		return nil
	}
	return d.Metrics
}

// NewRouter builds the engine with the middleware chain and every route.
// ctx bounds background work started by the middleware.
func NewRouter(ctx context.Context, d Deps) (*gin.Engine, error) {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if err := schemas.RegisterValidation(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.Recovery(d.Log), middleware.RequestLogger(d.Log), middleware.SecurityHeaders())
	if len(d.Config.CORSOrigins) > 0 {
		r.Use(middleware.CORS(d.Config.CORSOrigins))
	}
	if d.Config.RateLimit.MaxRequests > 0 {
		r.Use(middleware.RateLimiter(ctx, d.Config.RateLimit.MaxRequests, d.Config.RateLimit.Window))
	}
	if d.Config.Tracing.Enabled {
		r.Use(tracing.Middleware())
	}
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})

	if err := Register(r, d); err != nil {
		return nil, err
	}
	return r, nil
}

// Register mounts the entity groups and the process-wide endpoints.
func Register(r *gin.Engine, d Deps) error {
	health := &controllers.HealthController{DB: d.DB}
	r.GET("/health", health.Health)
	r.GET("/health/ready", health.Ready)
	if d.Metrics != nil {
		r.GET("/metrics", d.Metrics.Handler())
	}

	var errs []error
	keep := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	_, err := mount[models.User, schemas.UserCreate, schemas.UserUpdate](r, d, "/users", "User")
	keep(err)
	_, err = mount[models.UserSession, schemas.UserSessionCreate, schemas.UserSessionUpdate](r, d, "/user-sessions", "User session")
	keep(err)
	_, err = mount[models.UserToken, schemas.UserTokenCreate, schemas.UserTokenUpdate](r, d, "/user-tokens", "User token")
	keep(err)
	_, err = mount[models.StudentProfile, schemas.StudentProfileCreate, schemas.StudentProfileUpdate](r, d, "/student-profiles", "Student profile")
	keep(err)
	_, err = mount[models.StudentExamQuestion, schemas.StudentExamQuestionCreate, schemas.StudentExamQuestionUpdate](r, d, "/student-exam-questions", "Student exam question")
	keep(err)
	_, err = mount[models.TeacherProfile, schemas.TeacherProfileCreate, schemas.TeacherProfileUpdate](r, d, "/teacher-profiles", "Teacher profile")
	keep(err)
	_, err = mount[models.QuestionCategory, schemas.QuestionCategoryCreate, schemas.QuestionCategoryUpdate](r, d, "/question-categories", "Question category")
	keep(err)
	_, err = mount[models.Question, schemas.QuestionCreate, schemas.QuestionUpdate](r, d, "/questions", "Question")
	keep(err)
	_, err = mount[models.QuestionTestCase, schemas.QuestionTestCaseCreate, schemas.QuestionTestCaseUpdate](r, d, "/question-test-cases", "Question test case")
	keep(err)
	_, err = mount[models.Exam, schemas.ExamCreate, schemas.ExamUpdate](r, d, "/exams", "Exam")
	keep(err)
	_, err = mount[models.ExamQuestion, schemas.ExamQuestionCreate, schemas.ExamQuestionUpdate](r, d, "/exam-questions", "Exam question")
	keep(err)
	_, err = mount[models.ExamRegistration, schemas.ExamRegistrationCreate, schemas.ExamRegistrationUpdate](r, d, "/exam-registrations", "Exam registration")
	keep(err)
	_, err = mount[models.ExamSession, schemas.ExamSessionCreate, schemas.ExamSessionUpdate](r, d, "/exam-sessions", "Exam session")
	keep(err)
	_, err = mount[models.Submission, schemas.SubmissionCreate, schemas.SubmissionUpdate](r, d, "/submissions", "Submission")
	keep(err)
	_, err = mount[models.SubmissionResult, schemas.SubmissionResultCreate, schemas.SubmissionResultUpdate](r, d, "/submission-results", "Submission result")
	keep(err)
	_, err = mount[models.AuditLog, schemas.AuditLogCreate, schemas.AuditLogUpdate](r, d, "/audit-logs", "Audit log")
	keep(err)

	subEvents, err := mount[models.SubmissionEvent, schemas.SubmissionEventCreate, schemas.SubmissionEventUpdate](r, d, "/submission-events", "Submission event")
	keep(err)
	if subEvents != nil {
		subEvents.OnCreate = controllers.BroadcastSubmissionEvent(d.Hub)
	}
	examEvents, err := mount[models.ExamEvent, schemas.ExamEventCreate, schemas.ExamEventUpdate](r, d, "/exam-events", "Exam event")
	keep(err)
	if examEvents != nil {
		examEvents.OnCreate = controllers.BroadcastExamEvent(d.Hub)
	}

	precedence, err := assignment.ParsePrecedence(d.Config.AssignmentPrecedence)
	keep(err)
	assignCtrl := &controllers.AssignmentController{
		Resolver: assignment.NewResolver(d.DB, precedence),
		Log:      d.Log,
	}
	r.GET("/exams/:id/students/:student_profile_id/questions", assignCtrl.StudentQuestions)

	if d.Hub != nil {
		up := ws.NewUpgrader(d.Config.CORSOrigins)
		feed := r.Group("/ws")
		feed.GET("/events", ws.Handler(d.Hub, up, ws.AllTopics))
		feed.GET("/exam-sessions/:id/events", ws.Handler(d.Hub, up, ws.ParamTopic("id", ws.ExamSessionTopic)))
		feed.GET("/submissions/:id/events", ws.Handler(d.Hub, up, ws.ParamTopic("id", ws.SubmissionTopic)))
	}

	return errors.Join(errs...)
}

func mount[M any, C any, U any, PC interface {
	*C
	Model() *M
}](r *gin.Engine, d Deps, path, entity string) (*controllers.CRUDController[M], error) {
	repo, err := repository.New[M](d.DB, d.observer())
	if err != nil {
		return nil, err
	}
	ctl := controllers.NewCRUDController[M, C, U, PC](repo, entity, d.Log)
	ctl.Register(r.Group(path))
	return ctl, nil
}
