package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/zaqqye/exam_backend/internal/database/dbtest"
	"github.com/zaqqye/exam_backend/internal/models"
	"github.com/zaqqye/exam_backend/internal/repository"
)

const missingID = "3f1f3a5e-8f3c-4a36-9a59-6f4c8b1d2e01"

type recordedOp struct {
	entity, operation, result string
}

type recorder struct {
	mu  sync.Mutex
	ops []recordedOp
}

func (r *recorder) ObserveOperation(entity, operation, result string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, recordedOp{entity, operation, result})
}

func newRepo[M any](t *testing.T, db *gorm.DB, obs repository.Observer) *repository.Repository[M] {
	t.Helper()
	repo, err := repository.New[M](db, obs)
	if err != nil {
		t.Fatalf("repository.New: %v", err)
	}
	return repo
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

func TestCreateGetRoundTrip(t *testing.T) {
	db := dbtest.Open(t)
	users := newRepo[models.User](t, db, nil)
	ctx := context.Background()

	created, err := users.Create(ctx, &models.User{Email: "a@example.com", PasswordHash: "h", Role: models.RoleStudent, IsActive: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("created = %+v, want generated id and timestamps", created)
	}
	if created.ExtraData == nil {
		t.Fatalf("extra_data = nil, want empty object")
	}

	got, err := users.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != created.ID || got.Email != created.Email || got.Role != created.Role || !got.IsActive {
		t.Fatalf("Get = %+v, want %+v", got, created)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, created.CreatedAt)
	}
	if users.Entity() != "users" {
		t.Fatalf("Entity() = %q, want users", users.Entity())
	}
}

func TestGetMissing(t *testing.T) {
	db := dbtest.Open(t)
	users := newRepo[models.User](t, db, nil)
	if _, err := users.Get(context.Background(), missingID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("Get missing err = %v, want ErrNotFound", err)
	}
}

func TestDeleteReturnsPriorRow(t *testing.T) {
	db := dbtest.Open(t)
	users := newRepo[models.User](t, db, nil)
	ctx := context.Background()
	u := dbtest.User(t, db, models.RoleAdmin)

	deleted, err := users.Delete(ctx, u.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.ID != u.ID || deleted.Email != u.Email {
		t.Fatalf("Delete = %+v, want %+v", deleted, u)
	}
	if _, err := users.Get(ctx, u.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("Get after delete err = %v, want ErrNotFound", err)
	}
	if _, err := users.Delete(ctx, u.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second Delete err = %v, want ErrNotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	db := dbtest.Open(t)
	users := newRepo[models.User](t, db, nil)
	ctx := context.Background()
	u := dbtest.User(t, db, models.RoleStudent)

	// Let the clock move so the refreshed updated_at is observable.
	time.Sleep(5 * time.Millisecond)
	touched, err := users.Update(ctx, u.ID, map[string]interface{}{})
	if err != nil {
		t.Fatalf("empty Update: %v", err)
	}
	if touched.Email != u.Email || touched.Role != u.Role || touched.IsActive != u.IsActive {
		t.Fatalf("empty update changed fields: %+v", touched)
	}
	if !touched.UpdatedAt.After(u.UpdatedAt) {
		t.Fatalf("updated_at = %v, want after %v", touched.UpdatedAt, u.UpdatedAt)
	}
	if !touched.CreatedAt.Equal(u.CreatedAt) {
		t.Fatalf("created_at moved: %v -> %v", u.CreatedAt, touched.CreatedAt)
	}

	updated, err := users.Update(ctx, u.ID, map[string]interface{}{"is_active": false, "role": models.RoleTeacher})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.IsActive || updated.Role != models.RoleTeacher || updated.Email != u.Email {
		t.Fatalf("Update = %+v", updated)
	}

	if _, err := users.Update(ctx, missingID, map[string]interface{}{"is_active": true}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("Update missing err = %v, want ErrNotFound", err)
	}
}

func TestUpdateClearsNullableColumn(t *testing.T) {
	db := dbtest.Open(t)
	profiles := newRepo[models.TeacherProfile](t, db, nil)
	ctx := context.Background()
	u := dbtest.User(t, db, models.RoleTeacher)
	dept := "Computing"

	p, err := profiles.Create(ctx, &models.TeacherProfile{UserID: u.ID, EmployeeID: "E1", FirstName: "Grace", LastName: "Hopper", Department: &dept})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	cleared, err := profiles.Update(ctx, p.ID, map[string]interface{}{"department": nil})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if cleared.Department != nil {
		t.Fatalf("department = %q, want nil", *cleared.Department)
	}
}

func TestDuplicateEmail(t *testing.T) {
	db := dbtest.Open(t)
	users := newRepo[models.User](t, db, nil)
	ctx := context.Background()

	if _, err := users.Create(ctx, &models.User{Email: "dup@example.com", PasswordHash: "h", Role: models.RoleStudent}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := users.Create(ctx, &models.User{Email: "dup@example.com", PasswordHash: "h", Role: models.RoleAdmin})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("duplicate Create err = %v, want ErrDuplicate", err)
	}
	if n := count(t, db, &models.User{}); n != 1 {
		t.Fatalf("users = %d, want 1", n)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	db := dbtest.Open(t)
	regs := newRepo[models.ExamRegistration](t, db, nil)
	ctx := context.Background()
	teacher := dbtest.User(t, db, models.RoleTeacher)
	student := dbtest.User(t, db, models.RoleStudent)
	exam := dbtest.Exam(t, db, teacher)

	first, err := regs.Create(ctx, &models.ExamRegistration{ExamID: exam.ID, StudentID: student.ID})
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if first.Status != models.RegistrationPending || first.RegisteredAt.IsZero() {
		t.Fatalf("registration defaults = %+v", first)
	}
	if _, err := regs.Create(ctx, &models.ExamRegistration{ExamID: exam.ID, StudentID: student.ID}); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("duplicate registration err = %v, want ErrDuplicate", err)
	}
	if n := count(t, db, &models.ExamRegistration{}); n != 1 {
		t.Fatalf("registrations = %d, want 1", n)
	}
}

func TestDanglingForeignKey(t *testing.T) {
	db := dbtest.Open(t)
	questions := newRepo[models.Question](t, db, nil)
	author := dbtest.User(t, db, models.RoleTeacher)

	_, err := questions.Create(context.Background(), &models.Question{
		CategoryID:       missingID,
		CreatedBy:        author.ID,
		Title:            "Orphan",
		ProblemStatement: "p",
		Difficulty:       models.DifficultyHard,
		MaxScore:         10,
	})
	if !errors.Is(err, repository.ErrForeignKey) {
		t.Fatalf("Create with missing category err = %v, want ErrForeignKey", err)
	}
	if n := count(t, db, &models.Question{}); n != 0 {
		t.Fatalf("questions = %d, want 0", n)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	db := dbtest.Open(t)
	users := newRepo[models.User](t, db, nil)
	ctx := context.Background()

	teacher := dbtest.User(t, db, models.RoleTeacher)
	other := dbtest.User(t, db, models.RoleTeacher)
	dbtest.Insert(t, db, &models.UserSession{UserID: teacher.ID, SessionToken: "tok", ExpiresAt: time.Now().Add(time.Hour)})
	dbtest.Insert(t, db, &models.UserToken{UserID: teacher.ID, TokenType: "refresh", TokenHash: "hash", ExpiresAt: time.Now().Add(time.Hour)})
	dbtest.Insert(t, db, &models.TeacherProfile{UserID: teacher.ID, EmployeeID: "E1", FirstName: "A", LastName: "B"})
	cat := dbtest.Category(t, db)
	q := dbtest.Question(t, db, cat, teacher)
	dbtest.Insert(t, db, &models.QuestionTestCase{QuestionID: q.ID, InputData: "1 2", ExpectedOutput: "3", Weight: 1})
	exam := dbtest.Exam(t, db, teacher)
	dbtest.Insert(t, db, &models.ExamQuestion{ExamID: exam.ID, QuestionID: q.ID, QuestionOrder: 1, Points: 10})
	keep := dbtest.Question(t, db, cat, other)

	userID := teacher.ID
	dbtest.Insert(t, db, &models.AuditLog{UserID: &userID, Action: "create", ResourceType: "question"})

	if _, err := users.Delete(ctx, teacher.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, m := range []interface{}{
		&models.UserSession{}, &models.UserToken{}, &models.TeacherProfile{},
		&models.Exam{}, &models.ExamQuestion{}, &models.QuestionTestCase{},
	} {
		if n := count(t, db, m); n != 0 {
			t.Fatalf("%T rows after user delete = %d, want 0", m, n)
		}
	}
	if n := count(t, db, &models.Question{}); n != 1 {
		t.Fatalf("questions = %d, want only the other author's", n)
	}
	var remaining models.Question
	if err := db.Take(&remaining).Error; err != nil || remaining.ID != keep.ID {
		t.Fatalf("remaining question = %+v, %v", remaining, err)
	}

	var log models.AuditLog
	if err := db.Take(&log).Error; err != nil {
		t.Fatalf("audit log gone after user delete: %v", err)
	}
	if log.UserID != nil {
		t.Fatalf("audit user_id = %q, want NULL", *log.UserID)
	}
}

func TestDeleteQuestionCascades(t *testing.T) {
	db := dbtest.Open(t)
	questions := newRepo[models.Question](t, db, nil)
	teacher := dbtest.User(t, db, models.RoleTeacher)
	cat := dbtest.Category(t, db)
	q := dbtest.Question(t, db, cat, teacher)
	exam := dbtest.Exam(t, db, teacher)
	dbtest.Insert(t, db, &models.QuestionTestCase{QuestionID: q.ID, InputData: "", ExpectedOutput: "", Weight: 1})
	dbtest.Insert(t, db, &models.ExamQuestion{ExamID: exam.ID, QuestionID: q.ID, QuestionOrder: 1, Points: 5})

	if _, err := questions.Delete(context.Background(), q.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := count(t, db, &models.QuestionTestCase{}); n != 0 {
		t.Fatalf("test cases = %d, want 0", n)
	}
	if n := count(t, db, &models.ExamQuestion{}); n != 0 {
		t.Fatalf("exam questions = %d, want 0", n)
	}
	if n := count(t, db, &models.Exam{}); n != 1 {
		t.Fatalf("exams = %d, want the exam to survive", n)
	}
}

func TestList(t *testing.T) {
	db := dbtest.Open(t)
	cats := newRepo[models.QuestionCategory](t, db, nil)
	ctx := context.Background()

	empty, err := cats.List(ctx, repository.DefaultOffset, repository.DefaultLimit)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("List on empty table = %#v, want empty slice", empty)
	}

	for i := 0; i < 5; i++ {
		dbtest.Category(t, db)
	}
	all, err := cats.List(ctx, 0, 100)
	if err != nil || len(all) != 5 {
		t.Fatalf("List all = %d rows, %v; want 5", len(all), err)
	}
	page, err := cats.List(ctx, 3, 10)
	if err != nil || len(page) != 2 {
		t.Fatalf("List(3, 10) = %d rows, %v; want 2", len(page), err)
	}
	page, err = cats.List(ctx, 0, 2)
	if err != nil || len(page) != 2 {
		t.Fatalf("List(0, 2) = %d rows, %v; want 2", len(page), err)
	}
	page, err = cats.List(ctx, 10, 10)
	if err != nil || len(page) != 0 {
		t.Fatalf("List past end = %d rows, %v; want 0", len(page), err)
	}
}

func TestAppendOnlyEntities(t *testing.T) {
	db := dbtest.Open(t)
	logs := newRepo[models.AuditLog](t, db, nil)
	ctx := context.Background()

	created, err := logs.Create(ctx, &models.AuditLog{Action: "login", ResourceType: "user"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() || created.OldValues == nil {
		t.Fatalf("audit log = %+v", created)
	}
	updated, err := logs.Update(ctx, created.ID, map[string]interface{}{"action": "logout"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Action != "logout" || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("updated = %+v", updated)
	}
}

func TestObserverSeesOutcomes(t *testing.T) {
	db := dbtest.Open(t)
	rec := &recorder{}
	users := newRepo[models.User](t, db, rec)
	ctx := context.Background()

	u, err := users.Create(ctx, &models.User{Email: "o@example.com", PasswordHash: "h", Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	users.Create(ctx, &models.User{Email: "o@example.com", PasswordHash: "h", Role: models.RoleStudent})
	users.Get(ctx, missingID)
	users.Delete(ctx, u.ID)

	want := []recordedOp{
		{"users", "create", "ok"},
		{"users", "create", "conflict"},
		{"users", "get", "not_found"},
		{"users", "delete", "ok"},
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.ops) != len(want) {
		t.Fatalf("ops = %+v, want %+v", rec.ops, want)
	}
	for i := range want {
		if rec.ops[i] != want[i] {
			t.Fatalf("ops[%d] = %+v, want %+v", i, rec.ops[i], want[i])
		}
	}
}
