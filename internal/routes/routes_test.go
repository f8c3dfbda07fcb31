package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/zaqqye/exam_backend/internal/config"
	"github.com/zaqqye/exam_backend/internal/database/dbtest"
	"github.com/zaqqye/exam_backend/internal/metrics"
	"github.com/zaqqye/exam_backend/internal/models"
	"github.com/zaqqye/exam_backend/internal/ws"
)

const missingID = "3f1f3a5e-8f3c-4a36-9a59-6f4c8b1d2e01"

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	hub    *ws.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db := dbtest.Open(t)
	m := metrics.New()
	hub := ws.NewHub(nil, m)
	go hub.Run(ctx)

	r, err := NewRouter(ctx, Deps{
		DB:      db,
		Config:  &config.Config{AssignmentPrecedence: "override"},
		Metrics: m,
		Hub:     hub,
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return &testServer{router: r, db: db, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("status = %d, want %d; body %s", w.Code, code, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", "")
	wantStatus(t, w, http.StatusOK)
	if w.Body.String() != `{"status":"ok"}` {
		t.Fatalf("body = %s", w.Body.String())
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" || w.Header().Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("security headers missing: %v", w.Header())
	}

	w = s.do(t, http.MethodGet, "/health/ready", "")
	wantStatus(t, w, http.StatusOK)
}

func TestUserLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/users/", `{"email":"ada@example.com","password_hash":"x","role":"student"}`)
	wantStatus(t, w, http.StatusCreated)
	var created map[string]interface{}
	decode(t, w, &created)
	id, _ := created["id"].(string)
	if id == "" || created["is_active"] != true || created["email"] != "ada@example.com" {
		t.Fatalf("created = %v", created)
	}
	if _, ok := created["password_hash"]; ok {
		t.Fatalf("created body exposes password_hash: %v", created)
	}

	w = s.do(t, http.MethodGet, "/users/"+id, "")
	wantStatus(t, w, http.StatusOK)
	var got map[string]interface{}
	decode(t, w, &got)
	if got["id"] != id || got["created_at"] != created["created_at"] {
		t.Fatalf("got = %v, want %v", got, created)
	}
	if strings.Contains(w.Body.String(), "password_hash") {
		t.Fatalf("get body exposes password_hash: %s", w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/users/", "")
	wantStatus(t, w, http.StatusOK)
	var list []map[string]interface{}
	decode(t, w, &list)
	if len(list) != 1 {
		t.Fatalf("list = %v, want one user", list)
	}
	if _, ok := list[0]["password_hash"]; ok {
		t.Fatalf("list item exposes password_hash: %v", list[0])
	}

	w = s.do(t, http.MethodPut, "/users/"+id, `{"password_hash":"y"}`)
	wantStatus(t, w, http.StatusOK)
	if strings.Contains(w.Body.String(), "password_hash") {
		t.Fatalf("update body exposes password_hash: %s", w.Body.String())
	}
	var stored models.User
	if err := s.db.Take(&stored, "id = ?", id).Error; err != nil || stored.PasswordHash != "y" {
		t.Fatalf("stored hash = %q, err %v; want y", stored.PasswordHash, err)
	}

	w = s.do(t, http.MethodDelete, "/users/"+id, "")
	wantStatus(t, w, http.StatusOK)
	var deleted map[string]interface{}
	decode(t, w, &deleted)
	if _, leaked := deleted["password_hash"]; deleted["id"] != id || leaked {
		t.Fatalf("deleted = %v", deleted)
	}

	w = s.do(t, http.MethodGet, "/users/"+id, "")
	wantStatus(t, w, http.StatusNotFound)
	if w.Body.String() != `{"detail":"User not found"}` {
		t.Fatalf("404 body = %s", w.Body.String())
	}
	wantStatus(t, s.do(t, http.MethodDelete, "/users/"+id, ""), http.StatusNotFound)
	wantStatus(t, s.do(t, http.MethodPut, "/users/"+id, `{}`), http.StatusNotFound)
}

func TestPartialUpdate(t *testing.T) {
	s := newTestServer(t)
	u := dbtest.User(t, s.db, models.RoleStudent)

	w := s.do(t, http.MethodPut, "/users/"+u.ID, `{"is_active":false}`)
	wantStatus(t, w, http.StatusOK)
	var got map[string]interface{}
	decode(t, w, &got)
	if got["is_active"] != false || got["email"] != u.Email || got["role"] != "student" {
		t.Fatalf("updated = %v", got)
	}

	wantStatus(t, s.do(t, http.MethodPut, "/users/"+u.ID, `{}`), http.StatusOK)

	w = s.do(t, http.MethodPut, "/users/"+u.ID, `{"email":null}`)
	wantStatus(t, w, http.StatusUnprocessableEntity)
	if !strings.Contains(w.Body.String(), `"null_not_allowed"`) {
		t.Fatalf("body = %s", w.Body.String())
	}

	w = s.do(t, http.MethodPut, "/users/"+u.ID, `{"role":"root"}`)
	wantStatus(t, w, http.StatusUnprocessableEntity)

	var stored models.User
	if err := s.db.Take(&stored, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Email != u.Email || stored.Role != models.RoleStudent || stored.IsActive {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestUpdateRejectsEmptyValues(t *testing.T) {
	s := newTestServer(t)
	teacher := dbtest.User(t, s.db, models.RoleTeacher)
	exam := dbtest.Exam(t, s.db, teacher)
	q := dbtest.Question(t, s.db, dbtest.Category(t, s.db), teacher)

	cases := []struct {
		path, body, field string
	}{
		{"/users/" + teacher.ID, `{"role":""}`, "role"},
		{"/users/" + teacher.ID, `{"email":""}`, "email"},
		{"/exams/" + exam.ID, `{"status":""}`, "status"},
		{"/exams/" + exam.ID, `{"title":""}`, "title"},
		{"/questions/" + q.ID, `{"category_id":""}`, "category_id"},
		{"/questions/" + q.ID, `{"difficulty":""}`, "difficulty"},
	}
	for _, tc := range cases {
		w := s.do(t, http.MethodPut, tc.path, tc.body)
		wantStatus(t, w, http.StatusUnprocessableEntity)
		if !strings.Contains(w.Body.String(), `["body","`+tc.field+`"]`) {
			t.Fatalf("PUT %s %s: body = %s, want error on %s", tc.path, tc.body, w.Body.String(), tc.field)
		}
	}

	var u models.User
	s.db.Take(&u, "id = ?", teacher.ID)
	var e models.Exam
	s.db.Take(&e, "id = ?", exam.ID)
	var stored models.Question
	s.db.Take(&stored, "id = ?", q.ID)
	if u.Role != models.RoleTeacher || u.Email != teacher.Email || e.Status != exam.Status || e.Title != exam.Title ||
		stored.CategoryID != q.CategoryID || stored.Difficulty != q.Difficulty {
		t.Fatalf("rejected updates were written: user %+v exam %+v question %+v", u, e, stored)
	}
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/users/", `{"password_hash":"x","role":"student"}`)
	wantStatus(t, w, http.StatusUnprocessableEntity)
	var body struct {
		Detail []struct {
			Loc  []string `json:"loc"`
			Type string   `json:"type"`
		} `json:"detail"`
	}
	decode(t, w, &body)
	if len(body.Detail) != 1 || body.Detail[0].Type != "missing" || body.Detail[0].Loc[0] != "body" || body.Detail[0].Loc[1] != "email" {
		t.Fatalf("detail = %+v", body.Detail)
	}

	wantStatus(t, s.do(t, http.MethodPost, "/users/", `{"email":`), http.StatusUnprocessableEntity)
	wantStatus(t, s.do(t, http.MethodPost, "/users/", ""), http.StatusUnprocessableEntity)
	wantStatus(t, s.do(t, http.MethodGet, "/users/not-a-uuid", ""), http.StatusUnprocessableEntity)
	wantStatus(t, s.do(t, http.MethodGet, "/users/?skip=-1", ""), http.StatusUnprocessableEntity)
	wantStatus(t, s.do(t, http.MethodGet, "/users/?limit=ten", ""), http.StatusUnprocessableEntity)

	var n int64
	s.db.Model(&models.User{}).Count(&n)
	if n != 0 {
		t.Fatalf("users = %d after rejected requests, want 0", n)
	}
}

func TestConflicts(t *testing.T) {
	s := newTestServer(t)
	author := dbtest.User(t, s.db, models.RoleTeacher)

	w := s.do(t, http.MethodPost, "/questions/", `{"category_id":"`+missingID+`","created_by":"`+author.ID+`","title":"t","problem_statement":"p","difficulty":"easy","max_score":10}`)
	wantStatus(t, w, http.StatusConflict)

	w = s.do(t, http.MethodPost, "/users/", `{"email":"`+author.Email+`","password_hash":"x","role":"teacher"}`)
	wantStatus(t, w, http.StatusConflict)
}

func TestPagination(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 3; i++ {
		dbtest.Category(t, s.db)
	}
	w := s.do(t, http.MethodGet, "/question-categories/?skip=1&limit=1", "")
	wantStatus(t, w, http.StatusOK)
	var page []map[string]interface{}
	decode(t, w, &page)
	if len(page) != 1 {
		t.Fatalf("page = %v, want 1 item", page)
	}
}

func TestStudentQuestions(t *testing.T) {
	s := newTestServer(t)
	teacher := dbtest.User(t, s.db, models.RoleTeacher)
	student := dbtest.StudentProfile(t, s.db, dbtest.User(t, s.db, models.RoleStudent))
	q := dbtest.Question(t, s.db, dbtest.Category(t, s.db), teacher)
	exam := dbtest.Exam(t, s.db, teacher)
	dbtest.Insert(t, s.db, &models.ExamQuestion{ExamID: exam.ID, QuestionID: q.ID, QuestionOrder: 1, Points: 10})

	w := s.do(t, http.MethodGet, "/exams/"+exam.ID+"/students/"+student.ID+"/questions", "")
	wantStatus(t, w, http.StatusOK)
	var items []map[string]interface{}
	decode(t, w, &items)
	if len(items) != 1 || items[0]["question_id"] != q.ID || items[0]["source"] != "exam" {
		t.Fatalf("items = %v", items)
	}

	w = s.do(t, http.MethodGet, "/exams/"+missingID+"/students/"+student.ID+"/questions", "")
	wantStatus(t, w, http.StatusNotFound)
	if w.Body.String() != `{"detail":"Exam not found"}` {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/nope", "")
	wantStatus(t, w, http.StatusNotFound)
	if w.Body.String() != `{"detail":"Not Found"}` {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/users/", "")
	w := s.do(t, http.MethodGet, "/metrics", "")
	wantStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `exam_store_operations_total{entity="users",operation="list",result="ok"} 1`) {
		t.Fatalf("metrics missing store counter:\n%s", w.Body.String())
	}
}

func TestExamEventIsBroadcast(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	teacher := dbtest.User(t, s.db, models.RoleTeacher)
	student := dbtest.User(t, s.db, models.RoleStudent)
	exam := dbtest.Exam(t, s.db, teacher)
	session := dbtest.ExamSession(t, s.db, exam, student)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/exam-sessions/" + session.ID + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		n, _ := s.hub.Clients(context.Background())
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Post(srv.URL+"/exam-events/", "application/json",
		strings.NewReader(`{"exam_session_id":"`+session.ID+`","event_type":"tab_switch","event_data":{"count":1}}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Kind  string `json:"kind"`
		Topic string `json:"topic"`
		Data  struct {
			ExamSessionID string `json:"exam_session_id"`
			EventType     string `json:"event_type"`
		} `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Kind != ws.KindExamEvent || msg.Topic != ws.ExamSessionTopic(session.ID) || msg.Data.EventType != "tab_switch" {
		t.Fatalf("message = %+v", msg)
	}
}

func TestEveryEntity(t *testing.T) {
	s := newTestServer(t)
	teacher := dbtest.User(t, s.db, models.RoleTeacher)
	student := dbtest.User(t, s.db, models.RoleStudent)
	unprofiled := dbtest.User(t, s.db, models.RoleStudent)
	profile := dbtest.StudentProfile(t, s.db, student)
	category := dbtest.Category(t, s.db)
	q := dbtest.Question(t, s.db, category, teacher)
	exam := dbtest.Exam(t, s.db, teacher)
	session := dbtest.ExamSession(t, s.db, exam, student)
	sub := dbtest.Submission(t, s.db, session, q)

	cases := []struct {
		path   string
		entity string
		body   string
	}{
		{"/users", "User", `{"email":"every@example.com","password_hash":"x","role":"teacher"}`},
		{"/user-sessions", "User session", `{"user_id":"` + student.ID + `","session_token":"every-session","user_agent":"curl","expires_at":"2026-02-01T00:00:00Z"}`},
		{"/user-tokens", "User token", `{"user_id":"` + student.ID + `","token_type":"refresh","token_hash":"every-hash","expires_at":"2026-02-01T00:00:00Z"}`},
		{"/student-profiles", "Student profile", `{"user_id":"` + unprofiled.ID + `","student_id":"S-EVERY","first_name":"Alan","last_name":"Turing"}`},
		{"/student-exam-questions", "Student exam question", `{"exam_id":"` + exam.ID + `","student_id":"` + profile.ID + `","question_id":"` + q.ID + `","question_order":1,"points":5}`},
		{"/teacher-profiles", "Teacher profile", `{"user_id":"` + teacher.ID + `","employee_id":"E-1","first_name":"Grace","last_name":"Hopper"}`},
		{"/question-categories", "Question category", `{"name":"every-category"}`},
		{"/questions", "Question", `{"category_id":"` + category.ID + `","created_by":"` + teacher.ID + `","title":"Sum","problem_statement":"Add two numbers.","difficulty":"easy","max_score":10}`},
		{"/question-test-cases", "Question test case", `{"question_id":"` + q.ID + `","input_data":"1 2","expected_output":"3"}`},
		{"/exams", "Exam", `{"created_by":"` + teacher.ID + `","title":"Final","start_time":"2026-03-01T09:00:00Z","end_time":"2026-03-01T11:00:00Z","duration_minutes":120,"exam_type":"final"}`},
		{"/exam-questions", "Exam question", `{"exam_id":"` + exam.ID + `","question_id":"` + q.ID + `","question_order":1,"points":10}`},
		{"/exam-registrations", "Exam registration", `{"exam_id":"` + exam.ID + `","student_id":"` + student.ID + `"}`},
		{"/exam-sessions", "Exam session", `{"exam_id":"` + exam.ID + `","student_id":"` + student.ID + `","session_token":"every-exam-session"}`},
		{"/submissions", "Submission", `{"exam_session_id":"` + session.ID + `","question_id":"` + q.ID + `","student_id":"` + student.ID + `","source_code":"print(3)","language":"python"}`},
		{"/submission-results", "Submission result", `{"submission_id":"` + sub.ID + `","status":"accepted","score":10,"max_score":10}`},
		{"/submission-events", "Submission event", `{"submission_id":"` + sub.ID + `","event_type":"submission_create"}`},
		{"/exam-events", "Exam event", `{"exam_session_id":"` + session.ID + `","event_type":"tab_switch"}`},
		{"/audit-logs", "Audit log", `{"user_id":"` + teacher.ID + `","action":"create","resource_type":"exam","resource_id":"` + exam.ID + `"}`},
	}
	for _, tc := range cases {
		t.Run(strings.TrimPrefix(tc.path, "/"), func(t *testing.T) {
			w := s.do(t, http.MethodPost, tc.path+"/", tc.body)
			wantStatus(t, w, http.StatusCreated)
			var created map[string]interface{}
			decode(t, w, &created)
			id, _ := created["id"].(string)
			if id == "" {
				t.Fatalf("created = %v, want an id", created)
			}
			item := tc.path + "/" + id

			w = s.do(t, http.MethodGet, item, "")
			wantStatus(t, w, http.StatusOK)
			var got map[string]interface{}
			decode(t, w, &got)
			if !reflect.DeepEqual(got, created) {
				t.Fatalf("get = %v, want %v", got, created)
			}

			// Let the clock move so a refreshed updated_at is observable.
			time.Sleep(5 * time.Millisecond)
			w = s.do(t, http.MethodPut, item, `{}`)
			wantStatus(t, w, http.StatusOK)
			var touched map[string]interface{}
			decode(t, w, &touched)
			before, tracked := created["updated_at"].(string)
			if tracked {
				after, _ := touched["updated_at"].(string)
				b, err1 := time.Parse(time.RFC3339Nano, before)
				a, err2 := time.Parse(time.RFC3339Nano, after)
				if err1 != nil || err2 != nil || !a.After(b) {
					t.Fatalf("updated_at = %q, want after %q", after, before)
				}
				delete(touched, "updated_at")
				delete(created, "updated_at")
			}
			if !reflect.DeepEqual(touched, created) {
				t.Fatalf("empty update = %v, want %v", touched, created)
			}

			w = s.do(t, http.MethodDelete, item, "")
			wantStatus(t, w, http.StatusOK)

			w = s.do(t, http.MethodGet, item, "")
			wantStatus(t, w, http.StatusNotFound)
			if want := `{"detail":"` + tc.entity + ` not found"}`; w.Body.String() != want {
				t.Fatalf("404 body = %s, want %s", w.Body.String(), want)
			}
		})
	}
}
