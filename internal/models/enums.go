package models

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type ExamType string

const (
	ExamTypePractice   ExamType = "practice"
	ExamTypeAssignment ExamType = "assignment"
	ExamTypeMidterm    ExamType = "midterm"
	ExamTypeFinal      ExamType = "final"
	ExamTypeQuiz       ExamType = "quiz"
)

func (t ExamType) IsValid() bool {
	switch t {
	case ExamTypePractice, ExamTypeAssignment, ExamTypeMidterm, ExamTypeFinal, ExamTypeQuiz:
		return true
	}
	return false
}

// ExamStatus moves draft -> published -> active -> completed or cancelled.
// The store does not enforce the transitions.
type ExamStatus string

const (
	ExamStatusDraft     ExamStatus = "draft"
	ExamStatusPublished ExamStatus = "published"
	ExamStatusActive    ExamStatus = "active"
	ExamStatusCompleted ExamStatus = "completed"
	ExamStatusCancelled ExamStatus = "cancelled"
)

func (s ExamStatus) IsValid() bool {
	switch s {
	case ExamStatusDraft, ExamStatusPublished, ExamStatusActive, ExamStatusCompleted, ExamStatusCancelled:
		return true
	}
	return false
}

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationApproved  RegistrationStatus = "approved"
	RegistrationRejected  RegistrationStatus = "rejected"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

func (s RegistrationStatus) IsValid() bool {
	switch s {
	case RegistrationPending, RegistrationApproved, RegistrationRejected, RegistrationCancelled:
		return true
	}
	return false
}

type SessionStatus string

const (
	SessionActive     SessionStatus = "active"
	SessionPaused     SessionStatus = "paused"
	SessionCompleted  SessionStatus = "completed"
	SessionTerminated SessionStatus = "terminated"
)

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionActive, SessionPaused, SessionCompleted, SessionTerminated:
		return true
	}
	return false
}

type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionRunning   SubmissionStatus = "running"
	SubmissionCompleted SubmissionStatus = "completed"
	SubmissionError     SubmissionStatus = "error"
)

func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionPending, SubmissionRunning, SubmissionCompleted, SubmissionError:
		return true
	}
	return false
}

// ExecutionStatus is the judge's verdict for one submission.
type ExecutionStatus string

const (
	ExecutionPending           ExecutionStatus = "pending"
	ExecutionRunning           ExecutionStatus = "running"
	ExecutionAccepted          ExecutionStatus = "accepted"
	ExecutionWrongAnswer       ExecutionStatus = "wrong_answer"
	ExecutionTimeLimitExceeded ExecutionStatus = "time_limit_exceeded"
	ExecutionCompilationError  ExecutionStatus = "compilation_error"
	ExecutionRuntimeError      ExecutionStatus = "runtime_error"
	ExecutionInternalError     ExecutionStatus = "internal_error"
)

func (s ExecutionStatus) IsValid() bool {
	switch s {
	case ExecutionPending, ExecutionRunning, ExecutionAccepted, ExecutionWrongAnswer,
		ExecutionTimeLimitExceeded, ExecutionCompilationError, ExecutionRuntimeError, ExecutionInternalError:
		return true
	}
	return false
}

type EventType string

const (
	EventSessionStart     EventType = "session_start"
	EventSessionEnd       EventType = "session_end"
	EventSubmissionCreate EventType = "submission_create"
	EventSubmissionUpdate EventType = "submission_update"
	EventTabSwitch        EventType = "tab_switch"
	EventWindowBlur       EventType = "window_blur"
	EventCopyPaste        EventType = "copy_paste"
	EventBrowserRefresh   EventType = "browser_refresh"
)

func (e EventType) IsValid() bool {
	switch e {
	case EventSessionStart, EventSessionEnd, EventSubmissionCreate, EventSubmissionUpdate,
		EventTabSwitch, EventWindowBlur, EventCopyPaste, EventBrowserRefresh:
		return true
	}
	return false
}
