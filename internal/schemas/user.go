package schemas

import (
	"time"

	"gorm.io/datatypes"

	"github.com/zaqqye/exam_backend/internal/models"
	"github.com/zaqqye/exam_backend/internal/patch"
)

type UserCreate struct {
	Email        string            `json:"email" binding:"required,max=255"`
	PasswordHash string            `json:"password_hash" binding:"required,max=255"`
	Role         models.UserRole   `json:"role" binding:"required,enum"`
	IsActive     *bool             `json:"is_active"`
	ExtraData    datatypes.JSONMap `json:"extra_data"`
}

func (in *UserCreate) Model() *models.User {
	return &models.User{
		Base:         base(in.ExtraData),
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		IsActive:     boolOr(in.IsActive, true),
	}
}

type UserUpdate struct {
	Email        patch.Field[string]            `json:"email" binding:"omitnil,min=1,max=255"`
	PasswordHash patch.Field[string]            `json:"password_hash" binding:"omitnil,min=1,max=255"`
	Role         patch.Field[models.UserRole]   `json:"role" binding:"omitnil,enum"`
	IsActive     patch.Field[bool]              `json:"is_active"`
	ExtraData    patch.Field[datatypes.JSONMap] `json:"extra_data" patch:"nullable"`
}

type UserSessionCreate struct {
	UserID       string            `json:"user_id" binding:"required,uuid"`
	SessionToken string            `json:"session_token" binding:"required,max=255"`
	IPAddress    *string           `json:"ip_address" binding:"omitempty,ip|cidr"`
	UserAgent    *string           `json:"user_agent" binding:"omitempty,max=500"`
	ExpiresAt    time.Time         `json:"expires_at" binding:"required"`
	ExtraData    datatypes.JSONMap `json:"extra_data"`
}

func (in *UserSessionCreate) Model() *models.UserSession {
	return &models.UserSession{
		Base:         base(in.ExtraData),
		UserID:       in.UserID,
		SessionToken: in.SessionToken,
		IPAddress:    in.IPAddress,
		UserAgent:    in.UserAgent,
		ExpiresAt:    in.ExpiresAt,
	}
}

// UserSessionUpdate cannot move a session to another user.
type UserSessionUpdate struct {
	SessionToken patch.Field[string]            `json:"session_token" binding:"omitnil,min=1,max=255"`
	IPAddress    patch.Field[string]            `json:"ip_address" binding:"omitnil,ip|cidr" patch:"nullable"`
	UserAgent    patch.Field[string]            `json:"user_agent" binding:"omitnil,max=500" patch:"nullable"`
	ExpiresAt    patch.Field[time.Time]         `json:"expires_at"`
	ExtraData    patch.Field[datatypes.JSONMap] `json:"extra_data" patch:"nullable"`
}

type UserTokenCreate struct {
	UserID    string            `json:"user_id" binding:"required,uuid"`
	TokenType string            `json:"token_type" binding:"required,max=50"`
	TokenHash string            `json:"token_hash" binding:"required,max=255"`
	ExpiresAt time.Time         `json:"expires_at" binding:"required"`
	IsRevoked *bool             `json:"is_revoked"`
	ExtraData datatypes.JSONMap `json:"extra_data"`
}

func (in *UserTokenCreate) Model() *models.UserToken {
	return &models.UserToken{
		UserID:    in.UserID,
		TokenType: in.TokenType,
		TokenHash: in.TokenHash,
		ExpiresAt: in.ExpiresAt,
		IsRevoked: boolOr(in.IsRevoked, false),
		ExtraData: in.ExtraData,
	}
}

type UserTokenUpdate struct {
	TokenType patch.Field[string]            `json:"token_type" binding:"omitnil,min=1,max=50"`
	TokenHash patch.Field[string]            `json:"token_hash" binding:"omitnil,min=1,max=255"`
	ExpiresAt patch.Field[time.Time]         `json:"expires_at"`
	IsRevoked patch.Field[bool]              `json:"is_revoked"`
	ExtraData patch.Field[datatypes.JSONMap] `json:"extra_data" patch:"nullable"`
}

type StudentProfileCreate struct {
	UserID           string            `json:"user_id" binding:"required,uuid"`
	StudentID        string            `json:"student_id" binding:"required,max=50"`
	FirstName        string            `json:"first_name" binding:"required,max=100"`
	LastName         string            `json:"last_name" binding:"required,max=100"`
	Phone            *string           `json:"phone" binding:"omitempty,max=20"`
	EmergencyContact datatypes.JSONMap `json:"emergency_contact"`
	ExtraData        datatypes.JSONMap `json:"extra_data"`
}

func (in *StudentProfileCreate) Model() *models.StudentProfile {
	return &models.StudentProfile{
		Base:             base(in.ExtraData),
		UserID:           in.UserID,
		StudentNumber:    in.StudentID,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Phone:            in.Phone,
		EmergencyContact: in.EmergencyContact,
	}
}

type StudentProfileUpdate struct {
	StudentID        patch.Field[string]            `json:"student_id" binding:"omitnil,min=1,max=50"`
	FirstName        patch.Field[string]            `json:"first_name" binding:"omitnil,min=1,max=100"`
	LastName         patch.Field[string]            `json:"last_name" binding:"omitnil,min=1,max=100"`
	Phone            patch.Field[string]            `json:"phone" binding:"omitnil,max=20" patch:"nullable"`
	EmergencyContact patch.Field[datatypes.JSONMap] `json:"emergency_contact" patch:"nullable"`
	ExtraData        patch.Field[datatypes.JSONMap] `json:"extra_data" patch:"nullable"`
}

type TeacherProfileCreate struct {
	UserID      string            `json:"user_id" binding:"required,uuid"`
	EmployeeID  string            `json:"employee_id" binding:"required,max=50"`
	FirstName   string            `json:"first_name" binding:"required,max=100"`
	LastName    string            `json:"last_name" binding:"required,max=100"`
	Department  *string           `json:"department" binding:"omitempty,max=100"`
	Designation *string           `json:"designation" binding:"omitempty,max=100"`
	ExtraData   datatypes.JSONMap `json:"extra_data"`
}

func (in *TeacherProfileCreate) Model() *models.TeacherProfile {
	return &models.TeacherProfile{
		Base:        base(in.ExtraData),
		UserID:      in.UserID,
		EmployeeID:  in.EmployeeID,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Department:  in.Department,
		Designation: in.Designation,
	}
}

type TeacherProfileUpdate struct {
	EmployeeID  patch.Field[string]            `json:"employee_id" binding:"omitnil,min=1,max=50"`
	FirstName   patch.Field[string]            `json:"first_name" binding:"omitnil,min=1,max=100"`
	LastName    patch.Field[string]            `json:"last_name" binding:"omitnil,min=1,max=100"`
	Department  patch.Field[string]            `json:"department" binding:"omitnil,max=100" patch:"nullable"`
	Designation patch.Field[string]            `json:"designation" binding:"omitnil,max=100" patch:"nullable"`
	ExtraData   patch.Field[datatypes.JSONMap] `json:"extra_data" patch:"nullable"`
}
