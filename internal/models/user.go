package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is written with a password hash but never serialises it.
type User struct {
	Base
	Email        string   `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null;index:idx_users_role" json:"role"`
	IsActive     bool     `gorm:"not null;index:idx_users_is_active" json:"is_active"`
}

type UserSession struct {
	Base
	UserID       string    `gorm:"type:uuid;not null;index:idx_user_sessions_user_id" json:"user_id"`
	SessionToken string    `gorm:"size:255;not null;uniqueIndex:idx_user_sessions_token" json:"session_token"`
	IPAddress    *string   `gorm:"type:inet" json:"ip_address"`
	UserAgent    *string   `gorm:"size:500" json:"user_agent"`
	ExpiresAt    time.Time `gorm:"not null;index:idx_user_sessions_expires_at" json:"expires_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// UserToken has no updated_at column; tokens are revoked, not edited.
type UserToken struct {
	ID        string            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string            `gorm:"type:uuid;not null;index:idx_user_tokens_user_id" json:"user_id"`
	TokenType string            `gorm:"size:50;not null;index:idx_user_tokens_type" json:"token_type"`
	TokenHash string            `gorm:"size:255;not null;uniqueIndex:idx_user_tokens_hash" json:"token_hash"`
	ExpiresAt time.Time         `gorm:"not null;index:idx_user_tokens_expires_at" json:"expires_at"`
	IsRevoked bool              `gorm:"not null" json:"is_revoked"`
	CreatedAt time.Time         `gorm:"not null" json:"created_at"`
	ExtraData datatypes.JSONMap `gorm:"type:jsonb" json:"extra_data"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *UserToken) BeforeCreate(tx *gorm.DB) (err error) {
	t.ID = newID(t.ID)
	t.ExtraData = jsonOrEmpty(t.ExtraData)
	return nil
}

// StudentProfile extends a student user. StudentNumber is exposed as
// student_id to match the institution's naming.
type StudentProfile struct {
	Base
	UserID           string            `gorm:"type:uuid;not null;uniqueIndex:idx_student_profiles_user_id" json:"user_id"`
	StudentNumber    string            `gorm:"column:student_id;size:50;not null;uniqueIndex:idx_student_profiles_student_id" json:"student_id"`
	FirstName        string            `gorm:"size:100;not null" json:"first_name"`
	LastName         string            `gorm:"size:100;not null" json:"last_name"`
	Phone            *string           `gorm:"size:20" json:"phone"`
	EmergencyContact datatypes.JSONMap `gorm:"type:jsonb" json:"emergency_contact"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *StudentProfile) BeforeCreate(tx *gorm.DB) (err error) {
	p.EmergencyContact = jsonOrEmpty(p.EmergencyContact)
	return p.Base.BeforeCreate(tx)
}

type TeacherProfile struct {
	Base
	UserID      string  `gorm:"type:uuid;not null;uniqueIndex:idx_teacher_profiles_user_id" json:"user_id"`
	EmployeeID  string  `gorm:"size:50;not null;uniqueIndex:idx_teacher_profiles_employee_id" json:"employee_id"`
	FirstName   string  `gorm:"size:100;not null" json:"first_name"`
	LastName    string  `gorm:"size:100;not null" json:"last_name"`
	Department  *string `gorm:"size:100" json:"department"`
	Designation *string `gorm:"size:100" json:"designation"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
