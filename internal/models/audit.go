package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records an action against a named resource with before/after
// snapshots. Rows outlive the acting user: deleting the user clears UserID.
type AuditLog struct {
	ID           string            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       *string           `gorm:"type:uuid;index:idx_audit_logs_user_id" json:"user_id"`
	Action       string            `gorm:"size:100;not null;index:idx_audit_logs_action" json:"action"`
	ResourceType string            `gorm:"size:100;not null;index:idx_audit_logs_resource_type" json:"resource_type"`
	ResourceID   *string           `gorm:"type:uuid" json:"resource_id"`
	OldValues    datatypes.JSONMap `gorm:"type:jsonb" json:"old_values"`
	NewValues    datatypes.JSONMap `gorm:"type:jsonb" json:"new_values"`
	IPAddress    *string           `gorm:"type:inet" json:"ip_address"`
	UserAgent    *string           `gorm:"size:500" json:"user_agent"`
	CreatedAt    time.Time         `gorm:"not null;index:idx_audit_logs_created_at" json:"created_at"`
	ExtraData    datatypes.JSONMap `gorm:"type:jsonb" json:"extra_data"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	a.ID = newID(a.ID)
	a.OldValues = jsonOrEmpty(a.OldValues)
	a.NewValues = jsonOrEmpty(a.NewValues)
	a.ExtraData = jsonOrEmpty(a.ExtraData)
	return nil
}
