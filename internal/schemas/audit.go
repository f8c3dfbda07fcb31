package schemas

import (
	"gorm.io/datatypes"

	"github.com/zaqqye/exam_backend/internal/models"
	"github.com/zaqqye/exam_backend/internal/patch"
)

type AuditLogCreate struct {
	UserID       *string           `json:"user_id" binding:"omitempty,uuid"`
	Action       string            `json:"action" binding:"required,max=100"`
	ResourceType string            `json:"resource_type" binding:"required,max=100"`
	ResourceID   *string           `json:"resource_id" binding:"omitempty,uuid"`
	OldValues    datatypes.JSONMap `json:"old_values"`
	NewValues    datatypes.JSONMap `json:"new_values"`
	IPAddress    *string           `json:"ip_address" binding:"omitempty,ip|cidr"`
	UserAgent    *string           `json:"user_agent" binding:"omitempty,max=500"`
	ExtraData    datatypes.JSONMap `json:"extra_data"`
}

func (in *AuditLogCreate) Model() *models.AuditLog {
	return &models.AuditLog{
		UserID:       in.UserID,
		Action:       in.Action,
		ResourceType: in.ResourceType,
		ResourceID:   in.ResourceID,
		OldValues:    in.OldValues,
		NewValues:    in.NewValues,
		IPAddress:    in.IPAddress,
		UserAgent:    in.UserAgent,
		ExtraData:    in.ExtraData,
	}
}

// AuditLogUpdate never reassigns the acting user.
type AuditLogUpdate struct {
	Action       patch.Field[string]            `json:"action" binding:"omitnil,min=1,max=100"`
	ResourceType patch.Field[string]            `json:"resource_type" binding:"omitnil,min=1,max=100"`
	ResourceID   patch.Field[string]            `json:"resource_id" binding:"omitnil,uuid" patch:"nullable"`
	OldValues    patch.Field[datatypes.JSONMap] `json:"old_values" patch:"nullable"`
	NewValues    patch.Field[datatypes.JSONMap] `json:"new_values" patch:"nullable"`
	IPAddress    patch.Field[string]            `json:"ip_address" binding:"omitnil,ip|cidr" patch:"nullable"`
	UserAgent    patch.Field[string]            `json:"user_agent" binding:"omitnil,max=500" patch:"nullable"`
	ExtraData    patch.Field[datatypes.JSONMap] `json:"extra_data" patch:"nullable"`
}

func base(extra datatypes.JSONMap) models.Base {
	return models.Base{ExtraData: extra}
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
