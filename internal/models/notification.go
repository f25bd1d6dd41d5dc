package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string         `gorm:"type:uuid;not null;index" json:"userId"`
	Type    string         `gorm:"not null" json:"type"` // "application_status", "new_application", "new_message"
	Title   string         `gorm:"not null" json:"title"`
	Message string         `json:"message"`
	Data    datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"` // {"job_id": "...", "chat_id": "..."}
	IsRead  bool           `gorm:"default:false" json:"isRead"`
	ReadAt  *time.Time     `json:"readAt,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
