package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityLog captures auditable events triggered by teachers and students.
type ActivityLog struct {
	ID         string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	ActorID    string            `gorm:"type:varchar(36);index;not null" json:"actor_id"`
	ActorRole  string            `gorm:"size:32;not null" json:"actor_role"`
	Action     string            `gorm:"size:64;not null" json:"action"`
	EntityType string            `gorm:"size:64;not null" json:"entity_type"`
	EntityID   string            `gorm:"type:varchar(36)" json:"entity_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key.
func (a *ActivityLog) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// All returns every persisted model, in dependency order, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{}, &Student{}, &Teacher{},
		&Lab{}, &Timetable{}, &Notice{}, &Practical{},
		&Enrollment{}, &Submission{}, &Mark{}, &Attendance{},
		&ActivityLog{},
	}
}
