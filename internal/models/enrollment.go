package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment links one student to one lab.
type Enrollment struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	StudentID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_pair" json:"student_id"`
	LabID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_pair;index" json:"lab_id"`
	CreatedAt time.Time `json:"created_at"`
	Student   Student   `gorm:"foreignKey:StudentID" json:"-"`
	Lab       Lab       `gorm:"foreignKey:LabID" json:"-"`
}

// BeforeCreate assigns a UUID primary key.
func (e *Enrollment) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
