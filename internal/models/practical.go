package models

import (
	"time"

	"gorm.io/gorm"
)

// Practical is a gradable assignment within a lab.
type Practical struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	LabID       string    `gorm:"type:varchar(36);index;not null" json:"lab_id"`
	TeacherID   string    `gorm:"type:varchar(36);index;not null" json:"teacher_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Deadline    time.Time `gorm:"not null" json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Lab         Lab       `gorm:"foreignKey:LabID" json:"-"`
}

// BeforeCreate assigns a UUID primary key.
func (p *Practical) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// IsPastDeadline reports whether reference falls strictly after the deadline.
// A submission at the exact deadline instant is still accepted.
func (p Practical) IsPastDeadline(reference time.Time) bool {
	return reference.After(p.Deadline)
}
