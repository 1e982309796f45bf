package models

import (
	"time"

	"gorm.io/gorm"
)

// Student is the profile joined to users with the STUDENT role.
type Student struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	RollNo      string    `gorm:"size:64" json:"roll_no"`
	PhoneNumber string    `gorm:"size:32" json:"phone_number"`
	BranchName  string    `gorm:"size:128" json:"branch_name"`
	Semester    int       `json:"semester"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key.
func (s *Student) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Teacher is the profile joined to users with the TEACHER role.
type Teacher struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Department string    `gorm:"size:128" json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key.
func (t *Teacher) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
