package models

import (
	"time"

	"gorm.io/gorm"
)

// Submission is a student's single current answer to one practical.
type Submission struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PracticalID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_submission_pair;index" json:"practical_id"`
	StudentID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_submission_pair" json:"student_id"`
	FileURL     string    `gorm:"size:1024;not null" json:"file_url"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Practical   Practical `gorm:"foreignKey:PracticalID" json:"-"`
	Mark        *Mark     `gorm:"foreignKey:SubmissionID" json:"-"`
}

// BeforeCreate assigns a UUID primary key.
func (s *Submission) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// IsGraded reports whether a mark has been recorded for the submission.
func (s Submission) IsGraded() bool {
	return s.Mark != nil
}

// Mark is the graded outcome of a single submission.
type Mark struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SubmissionID   string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"submission_id"`
	StudentID      string    `gorm:"type:varchar(36);index;not null" json:"student_id"`
	AttendanceMark float64   `gorm:"not null" json:"attendance_mark"`
	PracticalMark  float64   `gorm:"not null" json:"practical_mark"`
	VivaMark       float64   `gorm:"not null" json:"viva_mark"`
	TotalMark      float64   `gorm:"not null" json:"total_mark"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key.
func (m *Mark) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
