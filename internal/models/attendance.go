package models

import (
	"time"

	"gorm.io/gorm"
)

// Attendance is one day's presence entry for a student in a lab.
type Attendance struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	StudentID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_attendance_day" json:"student_id"`
	LabID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_attendance_day;index" json:"lab_id"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_attendance_day" json:"date"`
	IsPresent bool      `gorm:"not null" json:"is_present"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key.
func (a *Attendance) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// CalendarDay truncates t to midnight UTC of its UTC calendar day.
func CalendarDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
