package models

import (
	"time"

	"gorm.io/gorm"
)

// Default grading weights applied when a lab is created without explicit maxima.
const (
	DefaultAttendanceMarks = 10
	DefaultPracticalMarks  = 60
	DefaultVivaMarks       = 30
)

// Lab is a subject instance owned by one teacher together with its grading weights.
type Lab struct {
	ID              string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	SubjectName     string      `gorm:"size:255;not null" json:"subject_name"`
	SubjectCode     string      `gorm:"size:64;uniqueIndex;not null" json:"subject_code"`
	Syllabus        string      `gorm:"type:text" json:"syllabus"`
	AttendanceMarks int         `gorm:"not null" json:"attendance_marks"`
	PracticalMarks  int         `gorm:"not null" json:"practical_marks"`
	VivaMarks       int         `gorm:"not null" json:"viva_marks"`
	TeacherID       string      `gorm:"type:varchar(36);index;not null" json:"teacher_id"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Teacher         Teacher     `gorm:"foreignKey:TeacherID" json:"teacher"`
	Timetables      []Timetable `gorm:"foreignKey:LabID" json:"timetables,omitempty"`
	Practicals      []Practical `gorm:"foreignKey:LabID" json:"practicals,omitempty"`
	Notices         []Notice    `gorm:"foreignKey:LabID" json:"notices,omitempty"`
}

// BeforeCreate assigns a UUID primary key.
func (l *Lab) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// MaxMarks is the sum of the three grading components.
func (l Lab) MaxMarks() int {
	return l.AttendanceMarks + l.PracticalMarks + l.VivaMarks
}

// Timetable is a recurring weekly slot for a lab.
type Timetable struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	LabID     string    `gorm:"type:varchar(36);index;not null" json:"lab_id"`
	Day       string    `gorm:"size:16;not null" json:"day"`
	StartTime string    `gorm:"size:8;not null" json:"start_time"`
	EndTime   string    `gorm:"size:8;not null" json:"end_time"`
	Room      string    `gorm:"size:64" json:"room"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key.
func (t *Timetable) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// Notice is an announcement a teacher posts to a lab.
type Notice struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	LabID     string    `gorm:"type:varchar(36);index;not null" json:"lab_id"`
	TeacherID string    `gorm:"type:varchar(36);index;not null" json:"teacher_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key.
func (n *Notice) BeforeCreate(*gorm.DB) error {
	ensureID(&n.ID)
	return nil
}
