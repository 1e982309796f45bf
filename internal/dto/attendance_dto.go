package dto

import (
	"time"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

// DateLayout is the calendar-day format used for attendance dates.
const DateLayout = "2006-01-02"

// MarkAttendanceRequest records one day's presence. Date accepts YYYY-MM-DD or RFC3339.
type MarkAttendanceRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	IsPresent *bool  `json:"is_present" validate:"required"`
}

// AttendanceResponse serialises an attendance record.
type AttendanceResponse struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	LabID     string    `json:"lab_id"`
	Date      string    `json:"date"`
	IsPresent bool      `json:"is_present"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StudentAttendanceResponse lists records newest first with the derived percentage.
type StudentAttendanceResponse struct {
	Count                int                  `json:"count"`
	Present              int                  `json:"present"`
	AttendancePercentage float64              `json:"attendance_percentage"`
	Records              []AttendanceResponse `json:"records"`
}

// NewAttendanceResponse converts an Attendance model into a DTO.
func NewAttendanceResponse(model models.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:        model.ID,
		StudentID: model.StudentID,
		LabID:     model.LabID,
		Date:      model.Date.UTC().Format(DateLayout),
		IsPresent: model.IsPresent,
		UpdatedAt: model.UpdatedAt,
	}
}

// ParseAttendanceDate reads a calendar day and discards any time of day.
func ParseAttendanceDate(value string) (time.Time, error) {
	if day, err := time.Parse(DateLayout, value); err == nil {
		return models.CalendarDay(day), nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return models.CalendarDay(ts), nil
}
