package dto

import (
	"time"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

// LabCreateRequest describes a new lab. Omitted weights fall back to the defaults.
type LabCreateRequest struct {
	SubjectName     string `json:"subject_name" validate:"required,min=1,max=255"`
	SubjectCode     string `json:"subject_code" validate:"required,min=1,max=64"`
	Syllabus        string `json:"syllabus"`
	AttendanceMarks *int   `json:"attendance_marks" validate:"omitempty,min=0"`
	PracticalMarks  *int   `json:"practical_marks" validate:"omitempty,min=0"`
	VivaMarks       *int   `json:"viva_marks" validate:"omitempty,min=0"`
}

// LabPatch enumerates the mutable lab fields.
type LabPatch struct {
	SubjectName     *string `json:"subject_name" validate:"omitempty,min=1,max=255"`
	SubjectCode     *string `json:"subject_code" validate:"omitempty,min=1,max=64"`
	Syllabus        *string `json:"syllabus"`
	AttendanceMarks *int    `json:"attendance_marks" validate:"omitempty,min=0"`
	PracticalMarks  *int    `json:"practical_marks" validate:"omitempty,min=0"`
	VivaMarks       *int    `json:"viva_marks" validate:"omitempty,min=0"`
}

// LabResponse is the catalogue view of a lab.
type LabResponse struct {
	ID              string           `json:"id"`
	SubjectName     string           `json:"subject_name"`
	SubjectCode     string           `json:"subject_code"`
	Syllabus        string           `json:"syllabus"`
	AttendanceMarks int              `json:"attendance_marks"`
	PracticalMarks  int              `json:"practical_marks"`
	VivaMarks       int              `json:"viva_marks"`
	MaxMarks        int              `json:"max_marks"`
	TeacherID       string           `json:"teacher_id"`
	Teacher         *TeacherResponse `json:"teacher,omitempty"`
	EnrolledCount   *int64           `json:"enrolled_count,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// LabDetailResponse adds schedule, practicals and notices to the catalogue view.
type LabDetailResponse struct {
	LabResponse
	Timetable  []TimetableResponse `json:"timetable"`
	Practicals []PracticalResponse `json:"practicals"`
	Notices    []NoticeResponse    `json:"notices"`
}

// NewLabResponse converts a Lab model into a DTO.
func NewLabResponse(model models.Lab) LabResponse {
	response := LabResponse{
		ID:              model.ID,
		SubjectName:     model.SubjectName,
		SubjectCode:     model.SubjectCode,
		Syllabus:        model.Syllabus,
		AttendanceMarks: model.AttendanceMarks,
		PracticalMarks:  model.PracticalMarks,
		VivaMarks:       model.VivaMarks,
		MaxMarks:        model.MaxMarks(),
		TeacherID:       model.TeacherID,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
	if model.Teacher.ID != "" {
		teacher := NewTeacherResponse(model.Teacher)
		response.Teacher = &teacher
	}
	return response
}

// NewLabDetailResponse converts a Lab with its preloaded children.
func NewLabDetailResponse(model models.Lab) LabDetailResponse {
	detail := LabDetailResponse{
		LabResponse: NewLabResponse(model),
		Timetable:   make([]TimetableResponse, 0, len(model.Timetables)),
		Practicals:  make([]PracticalResponse, 0, len(model.Practicals)),
		Notices:     make([]NoticeResponse, 0, len(model.Notices)),
	}
	for _, slot := range model.Timetables {
		detail.Timetable = append(detail.Timetable, NewTimetableResponse(slot))
	}
	for _, practical := range model.Practicals {
		detail.Practicals = append(detail.Practicals, NewPracticalResponse(practical))
	}
	for _, notice := range model.Notices {
		detail.Notices = append(detail.Notices, NewNoticeResponse(notice))
	}
	return detail
}

// TimetableRequest creates a weekly slot. Times use 24-hour HH:MM.
type TimetableRequest struct {
	Day       string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	Room      string `json:"room" validate:"omitempty,max=64"`
}

// TimetablePatch enumerates the mutable slot fields.
type TimetablePatch struct {
	Day       *string `json:"day" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"end_time" validate:"omitempty,datetime=15:04"`
	Room      *string `json:"room" validate:"omitempty,max=64"`
}

// TimetableResponse serialises a slot.
type TimetableResponse struct {
	ID        string `json:"id"`
	LabID     string `json:"lab_id"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Room      string `json:"room"`
}

// NewTimetableResponse converts a Timetable model into a DTO.
func NewTimetableResponse(model models.Timetable) TimetableResponse {
	return TimetableResponse{
		ID:        model.ID,
		LabID:     model.LabID,
		Day:       model.Day,
		StartTime: model.StartTime,
		EndTime:   model.EndTime,
		Room:      model.Room,
	}
}

// PracticalRequest creates a practical.
type PracticalRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=255"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline" validate:"required"`
}

// PracticalPatch enumerates the mutable practical fields.
type PracticalPatch struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

// PracticalResponse serialises a practical.
type PracticalResponse struct {
	ID          string    `json:"id"`
	LabID       string    `json:"lab_id"`
	TeacherID   string    `json:"teacher_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPracticalResponse converts a Practical model into a DTO.
func NewPracticalResponse(model models.Practical) PracticalResponse {
	return PracticalResponse{
		ID:          model.ID,
		LabID:       model.LabID,
		TeacherID:   model.TeacherID,
		Title:       model.Title,
		Description: model.Description,
		Deadline:    model.Deadline,
		CreatedAt:   model.CreatedAt,
	}
}

// NoticeRequest creates a notice.
type NoticeRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=255"`
	Content string `json:"content"`
}

// NoticePatch enumerates the mutable notice fields.
type NoticePatch struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content *string `json:"content"`
}

// NoticeResponse serialises a notice.
type NoticeResponse struct {
	ID        string    `json:"id"`
	LabID     string    `json:"lab_id"`
	TeacherID string    `json:"teacher_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNoticeResponse converts a Notice model into a DTO.
func NewNoticeResponse(model models.Notice) NoticeResponse {
	return NoticeResponse{
		ID:        model.ID,
		LabID:     model.LabID,
		TeacherID: model.TeacherID,
		Title:     model.Title,
		Content:   model.Content,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
