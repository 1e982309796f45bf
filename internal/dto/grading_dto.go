package dto

import (
	"time"

	"github.com/noah-isme/lab-manager-api/internal/grading"
	"github.com/noah-isme/lab-manager-api/internal/models"
)

// GradeSubmissionRequest carries teacher-entered marks. Bounds are checked against the lab.
type GradeSubmissionRequest struct {
	PracticalMark *float64 `json:"practical_mark" validate:"required"`
	VivaMark      *float64 `json:"viva_mark" validate:"required"`
}

// MarkResponse serialises a mark.
type MarkResponse struct {
	ID             string    `json:"id"`
	SubmissionID   string    `json:"submission_id"`
	StudentID      string    `json:"student_id"`
	AttendanceMark float64   `json:"attendance_mark"`
	PracticalMark  float64   `json:"practical_mark"`
	VivaMark       float64   `json:"viva_mark"`
	TotalMark      float64   `json:"total_mark"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SummarySubmission is one practical line of a lab summary. Marks is nil when ungraded.
type SummarySubmission struct {
	ID             string        `json:"id"`
	PracticalID    string        `json:"practical_id"`
	PracticalTitle string        `json:"practical_title"`
	SubmittedAt    time.Time     `json:"submitted_at"`
	Graded         bool          `json:"graded"`
	Marks          *MarkResponse `json:"marks"`
}

// LabSummaryResponse is a student's standing in one lab.
type LabSummaryResponse struct {
	StudentID            string              `json:"student_id"`
	LabID                string              `json:"lab_id"`
	AttendancePercentage float64             `json:"attendance_percentage"`
	AttendanceMarks      float64             `json:"attendance_marks"`
	TotalPracticalMarks  float64             `json:"total_practical_marks"`
	TotalVivaMarks       float64             `json:"total_viva_marks"`
	TotalMarks           float64             `json:"total_marks"`
	MaxMarks             int                 `json:"max_marks"`
	Percentage           float64             `json:"percentage"`
	Submissions          []SummarySubmission `json:"submissions"`
}

// NewMarkResponse converts a Mark model into a DTO.
func NewMarkResponse(model models.Mark) MarkResponse {
	return MarkResponse{
		ID:             model.ID,
		SubmissionID:   model.SubmissionID,
		StudentID:      model.StudentID,
		AttendanceMark: model.AttendanceMark,
		PracticalMark:  model.PracticalMark,
		VivaMark:       model.VivaMark,
		TotalMark:      model.TotalMark,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// NewLabSummaryResponse converts a derived summary into a DTO.
func NewLabSummaryResponse(studentID, labID string, summary grading.LabSummary) LabSummaryResponse {
	response := LabSummaryResponse{
		StudentID:            studentID,
		LabID:                labID,
		AttendancePercentage: summary.Attendance.Percentage,
		AttendanceMarks:      summary.AttendanceMarks,
		TotalPracticalMarks:  summary.TotalPracticalMarks,
		TotalVivaMarks:       summary.TotalVivaMarks,
		TotalMarks:           summary.TotalMarks,
		MaxMarks:             summary.MaxMarks,
		Percentage:           summary.Percentage,
		Submissions:          make([]SummarySubmission, 0, len(summary.Submissions)),
	}
	for _, line := range summary.Submissions {
		item := SummarySubmission{
			ID:             line.Submission.ID,
			PracticalID:    line.Submission.PracticalID,
			PracticalTitle: line.Submission.Practical.Title,
			SubmittedAt:    line.Submission.SubmittedAt,
			Graded:         line.Graded,
		}
		if line.Graded {
			mark := NewMarkResponse(*line.Submission.Mark)
			item.Marks = &mark
		}
		response.Submissions = append(response.Submissions, item)
	}
	return response
}
