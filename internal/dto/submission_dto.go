package dto

import (
	"time"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

// SubmitRequest carries a link to the student's work for one practical.
type SubmitRequest struct {
	PracticalID string `json:"practical_id" validate:"required"`
	FileURL     string `json:"file_url" validate:"required,url,max=1024"`
}

// SubmissionResponse is returned after a submission is stored.
type SubmissionResponse struct {
	ID          string    `json:"id"`
	PracticalID string    `json:"practical_id"`
	StudentID   string    `json:"student_id"`
	FileURL     string    `json:"file_url"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StudentSubmissionResponse lists a submission with its practical, lab and mark.
type StudentSubmissionResponse struct {
	SubmissionResponse
	PracticalTitle string        `json:"practical_title"`
	Deadline       time.Time     `json:"deadline"`
	LabID          string        `json:"lab_id"`
	SubjectName    string        `json:"subject_name"`
	SubjectCode    string        `json:"subject_code"`
	Mark           *MarkResponse `json:"mark"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:          model.ID,
		PracticalID: model.PracticalID,
		StudentID:   model.StudentID,
		FileURL:     model.FileURL,
		SubmittedAt: model.SubmittedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewStudentSubmissionResponse expects Practical.Lab and Mark to be preloaded.
func NewStudentSubmissionResponse(model models.Submission) StudentSubmissionResponse {
	response := StudentSubmissionResponse{
		SubmissionResponse: NewSubmissionResponse(model),
		PracticalTitle:     model.Practical.Title,
		Deadline:           model.Practical.Deadline,
		LabID:              model.Practical.LabID,
		SubjectName:        model.Practical.Lab.SubjectName,
		SubjectCode:        model.Practical.Lab.SubjectCode,
	}
	if model.Mark != nil {
		mark := NewMarkResponse(*model.Mark)
		response.Mark = &mark
	}
	return response
}
