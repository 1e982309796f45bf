package dto

import (
	"time"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

// EnrollRequest identifies the lab a student joins.
type EnrollRequest struct {
	LabID string `json:"lab_id" validate:"required"`
}

// EnrollmentResponse serialises an enrollment.
type EnrollmentResponse struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	LabID     string    `json:"lab_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEnrollmentResponse converts an Enrollment model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:        model.ID,
		StudentID: model.StudentID,
		LabID:     model.LabID,
		CreatedAt: model.CreatedAt,
	}
}
