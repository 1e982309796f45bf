package dto

import (
	"time"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

// StudentResponse serialises a student profile.
type StudentResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	RollNo      string    `json:"roll_no"`
	PhoneNumber string    `json:"phone_number"`
	BranchName  string    `json:"branch_name"`
	Semester    int       `json:"semester"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TeacherResponse serialises a teacher profile.
type TeacherResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StudentPatch lists the student fields a student may change about themselves.
type StudentPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	BranchName  *string `json:"branch_name" validate:"omitempty,max=128"`
	Semester    *int    `json:"semester" validate:"omitempty,min=1,max=12"`
}

// TeacherPatch lists the teacher fields a teacher may change about themselves.
type TeacherPatch struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=255"`
	Department *string `json:"department" validate:"omitempty,max=128"`
}

// NewStudentResponse converts a Student model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:          model.ID,
		UserID:      model.UserID,
		Name:        model.Name,
		RollNo:      model.RollNo,
		PhoneNumber: model.PhoneNumber,
		BranchName:  model.BranchName,
		Semester:    model.Semester,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewTeacherResponse converts a Teacher model into a DTO.
func NewTeacherResponse(model models.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:         model.ID,
		UserID:     model.UserID,
		Name:       model.Name,
		Department: model.Department,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewStudentResponses converts a slice of students.
func NewStudentResponses(items []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewStudentResponse(item))
	}
	return responses
}

// NewTeacherResponses converts a slice of teachers.
func NewTeacherResponses(items []models.Teacher) []TeacherResponse {
	responses := make([]TeacherResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewTeacherResponse(item))
	}
	return responses
}
