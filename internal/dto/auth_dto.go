package dto

import (
	"time"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

// RegisterRequest creates a user together with its student or teacher profile.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	Role        string `json:"role" validate:"required,oneof=STUDENT TEACHER student teacher"`
	Name        string `json:"name" validate:"required,min=1,max=255"`
	RollNo      string `json:"roll_no" validate:"omitempty,max=64"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=32"`
	BranchName  string `json:"branch_name" validate:"omitempty,max=128"`
	Semester    int    `json:"semester" validate:"omitempty,min=1,max=12"`
	Department  string `json:"department" validate:"omitempty,max=128"`
}

// LoginRequest authenticates an existing user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// IdentityResponse is the role-tagged view of a user: exactly one profile is set.
type IdentityResponse struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Role      string           `json:"role"`
	Student   *StudentResponse `json:"student,omitempty"`
	Teacher   *TeacherResponse `json:"teacher,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// AuthResponse carries a signed token and the authenticated identity.
type AuthResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      IdentityResponse `json:"user"`
}

// NewIdentityResponse converts a user and its optional profiles into a DTO.
func NewIdentityResponse(user models.User, student *models.Student, teacher *models.Teacher) IdentityResponse {
	response := IdentityResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
	if student != nil {
		s := NewStudentResponse(*student)
		response.Student = &s
	}
	if teacher != nil {
		t := NewTeacherResponse(*teacher)
		response.Teacher = &t
	}
	return response
}
