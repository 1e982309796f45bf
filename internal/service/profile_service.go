package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lab-manager-api/internal/dto"
	"github.com/noah-isme/lab-manager-api/internal/repository"
)

// ProfileService reads and updates student and teacher profiles.
type ProfileService interface {
	ListStudents(ctx context.Context) ([]dto.StudentResponse, error)
	GetStudent(ctx context.Context, studentID string) (dto.StudentResponse, error)
	UpdateStudent(ctx context.Context, studentID string, patch dto.StudentPatch) (dto.StudentResponse, error)
	ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error)
	GetTeacher(ctx context.Context, teacherID string) (dto.TeacherResponse, error)
	UpdateTeacher(ctx context.Context, teacherID string, patch dto.TeacherPatch) (dto.TeacherResponse, error)
}

type profileService struct {
	store     repository.Store
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewProfileService constructs the profile service.
func NewProfileService(store repository.Store, validator *validator.Validate, logger zerolog.Logger) ProfileService {
	return &profileService{
		store:     store,
		validator: validator,
		logger:    logger.With().Str("component", "profile_service").Logger(),
	}
}

func (s *profileService) ListStudents(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.store.Students().List(ctx)
	if err != nil {
		return nil, storeErr("list students", err)
	}
	return dto.NewStudentResponses(students), nil
}

func (s *profileService) GetStudent(ctx context.Context, studentID string) (dto.StudentResponse, error) {
	student, err := s.store.Students().GetByID(ctx, studentID)
	if err != nil {
		return dto.StudentResponse{}, lookupErr("student", err)
	}
	return dto.NewStudentResponse(student), nil
}

func (s *profileService) UpdateStudent(ctx context.Context, studentID string, patch dto.StudentPatch) (dto.StudentResponse, error) {
	if err := s.validator.Struct(patch); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.store.Students().GetByID(ctx, studentID)
	if err != nil {
		return dto.StudentResponse{}, lookupErr("student", err)
	}

	if patch.Name != nil {
		student.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.PhoneNumber != nil {
		student.PhoneNumber = strings.TrimSpace(*patch.PhoneNumber)
	}
	if patch.BranchName != nil {
		student.BranchName = strings.TrimSpace(*patch.BranchName)
	}
	if patch.Semester != nil {
		student.Semester = *patch.Semester
	}

	if err := s.store.Students().Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, storeErr("update student", err)
	}
	s.logger.Info().Str("student_id", student.ID).Msg("student profile updated")
	return dto.NewStudentResponse(student), nil
}

func (s *profileService) ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error) {
	teachers, err := s.store.Teachers().List(ctx)
	if err != nil {
		return nil, storeErr("list teachers", err)
	}
	return dto.NewTeacherResponses(teachers), nil
}

func (s *profileService) GetTeacher(ctx context.Context, teacherID string) (dto.TeacherResponse, error) {
	teacher, err := s.store.Teachers().GetByID(ctx, teacherID)
	if err != nil {
		return dto.TeacherResponse{}, lookupErr("teacher", err)
	}
	return dto.NewTeacherResponse(teacher), nil
}

func (s *profileService) UpdateTeacher(ctx context.Context, teacherID string, patch dto.TeacherPatch) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(patch); err != nil {
		return dto.TeacherResponse{}, err
	}

	teacher, err := s.store.Teachers().GetByID(ctx, teacherID)
	if err != nil {
		return dto.TeacherResponse{}, lookupErr("teacher", err)
	}

	if patch.Name != nil {
		teacher.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Department != nil {
		teacher.Department = strings.TrimSpace(*patch.Department)
	}

	if err := s.store.Teachers().Update(ctx, &teacher); err != nil {
		return dto.TeacherResponse{}, storeErr("update teacher", err)
	}
	s.logger.Info().Str("teacher_id", teacher.ID).Msg("teacher profile updated")
	return dto.NewTeacherResponse(teacher), nil
}
