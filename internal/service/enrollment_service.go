package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lab-manager-api/internal/dto"
	"github.com/noah-isme/lab-manager-api/internal/models"
	"github.com/noah-isme/lab-manager-api/internal/repository"
)

var errAlreadyEnrolled = &ConflictError{Entity: "enrollment", Reason: "student already enrolled in lab"}

// EnrollmentService manages student-lab membership.
type EnrollmentService interface {
	IsEnrolled(ctx context.Context, studentID, labID string) (bool, error)
	Enroll(ctx context.Context, studentID, labID string) (dto.EnrollmentResponse, error)
	// Leave removes the enrollment together with the student's marks, submissions
	// and attendance for the lab, in one transaction.
	Leave(ctx context.Context, studentID, labID string) error
	ListStudentLabs(ctx context.Context, studentID string) ([]dto.LabResponse, error)
}

type enrollmentService struct {
	store  repository.Store
	events EventPublisher
	logger zerolog.Logger
}

// NewEnrollmentService constructs the enrollment gate.
func NewEnrollmentService(store repository.Store, events EventPublisher, logger zerolog.Logger) EnrollmentService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &enrollmentService{
		store:  store,
		events: events,
		logger: logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) IsEnrolled(ctx context.Context, studentID, labID string) (bool, error) {
	return isEnrolled(ctx, s.store, studentID, labID)
}

func (s *enrollmentService) Enroll(ctx context.Context, studentID, labID string) (dto.EnrollmentResponse, error) {
	if _, err := s.store.Students().GetByID(ctx, studentID); err != nil {
		return dto.EnrollmentResponse{}, lookupErr("student", err)
	}
	if _, err := s.store.Labs().GetByID(ctx, labID); err != nil {
		return dto.EnrollmentResponse{}, lookupErr("lab", err)
	}

	enrolled, err := isEnrolled(ctx, s.store, studentID, labID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}
	if enrolled {
		return dto.EnrollmentResponse{}, errAlreadyEnrolled
	}

	enrollment := models.Enrollment{StudentID: studentID, LabID: labID}
	if err := s.store.Enrollments().Create(ctx, &enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.EnrollmentResponse{}, errAlreadyEnrolled
		}
		return dto.EnrollmentResponse{}, storeErr("create enrollment", err)
	}

	s.logger.Info().Str("student_id", studentID).Str("lab_id", labID).Msg("student enrolled")
	s.events.Publish(ctx, Event{Type: EventEnrollmentCreated, Data: map[string]interface{}{
		"student_id": studentID,
		"lab_id":     labID,
	}})

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Leave(ctx context.Context, studentID, labID string) error {
	if _, err := s.store.Students().GetByID(ctx, studentID); err != nil {
		return lookupErr("student", err)
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Enrollments().Get(ctx, studentID, labID); err != nil {
			return lookupErr("enrollment", err)
		}
		if err := tx.Marks().DeleteByStudentAndLab(ctx, studentID, labID); err != nil {
			return storeErr("delete marks", err)
		}
		if err := tx.Submissions().DeleteByStudentAndLab(ctx, studentID, labID); err != nil {
			return storeErr("delete submissions", err)
		}
		if err := tx.Attendance().DeleteByStudentAndLab(ctx, studentID, labID); err != nil {
			return storeErr("delete attendance", err)
		}
		if err := tx.Enrollments().Delete(ctx, studentID, labID); err != nil {
			return lookupErr("enrollment", err)
		}
		return nil
	})
	if err != nil {
		return passThrough("leave lab", err)
	}

	s.logger.Info().Str("student_id", studentID).Str("lab_id", labID).Msg("student left lab")
	s.events.Publish(ctx, Event{Type: EventEnrollmentRemoved, Data: map[string]interface{}{
		"student_id": studentID,
		"lab_id":     labID,
	}})
	return nil
}

func (s *enrollmentService) ListStudentLabs(ctx context.Context, studentID string) ([]dto.LabResponse, error) {
	if _, err := s.store.Students().GetByID(ctx, studentID); err != nil {
		return nil, lookupErr("student", err)
	}

	labs, err := s.store.Labs().ListByStudent(ctx, studentID)
	if err != nil {
		return nil, storeErr("list student labs", err)
	}

	responses := make([]dto.LabResponse, 0, len(labs))
	for _, lab := range labs {
		responses = append(responses, dto.NewLabResponse(lab))
	}
	return responses, nil
}

// isEnrolled is the gate every student+lab write consults.
func isEnrolled(ctx context.Context, store repository.Store, studentID, labID string) (bool, error) {
	if _, err := store.Enrollments().Get(ctx, studentID, labID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, storeErr("find enrollment", err)
	}
	return true, nil
}
