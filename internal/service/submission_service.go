package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lab-manager-api/internal/dto"
	"github.com/noah-isme/lab-manager-api/internal/models"
	"github.com/noah-isme/lab-manager-api/internal/observability"
	"github.com/noah-isme/lab-manager-api/internal/repository"
)

// SubmissionService accepts practical submissions and lists a student's work.
type SubmissionService interface {
	// Submit upserts the student's submission for the practical as of the service clock.
	Submit(ctx context.Context, studentID string, req dto.SubmitRequest) (dto.SubmissionResponse, error)
	// SubmitAt is Submit with an explicit reference time.
	SubmitAt(ctx context.Context, studentID, practicalID, fileURL string, now time.Time) (dto.SubmissionResponse, error)
	ListStudentSubmissions(ctx context.Context, studentID string) ([]dto.StudentSubmissionResponse, error)
}

type submissionService struct {
	store  repository.Store
	events EventPublisher
	logger zerolog.Logger
	now    func() time.Time
}

// NewSubmissionService constructs the submission lifecycle service.
func NewSubmissionService(store repository.Store, events EventPublisher, logger zerolog.Logger) SubmissionService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &submissionService{
		store:  store,
		events: events,
		logger: logger.With().Str("component", "submission_service").Logger(),
		now:    time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, studentID string, req dto.SubmitRequest) (dto.SubmissionResponse, error) {
	return s.SubmitAt(ctx, studentID, strings.TrimSpace(req.PracticalID), strings.TrimSpace(req.FileURL), s.now())
}

func (s *submissionService) SubmitAt(ctx context.Context, studentID, practicalID, fileURL string, now time.Time) (dto.SubmissionResponse, error) {
	response, result, err := s.submit(ctx, studentID, practicalID, fileURL, now)
	if err != nil {
		observability.Submissions().WithLabelValues("rejected").Inc()
		return dto.SubmissionResponse{}, err
	}
	observability.Submissions().WithLabelValues(result).Inc()
	return response, nil
}

func (s *submissionService) submit(ctx context.Context, studentID, practicalID, fileURL string, now time.Time) (dto.SubmissionResponse, string, error) {
	if _, err := s.store.Students().GetByID(ctx, studentID); err != nil {
		return dto.SubmissionResponse{}, "", lookupErr("student", err)
	}

	practical, err := s.store.Practicals().GetByID(ctx, practicalID)
	if err != nil {
		return dto.SubmissionResponse{}, "", lookupErr("practical", err)
	}

	enrolled, err := isEnrolled(ctx, s.store, studentID, practical.LabID)
	if err != nil {
		return dto.SubmissionResponse{}, "", err
	}
	if !enrolled {
		return dto.SubmissionResponse{}, "", invalid("not enrolled in lab")
	}

	if practical.IsPastDeadline(now) {
		return dto.SubmissionResponse{}, "", invalid("deadline passed")
	}

	result := "resubmitted"
	submission, err := s.store.Submissions().GetByStudentAndPractical(ctx, studentID, practicalID)
	switch {
	case err == nil:
		submission.FileURL = fileURL
		submission.UpdatedAt = now
		if err := s.store.Submissions().Update(ctx, &submission); err != nil {
			return dto.SubmissionResponse{}, "", storeErr("update submission", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		result = "accepted"
		submission = models.Submission{
			PracticalID: practicalID,
			StudentID:   studentID,
			FileURL:     fileURL,
			SubmittedAt: now,
		}
		if err := s.store.Submissions().Create(ctx, &submission); err != nil {
			return dto.SubmissionResponse{}, "", writeErr("submission", err)
		}
	default:
		return dto.SubmissionResponse{}, "", storeErr("find submission", err)
	}

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("student_id", studentID).
		Str("practical_id", practicalID).
		Str("result", result).
		Msg("practical submitted")
	s.events.Publish(ctx, Event{Type: EventPracticalSubmitted, Data: map[string]interface{}{
		"submission_id": submission.ID,
		"student_id":    studentID,
		"practical_id":  practicalID,
		"lab_id":        practical.LabID,
		"file_url":      fileURL,
	}})

	return dto.NewSubmissionResponse(submission), result, nil
}

func (s *submissionService) ListStudentSubmissions(ctx context.Context, studentID string) ([]dto.StudentSubmissionResponse, error) {
	if _, err := s.store.Students().GetByID(ctx, studentID); err != nil {
		return nil, lookupErr("student", err)
	}

	submissions, err := s.store.Submissions().ListByStudent(ctx, studentID)
	if err != nil {
		return nil, storeErr("list submissions", err)
	}

	responses := make([]dto.StudentSubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, dto.NewStudentSubmissionResponse(submission))
	}
	return responses, nil
}
