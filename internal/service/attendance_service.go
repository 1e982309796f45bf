package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lab-manager-api/internal/dto"
	"github.com/noah-isme/lab-manager-api/internal/grading"
	"github.com/noah-isme/lab-manager-api/internal/models"
	"github.com/noah-isme/lab-manager-api/internal/observability"
	"github.com/noah-isme/lab-manager-api/internal/repository"
)

// AttendanceService records and reports daily attendance.
type AttendanceService interface {
	// Mark upserts the record for (student, lab, calendar day).
	Mark(ctx context.Context, actor Actor, labID string, req dto.MarkAttendanceRequest) (dto.AttendanceResponse, error)
	StudentAttendance(ctx context.Context, studentID, labID string) (dto.StudentAttendanceResponse, error)
}

type attendanceService struct {
	store    repository.Store
	activity ActivityRecorder
	events   EventPublisher
	logger   zerolog.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(store repository.Store, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) AttendanceService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &attendanceService{
		store:    store,
		activity: activity,
		events:   events,
		logger:   logger.With().Str("component", "attendance_service").Logger(),
	}
}

func (s *attendanceService) Mark(ctx context.Context, actor Actor, labID string, req dto.MarkAttendanceRequest) (dto.AttendanceResponse, error) {
	if req.IsPresent == nil {
		return dto.AttendanceResponse{}, invalid("is_present is required")
	}
	day, err := dto.ParseAttendanceDate(strings.TrimSpace(req.Date))
	if err != nil {
		return dto.AttendanceResponse{}, invalid("invalid date")
	}
	studentID := strings.TrimSpace(req.StudentID)

	if _, err := s.store.Students().GetByID(ctx, studentID); err != nil {
		return dto.AttendanceResponse{}, lookupErr("student", err)
	}
	if _, err := s.store.Labs().GetByID(ctx, labID); err != nil {
		return dto.AttendanceResponse{}, lookupErr("lab", err)
	}

	enrolled, err := isEnrolled(ctx, s.store, studentID, labID)
	if err != nil {
		return dto.AttendanceResponse{}, err
	}
	if !enrolled {
		return dto.AttendanceResponse{}, invalid("not enrolled in lab")
	}

	record, err := s.store.Attendance().GetByDay(ctx, studentID, labID, day)
	switch {
	case err == nil:
		record.IsPresent = *req.IsPresent
		if err := s.store.Attendance().Update(ctx, &record); err != nil {
			return dto.AttendanceResponse{}, storeErr("update attendance", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = models.Attendance{StudentID: studentID, LabID: labID, Date: day, IsPresent: *req.IsPresent}
		if err := s.store.Attendance().Create(ctx, &record); err != nil {
			return dto.AttendanceResponse{}, writeErr("attendance", err)
		}
	default:
		return dto.AttendanceResponse{}, storeErr("find attendance", err)
	}

	observability.AttendanceMarked().WithLabelValues(strconv.FormatBool(record.IsPresent)).Inc()
	s.logger.Info().
		Str("student_id", studentID).
		Str("lab_id", labID).
		Str("date", day.Format(dto.DateLayout)).
		Bool("is_present", record.IsPresent).
		Msg("attendance marked")

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "attendance.marked",
		EntityType: "attendance",
		EntityID:   record.ID,
		Metadata: map[string]interface{}{
			"student_id": studentID,
			"lab_id":     labID,
			"date":       day.Format(dto.DateLayout),
			"is_present": record.IsPresent,
		},
	})
	s.events.Publish(ctx, Event{Type: EventAttendanceMarked, Data: map[string]interface{}{
		"student_id": studentID,
		"lab_id":     labID,
		"date":       day.Format(dto.DateLayout),
		"is_present": record.IsPresent,
	}})

	return dto.NewAttendanceResponse(record), nil
}

func (s *attendanceService) StudentAttendance(ctx context.Context, studentID, labID string) (dto.StudentAttendanceResponse, error) {
	if _, err := s.store.Students().GetByID(ctx, studentID); err != nil {
		return dto.StudentAttendanceResponse{}, lookupErr("student", err)
	}
	if _, err := s.store.Labs().GetByID(ctx, labID); err != nil {
		return dto.StudentAttendanceResponse{}, lookupErr("lab", err)
	}

	records, err := s.store.Attendance().ListByStudentAndLab(ctx, studentID, labID)
	if err != nil {
		return dto.StudentAttendanceResponse{}, storeErr("list attendance", err)
	}

	stats := grading.Attendance(records)
	response := dto.StudentAttendanceResponse{
		Count:                stats.Total,
		Present:              stats.Present,
		AttendancePercentage: stats.Percentage,
		Records:              make([]dto.AttendanceResponse, 0, len(records)),
	}
	for _, item := range records {
		response.Records = append(response.Records, dto.NewAttendanceResponse(item))
	}
	return response, nil
}
