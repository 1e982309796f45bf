package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/lab-manager-api/internal/dto"
	"github.com/noah-isme/lab-manager-api/internal/grading"
	"github.com/noah-isme/lab-manager-api/internal/models"
	"github.com/noah-isme/lab-manager-api/internal/observability"
	"github.com/noah-isme/lab-manager-api/internal/repository"
)

const gradingTracer = "github.com/noah-isme/lab-manager-api/internal/service/grading"

// GradingService records marks and derives lab summaries. Attendance is read
// fresh from the store on every call.
type GradingService interface {
	GradeSubmission(ctx context.Context, actor Actor, submissionID string, req dto.GradeSubmissionRequest) (dto.MarkResponse, error)
	StudentLabSummary(ctx context.Context, studentID, labID string) (dto.LabSummaryResponse, error)
}

type gradingService struct {
	store    repository.Store
	activity ActivityRecorder
	events   EventPublisher
	logger   zerolog.Logger
}

// NewGradingService constructs the grade aggregator.
func NewGradingService(store repository.Store, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) GradingService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &gradingService{
		store:    store,
		activity: activity,
		events:   events,
		logger:   logger.With().Str("component", "grading_service").Logger(),
	}
}

func (s *gradingService) GradeSubmission(ctx context.Context, actor Actor, submissionID string, req dto.GradeSubmissionRequest) (dto.MarkResponse, error) {
	ctx, span := otel.Tracer(gradingTracer).Start(ctx, "grading.grade_submission",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("grading.submission_id", submissionID),
			attribute.String("grading.actor_id", actor.ProfileID),
		),
	)
	defer span.End()

	fail := func(status string, err error) (dto.MarkResponse, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		return dto.MarkResponse{}, err
	}

	if req.PracticalMark == nil || req.VivaMark == nil {
		return fail("validation_failed", invalid("practical_mark and viva_mark are required"))
	}
	practicalMark, vivaMark := *req.PracticalMark, *req.VivaMark

	submission, err := s.store.Submissions().GetByID(ctx, submissionID)
	if err != nil {
		return fail("submission_lookup_failed", lookupErr("submission", err))
	}
	lab := submission.Practical.Lab

	if err := checkBounds("practical_mark", practicalMark, lab.PracticalMarks); err != nil {
		return fail("practical_mark_out_of_range", err)
	}
	if err := checkBounds("viva_mark", vivaMark, lab.VivaMarks); err != nil {
		return fail("viva_mark_out_of_range", err)
	}

	records, err := s.store.Attendance().ListByStudentAndLab(ctx, submission.StudentID, lab.ID)
	if err != nil {
		return fail("attendance_lookup_failed", storeErr("list attendance", err))
	}
	components := grading.Grade(lab, records, practicalMark, vivaMark)

	mark, err := s.upsertMark(ctx, submission, components)
	if err != nil {
		return fail("mark_save_failed", err)
	}

	observability.MarksRecorded().Inc()
	span.SetAttributes(
		attribute.Float64("grading.attendance_mark", mark.AttendanceMark),
		attribute.Float64("grading.total_mark", mark.TotalMark),
	)
	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("student_id", submission.StudentID).
		Str("lab_id", lab.ID).
		Float64("total_mark", mark.TotalMark).
		Msg("submission graded")

	metadata := map[string]interface{}{
		"submission_id":  submission.ID,
		"student_id":     submission.StudentID,
		"practical_id":   submission.PracticalID,
		"lab_id":         lab.ID,
		"practical_mark": mark.PracticalMark,
		"viva_mark":      mark.VivaMark,
		"total_mark":     mark.TotalMark,
	}
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "submission.graded",
		EntityType: "submission",
		EntityID:   submission.ID,
		Metadata:   metadata,
	})
	s.events.Publish(ctx, Event{Type: EventSubmissionGraded, Data: metadata})

	return dto.NewMarkResponse(mark), nil
}

func (s *gradingService) upsertMark(ctx context.Context, submission models.Submission, components grading.Components) (models.Mark, error) {
	mark, err := s.store.Marks().GetBySubmission(ctx, submission.ID)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		mark = models.Mark{SubmissionID: submission.ID, StudentID: submission.StudentID}
	default:
		return models.Mark{}, storeErr("find mark", err)
	}

	mark.AttendanceMark = components.AttendanceMark
	mark.PracticalMark = components.PracticalMark
	mark.VivaMark = components.VivaMark
	mark.TotalMark = components.TotalMark

	if mark.ID == "" {
		if err := s.store.Marks().Create(ctx, &mark); err != nil {
			return models.Mark{}, writeErr("mark", err)
		}
		return mark, nil
	}
	if err := s.store.Marks().Update(ctx, &mark); err != nil {
		return models.Mark{}, storeErr("update mark", err)
	}
	return mark, nil
}

func (s *gradingService) StudentLabSummary(ctx context.Context, studentID, labID string) (dto.LabSummaryResponse, error) {
	ctx, span := otel.Tracer(gradingTracer).Start(ctx, "grading.student_lab_summary",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("grading.student_id", studentID),
			attribute.String("grading.lab_id", labID),
		),
	)
	defer span.End()

	fail := func(status string, err error) (dto.LabSummaryResponse, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		return dto.LabSummaryResponse{}, err
	}

	lab, err := s.store.Labs().GetByID(ctx, labID)
	if err != nil {
		return fail("lab_lookup_failed", lookupErr("lab", err))
	}

	submissions, err := s.store.Submissions().ListByStudentAndLab(ctx, studentID, labID)
	if err != nil {
		return fail("submission_lookup_failed", storeErr("list submissions", err))
	}

	records, err := s.store.Attendance().ListByStudentAndLab(ctx, studentID, labID)
	if err != nil {
		return fail("attendance_lookup_failed", storeErr("list attendance", err))
	}

	summary, err := grading.Summarize(lab, records, submissions)
	if err != nil {
		if errors.Is(err, grading.ErrNonPositiveMaxMarks) {
			return fail("invalid_lab_configuration", &ConfigurationError{
				Reason: fmt.Sprintf("lab %s has max marks %d; percentage is undefined", lab.SubjectCode, lab.MaxMarks()),
			})
		}
		return fail("summary_failed", err)
	}

	span.SetAttributes(attribute.Float64("grading.percentage", summary.Percentage))
	return dto.NewLabSummaryResponse(studentID, labID, summary), nil
}

func checkBounds(field string, value float64, max int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return invalid(field + " must be a number")
	}
	if value < 0 || value > float64(max) {
		return invalid(fmt.Sprintf("%s must be between 0 and %d", field, max))
	}
	return nil
}
