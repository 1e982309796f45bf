package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lab-manager-api/internal/dto"
	"github.com/noah-isme/lab-manager-api/internal/models"
	"github.com/noah-isme/lab-manager-api/internal/repository"
)

// LabService manages labs and serves the public catalogue.
type LabService interface {
	ListLabs(ctx context.Context) ([]dto.LabResponse, error)
	GetLab(ctx context.Context, labID string) (dto.LabDetailResponse, error)
	ListTeacherLabs(ctx context.Context, teacherID string) ([]dto.LabResponse, error)
	ListLabStudents(ctx context.Context, labID string) ([]dto.StudentResponse, error)
	CreateLab(ctx context.Context, actor Actor, teacherID string, req dto.LabCreateRequest) (dto.LabResponse, error)
	UpdateLab(ctx context.Context, actor Actor, labID string, patch dto.LabPatch) (dto.LabResponse, error)
	// DeleteLab refuses while students are enrolled; otherwise removes the lab
	// with its timetable, notices and practicals.
	DeleteLab(ctx context.Context, actor Actor, labID string) error
}

type labService struct {
	store     repository.Store
	cache     CatalogCache
	activity  ActivityRecorder
	validator *validator.Validate
	policy    *bluemonday.Policy
	logger    zerolog.Logger
}

// NewLabService constructs the lab service.
func NewLabService(store repository.Store, cache CatalogCache, activity ActivityRecorder, validator *validator.Validate, logger zerolog.Logger) LabService {
	if cache == nil {
		cache = noopCatalogCache{}
	}
	return &labService{
		store:     store,
		cache:     cache,
		activity:  activity,
		validator: validator,
		policy:    bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "lab_service").Logger(),
	}
}

func (s *labService) ListLabs(ctx context.Context) ([]dto.LabResponse, error) {
	if cached, ok := s.cache.List(ctx); ok {
		return cached, nil
	}

	labs, err := s.store.Labs().List(ctx)
	if err != nil {
		return nil, storeErr("list labs", err)
	}

	responses := make([]dto.LabResponse, 0, len(labs))
	for _, lab := range labs {
		responses = append(responses, dto.NewLabResponse(lab))
	}
	s.cache.StoreList(ctx, responses)
	return responses, nil
}

func (s *labService) GetLab(ctx context.Context, labID string) (dto.LabDetailResponse, error) {
	if cached, ok := s.cache.Detail(ctx, labID); ok {
		return cached, nil
	}

	lab, err := s.store.Labs().GetDetail(ctx, labID)
	if err != nil {
		return dto.LabDetailResponse{}, lookupErr("lab", err)
	}

	detail := dto.NewLabDetailResponse(lab)
	s.cache.StoreDetail(ctx, detail)
	return detail, nil
}

func (s *labService) ListTeacherLabs(ctx context.Context, teacherID string) ([]dto.LabResponse, error) {
	if _, err := s.store.Teachers().GetByID(ctx, teacherID); err != nil {
		return nil, lookupErr("teacher", err)
	}

	labs, err := s.store.Labs().ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, storeErr("list teacher labs", err)
	}

	ids := make([]string, 0, len(labs))
	for _, lab := range labs {
		ids = append(ids, lab.ID)
	}
	counts, err := s.store.Enrollments().CountByLabs(ctx, ids)
	if err != nil {
		return nil, storeErr("count enrollments", err)
	}

	responses := make([]dto.LabResponse, 0, len(labs))
	for _, lab := range labs {
		response := dto.NewLabResponse(lab)
		count := counts[lab.ID]
		response.EnrolledCount = &count
		responses = append(responses, response)
	}
	return responses, nil
}

func (s *labService) ListLabStudents(ctx context.Context, labID string) ([]dto.StudentResponse, error) {
	if _, err := s.store.Labs().GetByID(ctx, labID); err != nil {
		return nil, lookupErr("lab", err)
	}

	students, err := s.store.Students().ListByLab(ctx, labID)
	if err != nil {
		return nil, storeErr("list lab students", err)
	}
	return dto.NewStudentResponses(students), nil
}

func (s *labService) CreateLab(ctx context.Context, actor Actor, teacherID string, req dto.LabCreateRequest) (dto.LabResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LabResponse{}, err
	}

	teacher, err := s.store.Teachers().GetByID(ctx, teacherID)
	if err != nil {
		return dto.LabResponse{}, lookupErr("teacher", err)
	}

	lab := models.Lab{
		SubjectName:     strings.TrimSpace(req.SubjectName),
		SubjectCode:     normalizeSubjectCode(req.SubjectCode),
		Syllabus:        s.policy.Sanitize(req.Syllabus),
		AttendanceMarks: intOr(req.AttendanceMarks, models.DefaultAttendanceMarks),
		PracticalMarks:  intOr(req.PracticalMarks, models.DefaultPracticalMarks),
		VivaMarks:       intOr(req.VivaMarks, models.DefaultVivaMarks),
		TeacherID:       teacher.ID,
	}
	if err := validateWeights(lab); err != nil {
		return dto.LabResponse{}, err
	}
	if err := s.ensureSubjectCodeFree(ctx, lab.SubjectCode, ""); err != nil {
		return dto.LabResponse{}, err
	}

	if err := s.store.Labs().Create(ctx, &lab); err != nil {
		return dto.LabResponse{}, subjectCodeWriteErr(err)
	}
	lab.Teacher = teacher

	s.cache.Invalidate(ctx, lab.ID)
	s.logger.Info().Str("lab_id", lab.ID).Str("teacher_id", teacher.ID).Msg("lab created")
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "lab.created",
		EntityType: "lab",
		EntityID:   lab.ID,
		Metadata:   map[string]interface{}{"subject_code": lab.SubjectCode},
	})

	return dto.NewLabResponse(lab), nil
}

func (s *labService) UpdateLab(ctx context.Context, actor Actor, labID string, patch dto.LabPatch) (dto.LabResponse, error) {
	if err := s.validator.Struct(patch); err != nil {
		return dto.LabResponse{}, err
	}

	lab, err := s.store.Labs().GetByID(ctx, labID)
	if err != nil {
		return dto.LabResponse{}, lookupErr("lab", err)
	}

	changed := []string{}
	if patch.SubjectName != nil {
		lab.SubjectName = strings.TrimSpace(*patch.SubjectName)
		changed = append(changed, "subject_name")
	}
	if patch.SubjectCode != nil {
		code := normalizeSubjectCode(*patch.SubjectCode)
		if code != lab.SubjectCode {
			if err := s.ensureSubjectCodeFree(ctx, code, lab.ID); err != nil {
				return dto.LabResponse{}, err
			}
			lab.SubjectCode = code
			changed = append(changed, "subject_code")
		}
	}
	if patch.Syllabus != nil {
		lab.Syllabus = s.policy.Sanitize(*patch.Syllabus)
		changed = append(changed, "syllabus")
	}
	if patch.AttendanceMarks != nil {
		lab.AttendanceMarks = *patch.AttendanceMarks
		changed = append(changed, "attendance_marks")
	}
	if patch.PracticalMarks != nil {
		lab.PracticalMarks = *patch.PracticalMarks
		changed = append(changed, "practical_marks")
	}
	if patch.VivaMarks != nil {
		lab.VivaMarks = *patch.VivaMarks
		changed = append(changed, "viva_marks")
	}
	if err := validateWeights(lab); err != nil {
		return dto.LabResponse{}, err
	}

	if err := s.store.Labs().Update(ctx, &lab); err != nil {
		return dto.LabResponse{}, subjectCodeWriteErr(err)
	}

	s.cache.Invalidate(ctx, lab.ID)
	s.logger.Info().Str("lab_id", lab.ID).Strs("fields", changed).Msg("lab updated")
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "lab.updated",
		EntityType: "lab",
		EntityID:   lab.ID,
		Metadata:   map[string]interface{}{"fields": changed},
	})

	return dto.NewLabResponse(lab), nil
}

func (s *labService) DeleteLab(ctx context.Context, actor Actor, labID string) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		lab, err := tx.Labs().GetByID(ctx, labID)
		if err != nil {
			return lookupErr("lab", err)
		}

		enrolled, err := tx.Enrollments().CountByLab(ctx, lab.ID)
		if err != nil {
			return storeErr("count enrollments", err)
		}
		if enrolled > 0 {
			return &ConflictError{Entity: "lab", Reason: "lab has enrolled students"}
		}

		if err := tx.Timetables().DeleteByLab(ctx, lab.ID); err != nil {
			return storeErr("delete timetable", err)
		}
		if err := tx.Notices().DeleteByLab(ctx, lab.ID); err != nil {
			return storeErr("delete notices", err)
		}
		if err := tx.Practicals().DeleteByLab(ctx, lab.ID); err != nil {
			return storeErr("delete practicals", err)
		}
		if err := tx.Labs().Delete(ctx, lab.ID); err != nil {
			return lookupErr("lab", err)
		}
		return nil
	})
	if err != nil {
		return passThrough("delete lab", err)
	}

	s.cache.Invalidate(ctx, labID)
	s.logger.Info().Str("lab_id", labID).Msg("lab deleted")
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "lab.deleted",
		EntityType: "lab",
		EntityID:   labID,
	})
	return nil
}

func (s *labService) ensureSubjectCodeFree(ctx context.Context, code, exceptLabID string) error {
	existing, err := s.store.Labs().GetBySubjectCode(ctx, code)
	if err == nil {
		if existing.ID == exceptLabID {
			return nil
		}
		return errDuplicateSubjectCode
	}
	if isNotFound(err) {
		return nil
	}
	return storeErr("find lab", err)
}

var errDuplicateSubjectCode = &ConflictError{Entity: "lab", Reason: "subject code already in use"}

func subjectCodeWriteErr(err error) error {
	if conflict := writeErr("lab", err); isConflict(conflict) {
		return errDuplicateSubjectCode
	}
	return storeErr("save lab", err)
}

func validateWeights(lab models.Lab) error {
	if lab.AttendanceMarks < 0 || lab.PracticalMarks < 0 || lab.VivaMarks < 0 {
		return invalid("lab marks must not be negative")
	}
	if lab.MaxMarks() <= 0 {
		return invalid("lab max marks must be greater than zero")
	}
	return nil
}

func normalizeSubjectCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}
