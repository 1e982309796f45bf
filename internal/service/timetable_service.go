package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lab-manager-api/internal/dto"
	"github.com/noah-isme/lab-manager-api/internal/models"
	"github.com/noah-isme/lab-manager-api/internal/repository"
)

// TimetableService manages the weekly slots of a lab.
type TimetableService interface {
	ListByLab(ctx context.Context, labID string) ([]dto.TimetableResponse, error)
	Create(ctx context.Context, actor Actor, labID string, req dto.TimetableRequest) (dto.TimetableResponse, error)
	Update(ctx context.Context, actor Actor, timetableID string, patch dto.TimetablePatch) (dto.TimetableResponse, error)
	Delete(ctx context.Context, actor Actor, timetableID string) error
}

type timetableService struct {
	store     repository.Store
	cache     CatalogCache
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTimetableService constructs the timetable service.
func NewTimetableService(store repository.Store, cache CatalogCache, activity ActivityRecorder, validator *validator.Validate, logger zerolog.Logger) TimetableService {
	if cache == nil {
		cache = noopCatalogCache{}
	}
	return &timetableService{
		store:     store,
		cache:     cache,
		activity:  activity,
		validator: validator,
		logger:    logger.With().Str("component", "timetable_service").Logger(),
	}
}

func (s *timetableService) ListByLab(ctx context.Context, labID string) ([]dto.TimetableResponse, error) {
	if _, err := s.store.Labs().GetByID(ctx, labID); err != nil {
		return nil, lookupErr("lab", err)
	}

	slots, err := s.store.Timetables().ListByLab(ctx, labID)
	if err != nil {
		return nil, storeErr("list timetable", err)
	}

	responses := make([]dto.TimetableResponse, 0, len(slots))
	for _, slot := range slots {
		responses = append(responses, dto.NewTimetableResponse(slot))
	}
	return responses, nil
}

func (s *timetableService) Create(ctx context.Context, actor Actor, labID string, req dto.TimetableRequest) (dto.TimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.TimetableResponse{}, err
	}

	if _, err := s.store.Labs().GetByID(ctx, labID); err != nil {
		return dto.TimetableResponse{}, lookupErr("lab", err)
	}

	slot := models.Timetable{
		LabID:     labID,
		Day:       req.Day,
		StartTime: normalizeClock(req.StartTime),
		EndTime:   normalizeClock(req.EndTime),
		Room:      strings.TrimSpace(req.Room),
	}
	if err := checkSlotOrder(slot); err != nil {
		return dto.TimetableResponse{}, err
	}
	if err := s.store.Timetables().Create(ctx, &slot); err != nil {
		return dto.TimetableResponse{}, writeErr("timetable", err)
	}

	s.cache.Invalidate(ctx, labID)
	s.logger.Info().Str("timetable_id", slot.ID).Str("lab_id", labID).Msg("timetable slot created")
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "timetable.created",
		EntityType: "timetable",
		EntityID:   slot.ID,
		Metadata:   map[string]interface{}{"lab_id": labID, "day": slot.Day},
	})

	return dto.NewTimetableResponse(slot), nil
}

func (s *timetableService) Update(ctx context.Context, actor Actor, timetableID string, patch dto.TimetablePatch) (dto.TimetableResponse, error) {
	if err := s.validator.Struct(patch); err != nil {
		return dto.TimetableResponse{}, err
	}

	slot, err := s.store.Timetables().GetByID(ctx, timetableID)
	if err != nil {
		return dto.TimetableResponse{}, lookupErr("timetable", err)
	}

	if patch.Day != nil {
		slot.Day = *patch.Day
	}
	if patch.StartTime != nil {
		slot.StartTime = normalizeClock(*patch.StartTime)
	}
	if patch.EndTime != nil {
		slot.EndTime = normalizeClock(*patch.EndTime)
	}
	if patch.Room != nil {
		slot.Room = strings.TrimSpace(*patch.Room)
	}
	if err := checkSlotOrder(slot); err != nil {
		return dto.TimetableResponse{}, err
	}

	if err := s.store.Timetables().Update(ctx, &slot); err != nil {
		return dto.TimetableResponse{}, storeErr("update timetable", err)
	}

	s.cache.Invalidate(ctx, slot.LabID)
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "timetable.updated",
		EntityType: "timetable",
		EntityID:   slot.ID,
	})
	return dto.NewTimetableResponse(slot), nil
}

func (s *timetableService) Delete(ctx context.Context, actor Actor, timetableID string) error {
	slot, err := s.store.Timetables().GetByID(ctx, timetableID)
	if err != nil {
		return lookupErr("timetable", err)
	}
	if err := s.store.Timetables().Delete(ctx, slot.ID); err != nil {
		return lookupErr("timetable", err)
	}

	s.cache.Invalidate(ctx, slot.LabID)
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "timetable.deleted",
		EntityType: "timetable",
		EntityID:   slot.ID,
	})
	return nil
}

// normalizeClock zero-pads validated times so they sort chronologically.
func normalizeClock(value string) string {
	parsed, err := time.Parse(clockLayout, strings.TrimSpace(value))
	if err != nil {
		return strings.TrimSpace(value)
	}
	return parsed.Format(clockLayout)
}

const clockLayout = "15:04"

// checkSlotOrder relies on normalised HH:MM strings.
func checkSlotOrder(slot models.Timetable) error {
	if slot.EndTime <= slot.StartTime {
		return invalid("end_time must be after start_time")
	}
	return nil
}
