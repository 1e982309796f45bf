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

// PracticalService manages the practicals of a lab.
type PracticalService interface {
	ListByLab(ctx context.Context, labID string) ([]dto.PracticalResponse, error)
	Create(ctx context.Context, actor Actor, labID string, req dto.PracticalRequest) (dto.PracticalResponse, error)
	Update(ctx context.Context, actor Actor, practicalID string, patch dto.PracticalPatch) (dto.PracticalResponse, error)
	// Delete refuses while the practical has submissions.
	Delete(ctx context.Context, actor Actor, practicalID string) error
}

type practicalService struct {
	store     repository.Store
	cache     CatalogCache
	activity  ActivityRecorder
	validator *validator.Validate
	policy    *bluemonday.Policy
	logger    zerolog.Logger
}

// NewPracticalService constructs the practical service.
func NewPracticalService(store repository.Store, cache CatalogCache, activity ActivityRecorder, validator *validator.Validate, logger zerolog.Logger) PracticalService {
	if cache == nil {
		cache = noopCatalogCache{}
	}
	return &practicalService{
		store:     store,
		cache:     cache,
		activity:  activity,
		validator: validator,
		policy:    bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "practical_service").Logger(),
	}
}

func (s *practicalService) ListByLab(ctx context.Context, labID string) ([]dto.PracticalResponse, error) {
	if _, err := s.store.Labs().GetByID(ctx, labID); err != nil {
		return nil, lookupErr("lab", err)
	}

	practicals, err := s.store.Practicals().ListByLab(ctx, labID)
	if err != nil {
		return nil, storeErr("list practicals", err)
	}

	responses := make([]dto.PracticalResponse, 0, len(practicals))
	for _, practical := range practicals {
		responses = append(responses, dto.NewPracticalResponse(practical))
	}
	return responses, nil
}

func (s *practicalService) Create(ctx context.Context, actor Actor, labID string, req dto.PracticalRequest) (dto.PracticalResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.PracticalResponse{}, err
	}

	lab, err := s.store.Labs().GetByID(ctx, labID)
	if err != nil {
		return dto.PracticalResponse{}, lookupErr("lab", err)
	}

	practical := models.Practical{
		LabID:       lab.ID,
		TeacherID:   lab.TeacherID,
		Title:       strings.TrimSpace(req.Title),
		Description: s.policy.Sanitize(req.Description),
		Deadline:    req.Deadline.UTC(),
	}
	if err := s.store.Practicals().Create(ctx, &practical); err != nil {
		return dto.PracticalResponse{}, writeErr("practical", err)
	}

	s.cache.Invalidate(ctx, lab.ID)
	s.logger.Info().Str("practical_id", practical.ID).Str("lab_id", lab.ID).Msg("practical created")
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "practical.created",
		EntityType: "practical",
		EntityID:   practical.ID,
		Metadata:   map[string]interface{}{"lab_id": lab.ID, "deadline": practical.Deadline},
	})

	return dto.NewPracticalResponse(practical), nil
}

func (s *practicalService) Update(ctx context.Context, actor Actor, practicalID string, patch dto.PracticalPatch) (dto.PracticalResponse, error) {
	if err := s.validator.Struct(patch); err != nil {
		return dto.PracticalResponse{}, err
	}

	practical, err := s.store.Practicals().GetByID(ctx, practicalID)
	if err != nil {
		return dto.PracticalResponse{}, lookupErr("practical", err)
	}

	if patch.Title != nil {
		practical.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		practical.Description = s.policy.Sanitize(*patch.Description)
	}
	if patch.Deadline != nil {
		if patch.Deadline.IsZero() {
			return dto.PracticalResponse{}, invalid("deadline must be set")
		}
		practical.Deadline = patch.Deadline.UTC()
	}

	if err := s.store.Practicals().Update(ctx, &practical); err != nil {
		return dto.PracticalResponse{}, storeErr("update practical", err)
	}

	s.cache.Invalidate(ctx, practical.LabID)
	s.logger.Info().Str("practical_id", practical.ID).Msg("practical updated")
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "practical.updated",
		EntityType: "practical",
		EntityID:   practical.ID,
	})

	return dto.NewPracticalResponse(practical), nil
}

func (s *practicalService) Delete(ctx context.Context, actor Actor, practicalID string) error {
	practical, err := s.store.Practicals().GetByID(ctx, practicalID)
	if err != nil {
		return lookupErr("practical", err)
	}

	submissions, err := s.store.Submissions().CountByPractical(ctx, practical.ID)
	if err != nil {
		return storeErr("count submissions", err)
	}
	if submissions > 0 {
		return &ConflictError{Entity: "practical", Reason: "practical has submissions"}
	}

	if err := s.store.Practicals().Delete(ctx, practical.ID); err != nil {
		return lookupErr("practical", err)
	}

	s.cache.Invalidate(ctx, practical.LabID)
	s.logger.Info().Str("practical_id", practical.ID).Msg("practical deleted")
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "practical.deleted",
		EntityType: "practical",
		EntityID:   practical.ID,
	})
	return nil
}
