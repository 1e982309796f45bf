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

// NoticeService manages lab announcements.
type NoticeService interface {
	ListByLab(ctx context.Context, labID string) ([]dto.NoticeResponse, error)
	Create(ctx context.Context, actor Actor, labID string, req dto.NoticeRequest) (dto.NoticeResponse, error)
	Update(ctx context.Context, actor Actor, noticeID string, patch dto.NoticePatch) (dto.NoticeResponse, error)
	Delete(ctx context.Context, actor Actor, noticeID string) error
}

type noticeService struct {
	store     repository.Store
	cache     CatalogCache
	activity  ActivityRecorder
	validator *validator.Validate
	policy    *bluemonday.Policy
	logger    zerolog.Logger
}

// NewNoticeService constructs the notice service.
func NewNoticeService(store repository.Store, cache CatalogCache, activity ActivityRecorder, validator *validator.Validate, logger zerolog.Logger) NoticeService {
	if cache == nil {
		cache = noopCatalogCache{}
	}
	return &noticeService{
		store:     store,
		cache:     cache,
		activity:  activity,
		validator: validator,
		policy:    bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "notice_service").Logger(),
	}
}

func (s *noticeService) ListByLab(ctx context.Context, labID string) ([]dto.NoticeResponse, error) {
	if _, err := s.store.Labs().GetByID(ctx, labID); err != nil {
		return nil, lookupErr("lab", err)
	}

	notices, err := s.store.Notices().ListByLab(ctx, labID)
	if err != nil {
		return nil, storeErr("list notices", err)
	}

	responses := make([]dto.NoticeResponse, 0, len(notices))
	for _, notice := range notices {
		responses = append(responses, dto.NewNoticeResponse(notice))
	}
	return responses, nil
}

func (s *noticeService) Create(ctx context.Context, actor Actor, labID string, req dto.NoticeRequest) (dto.NoticeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.NoticeResponse{}, err
	}

	lab, err := s.store.Labs().GetByID(ctx, labID)
	if err != nil {
		return dto.NoticeResponse{}, lookupErr("lab", err)
	}

	notice := models.Notice{
		LabID:     lab.ID,
		TeacherID: lab.TeacherID,
		Title:     strings.TrimSpace(req.Title),
		Content:   s.policy.Sanitize(req.Content),
	}
	if err := s.store.Notices().Create(ctx, &notice); err != nil {
		return dto.NoticeResponse{}, writeErr("notice", err)
	}

	s.cache.Invalidate(ctx, lab.ID)
	s.logger.Info().Str("notice_id", notice.ID).Str("lab_id", lab.ID).Msg("notice posted")
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "notice.created",
		EntityType: "notice",
		EntityID:   notice.ID,
		Metadata:   map[string]interface{}{"lab_id": lab.ID},
	})

	return dto.NewNoticeResponse(notice), nil
}

func (s *noticeService) Update(ctx context.Context, actor Actor, noticeID string, patch dto.NoticePatch) (dto.NoticeResponse, error) {
	if err := s.validator.Struct(patch); err != nil {
		return dto.NoticeResponse{}, err
	}

	notice, err := s.store.Notices().GetByID(ctx, noticeID)
	if err != nil {
		return dto.NoticeResponse{}, lookupErr("notice", err)
	}

	if patch.Title != nil {
		notice.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		notice.Content = s.policy.Sanitize(*patch.Content)
	}

	if err := s.store.Notices().Update(ctx, &notice); err != nil {
		return dto.NoticeResponse{}, storeErr("update notice", err)
	}

	s.cache.Invalidate(ctx, notice.LabID)
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "notice.updated",
		EntityType: "notice",
		EntityID:   notice.ID,
	})
	return dto.NewNoticeResponse(notice), nil
}

func (s *noticeService) Delete(ctx context.Context, actor Actor, noticeID string) error {
	notice, err := s.store.Notices().GetByID(ctx, noticeID)
	if err != nil {
		return lookupErr("notice", err)
	}
	if err := s.store.Notices().Delete(ctx, notice.ID); err != nil {
		return lookupErr("notice", err)
	}

	s.cache.Invalidate(ctx, notice.LabID)
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "notice.deleted",
		EntityType: "notice",
		EntityID:   notice.ID,
	})
	return nil
}
