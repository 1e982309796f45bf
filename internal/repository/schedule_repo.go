package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

// TimetableRepository persists lab timetable slots.
type TimetableRepository interface {
	ListByLab(ctx context.Context, labID string) ([]models.Timetable, error)
	GetByID(ctx context.Context, id string) (models.Timetable, error)
	Create(ctx context.Context, slot *models.Timetable) error
	Update(ctx context.Context, slot *models.Timetable) error
	Delete(ctx context.Context, id string) error
	DeleteByLab(ctx context.Context, labID string) error
}

type timetableRepository struct {
	db *gorm.DB
}

// NewTimetableRepository instantiates the repository.
func NewTimetableRepository(db *gorm.DB) TimetableRepository {
	return &timetableRepository{db: db}
}

func (r *timetableRepository) ListByLab(ctx context.Context, labID string) ([]models.Timetable, error) {
	var slots []models.Timetable
	if err := r.db.WithContext(ctx).Where("lab_id = ?", labID).Order("day ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *timetableRepository) GetByID(ctx context.Context, id string) (models.Timetable, error) {
	var slot models.Timetable
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&slot).Error; err != nil {
		return models.Timetable{}, err
	}
	return slot, nil
}

func (r *timetableRepository) Create(ctx context.Context, slot *models.Timetable) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(slot).Error
}

func (r *timetableRepository) Update(ctx context.Context, slot *models.Timetable) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(slot).Error
}

func (r *timetableRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &models.Timetable{}, id)
}

func (r *timetableRepository) DeleteByLab(ctx context.Context, labID string) error {
	return r.db.WithContext(ctx).Where("lab_id = ?", labID).Delete(&models.Timetable{}).Error
}

// NoticeRepository persists lab notices.
type NoticeRepository interface {
	ListByLab(ctx context.Context, labID string) ([]models.Notice, error)
	GetByID(ctx context.Context, id string) (models.Notice, error)
	Create(ctx context.Context, notice *models.Notice) error
	Update(ctx context.Context, notice *models.Notice) error
	Delete(ctx context.Context, id string) error
	DeleteByLab(ctx context.Context, labID string) error
}

type noticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository instantiates the repository.
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) ListByLab(ctx context.Context, labID string) ([]models.Notice, error) {
	var notices []models.Notice
	if err := r.db.WithContext(ctx).Where("lab_id = ?", labID).Order("created_at DESC").Find(&notices).Error; err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *noticeRepository) GetByID(ctx context.Context, id string) (models.Notice, error) {
	var notice models.Notice
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&notice).Error; err != nil {
		return models.Notice{}, err
	}
	return notice, nil
}

func (r *noticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(notice).Error
}

func (r *noticeRepository) Update(ctx context.Context, notice *models.Notice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(notice).Error
}

func (r *noticeRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &models.Notice{}, id)
}

func (r *noticeRepository) DeleteByLab(ctx context.Context, labID string) error {
	return r.db.WithContext(ctx).Where("lab_id = ?", labID).Delete(&models.Notice{}).Error
}

func deleteByID(ctx context.Context, db *gorm.DB, model interface{}, id string) error {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
