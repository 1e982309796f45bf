package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

// PracticalRepository persists practicals.
type PracticalRepository interface {
	ListByLab(ctx context.Context, labID string) ([]models.Practical, error)
	// GetByID returns the practical joined with its lab.
	GetByID(ctx context.Context, id string) (models.Practical, error)
	Create(ctx context.Context, practical *models.Practical) error
	Update(ctx context.Context, practical *models.Practical) error
	Delete(ctx context.Context, id string) error
	DeleteByLab(ctx context.Context, labID string) error
}

type practicalRepository struct {
	db *gorm.DB
}

// NewPracticalRepository instantiates the repository.
func NewPracticalRepository(db *gorm.DB) PracticalRepository {
	return &practicalRepository{db: db}
}

func (r *practicalRepository) ListByLab(ctx context.Context, labID string) ([]models.Practical, error) {
	var practicals []models.Practical
	if err := r.db.WithContext(ctx).Where("lab_id = ?", labID).Order("deadline ASC").Find(&practicals).Error; err != nil {
		return nil, err
	}
	return practicals, nil
}

func (r *practicalRepository) GetByID(ctx context.Context, id string) (models.Practical, error) {
	var practical models.Practical
	if err := r.db.WithContext(ctx).Preload("Lab").Where("id = ?", id).First(&practical).Error; err != nil {
		return models.Practical{}, err
	}
	return practical, nil
}

func (r *practicalRepository) Create(ctx context.Context, practical *models.Practical) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(practical).Error
}

func (r *practicalRepository) Update(ctx context.Context, practical *models.Practical) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(practical).Error
}

func (r *practicalRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &models.Practical{}, id)
}

func (r *practicalRepository) DeleteByLab(ctx context.Context, labID string) error {
	return r.db.WithContext(ctx).Where("lab_id = ?", labID).Delete(&models.Practical{}).Error
}
