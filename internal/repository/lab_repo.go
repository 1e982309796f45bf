package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

// LabRepository defines persistence operations for labs.
type LabRepository interface {
	List(ctx context.Context) ([]models.Lab, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Lab, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Lab, error)
	GetByID(ctx context.Context, id string) (models.Lab, error)
	GetDetail(ctx context.Context, id string) (models.Lab, error)
	GetBySubjectCode(ctx context.Context, code string) (models.Lab, error)
	Create(ctx context.Context, lab *models.Lab) error
	Update(ctx context.Context, lab *models.Lab) error
	Delete(ctx context.Context, id string) error
}

type labRepository struct {
	db *gorm.DB
}

// NewLabRepository instantiates a GORM-backed repository.
func NewLabRepository(db *gorm.DB) LabRepository {
	return &labRepository{db: db}
}

func (r *labRepository) List(ctx context.Context) ([]models.Lab, error) {
	var labs []models.Lab
	if err := r.db.WithContext(ctx).Preload("Teacher").Order("subject_code ASC").Find(&labs).Error; err != nil {
		return nil, err
	}
	return labs, nil
}

func (r *labRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Lab, error) {
	var labs []models.Lab
	if err := r.detailQuery(ctx).
		Where("teacher_id = ?", teacherID).
		Order("subject_code ASC").
		Find(&labs).Error; err != nil {
		return nil, err
	}
	return labs, nil
}

func (r *labRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Lab, error) {
	var labs []models.Lab
	if err := r.detailQuery(ctx).
		Joins("JOIN enrollments ON enrollments.lab_id = labs.id").
		Where("enrollments.student_id = ?", studentID).
		Order("labs.subject_code ASC").
		Find(&labs).Error; err != nil {
		return nil, err
	}
	return labs, nil
}

func (r *labRepository) GetByID(ctx context.Context, id string) (models.Lab, error) {
	var lab models.Lab
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&lab).Error; err != nil {
		return models.Lab{}, err
	}
	return lab, nil
}

func (r *labRepository) GetDetail(ctx context.Context, id string) (models.Lab, error) {
	var lab models.Lab
	if err := r.detailQuery(ctx).Where("labs.id = ?", id).First(&lab).Error; err != nil {
		return models.Lab{}, err
	}
	return lab, nil
}

func (r *labRepository) GetBySubjectCode(ctx context.Context, code string) (models.Lab, error) {
	var lab models.Lab
	if err := r.db.WithContext(ctx).Where("subject_code = ?", code).First(&lab).Error; err != nil {
		return models.Lab{}, err
	}
	return lab, nil
}

func (r *labRepository) Create(ctx context.Context, lab *models.Lab) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(lab).Error
}

func (r *labRepository) Update(ctx context.Context, lab *models.Lab) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(lab).Error
}

func (r *labRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Lab{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *labRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Lab{}).
		Preload("Teacher").
		Preload("Timetables", func(db *gorm.DB) *gorm.DB { return db.Order("day ASC") }).
		Preload("Practicals", func(db *gorm.DB) *gorm.DB { return db.Order("deadline ASC") }).
		Preload("Notices", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") })
}
